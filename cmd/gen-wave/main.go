// This tool synthesizes a test tone and writes it as a WAV or AIFF file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/wavsynth"
	"github.com/cwbudde/wavsynth/internal/config"
	"github.com/cwbudde/wavsynth/internal/logging"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("gen-wave", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to, or the directory with -describe")
	describe := flagSet.Bool("describe", false, "name the file after its parameters inside the -output directory")
	waveform := flagSet.String("waveform", "sine", "sine, square, sawtooth, triangle, white or pink")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	amplitude := flagSet.Float64("amplitude", 1, "peak amplitude in [0,1]")
	phase := flagSet.Float64("phase", 0, "phase shift in degrees")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	sampleRate := flagSet.Int("sample-rate", cfg.SampleRate, "sample rate in hertz")
	bits := flagSet.Int("bits", cfg.BitDepth, "bits per sample: 8, 16, 24, 32 (or 32, 64 with -float)")
	float := flagSet.Bool("float", false, "write IEEE float samples")
	channels := flagSet.Int("channels", 1, "number of channels")
	channelVolumes := flagSet.String("channel-volumes", "", "comma separated gain per channel, e.g. 1,0.5")
	harmonics := flagSet.String("harmonics", "", `extra partials as "freq,amp;freq,amp"`)
	dcOffset := flagSet.Float64("dc-offset", 0, "constant added to every sample")
	noise := flagSet.String("noise", "", "noise mixed under the tone: white or pink")
	noiseVolume := flagSet.Float64("noise-volume", 0, "gain of the noise overlay")
	seed := flagSet.Uint64("seed", 0, "noise seed, 0 selects the default")
	container := flagSet.String("container", "wav", "wav or aiff")
	title := flagSet.String("title", "", "INFO title tag (wav only)")
	logLevel := flagSet.String("log-level", cfg.LogLevel, "debug, info, warn or error")

	err = flagSet.Parse(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(*logLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	typ, err := wavsynth.ParseWaveformType(*waveform)
	if err != nil {
		return err
	}

	harms, err := parseHarmonics(*harmonics)
	if err != nil {
		return err
	}

	volumes, err := parseFloats(*channelVolumes)
	if err != nil {
		return fmt.Errorf("invalid -channel-volumes: %w", err)
	}

	kind, err := wavsynth.ParseContainer(*container)
	if err != nil {
		return err
	}

	tone := wavsynth.Tone{
		Spec: wavsynth.WaveformSpec{
			Type:            typ,
			FrequencyHz:     *frequency,
			Amplitude:       *amplitude,
			PhaseRadians:    *phase * math.Pi / 180,
			DurationSeconds: *length,
			SampleRateHz:    *sampleRate,
			Seed:            *seed,
			DCOffset:        *dcOffset,
			Harmonics:       harms,
		},
		ChannelVolumes: volumes,
		NoiseVolume:    *noiseVolume,
	}

	if *noise != "" {
		tone.Noise, err = wavsynth.ParseWaveformType(*noise)
		if err != nil {
			return err
		}

		if !tone.Noise.IsNoise() {
			return fmt.Errorf("%w: -noise must be white or pink", wavsynth.ErrInvalidSpec)
		}
	}

	if err := tone.Spec.Validate(); err != nil {
		return err
	}

	if !tone.Spec.BelowNyquist() {
		logger.Warn("frequency content at or above nyquist will alias",
			zap.Float64("frequency", *frequency), zap.Int("sampleRate", *sampleRate))
	}

	encoding := wavsynth.PCMInteger
	if *float {
		encoding = wavsynth.IEEEFloat
	}

	format := wavsynth.FormatDescriptor{
		Channels:      *channels,
		SampleRateHz:  *sampleRate,
		BitsPerSample: *bits,
		Encoding:      encoding,
	}

	req, err := tone.Request(format, kind)
	if err != nil {
		return err
	}

	if *title != "" {
		req.Metadata = &wavsynth.Metadata{Title: *title, Software: "gen-wave"}
	}

	path := *output
	if *describe {
		path = filepath.Join(*output, req.FileName())
	}

	logger.Info("generating",
		zap.Stringer("waveform", typ),
		zap.Float64("frequency", *frequency),
		zap.Float64("length", *length),
		zap.Stringer("format", format),
		zap.String("output", path),
	)

	f, err := wavsynth.Render(req)
	if err != nil {
		return err
	}

	var clip *wavsynth.ClippingError
	if errors.As(f.Diagnostic(), &clip) {
		logger.Warn("clipping detected", zap.Int("samples", clip.Count))
	}

	return wavsynth.WriteFile(path, f)
}

// parseHarmonics parses "freq,amp;freq,amp".
func parseHarmonics(s string) ([]wavsynth.Harmonic, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var out []wavsynth.Harmonic

	for _, pair := range strings.Split(s, ";") {
		vals, err := parseFloats(pair)
		if err != nil || len(vals) != 2 {
			return nil, fmt.Errorf("%w: harmonic %q, want freq,amp", wavsynth.ErrInvalidSpec, pair)
		}

		out = append(out, wavsynth.Harmonic{FrequencyHz: vals[0], Amplitude: vals[1]})
	}

	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")

	out := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}
