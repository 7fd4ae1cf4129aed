package wavsynth

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// WriteFile stores f at path, replacing any existing file.
func WriteFile(path string, f *EncodedFile) (err error) {
	if f == nil {
		return fmt.Errorf("%w: nil file", ErrInvalidSpec)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, out.Close())
	}()

	if _, err := f.WriteTo(out); err != nil {
		return err
	}

	if err := out.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}

	return nil
}

// FileStem names a render after its parameters, for example
// sine_freq440Hz_amp-6.02dB_samp8000Hz16bit_1.00s_harmonics-880Hz_0.10.
// The first voice describes the tone; later noise voices add a noise suffix.
func FileStem(voices []Voice, format FormatDescriptor) string {
	if len(voices) == 0 {
		return "silence"
	}

	lead := voices[0].Spec

	var sb strings.Builder

	depth := fmt.Sprintf("%dbit", format.BitsPerSample)
	if format.Encoding == IEEEFloat {
		depth += "float"
	}

	// silence has no finite level
	gain := "-inf"
	if lead.Amplitude > 0 {
		gain = fmt.Sprintf("%.2f", 20*math.Log10(lead.Amplitude))
	}

	fmt.Fprintf(&sb, "%s_freq%sHz_amp%sdB_samp%dHz%s_%.2fs",
		lead.Type,
		formatFloat(lead.FrequencyHz),
		gain,
		format.SampleRateHz,
		depth,
		lead.DurationSeconds,
	)

	if format.Channels > 1 {
		fmt.Fprintf(&sb, "_%dch", format.Channels)
	}

	if lead.DCOffset != 0 {
		fmt.Fprintf(&sb, "_%.2fdco", lead.DCOffset)
	}

	if len(lead.Harmonics) > 0 {
		sb.WriteString("_harmonics")

		for _, h := range lead.Harmonics {
			fmt.Fprintf(&sb, "-%sHz_%.2f", formatFloat(h.FrequencyHz), h.Amplitude)
		}
	}

	for _, v := range voices[1:] {
		if !v.Spec.Type.IsNoise() {
			continue
		}

		fmt.Fprintf(&sb, "_noise-%s", v.Spec.Type)

		if v.Gain != 0 {
			fmt.Fprintf(&sb, "_volume-%.2f", v.Gain)
		}

		// every channel carries the same overlay
		break
	}

	return sb.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
