// Package scenario defines named parameter matrices. A matrix renders one
// file per combination of its value lists.
package scenario

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/wavsynth"
)

// Matrix lists the values each render parameter takes. An empty list
// contributes its zero value once.
type Matrix struct {
	Name        string
	Waveforms   []wavsynth.WaveformType
	SampleRates []int
	BitDepths   []int
	Durations   []float64
	Frequencies []float64
	Amplitudes  []float64
	DCOffsets   []float64
	// Phases are in radians.
	Phases []float64
	// Noises holds "", "white" or "pink"; "" means no overlay.
	Noises       []string
	NoiseVolumes []float64
}

// Params is one combination of a Matrix.
type Params struct {
	Waveform    wavsynth.WaveformType
	SampleRate  int
	BitDepth    int
	Duration    float64
	Frequency   float64
	Amplitude   float64
	DCOffset    float64
	Phase       float64
	Noise       string
	NoiseVolume float64
}

// Count is the number of combinations, the product of the list lengths.
func (m Matrix) Count() int {
	n := 1
	for _, l := range []int{
		len(m.Waveforms), len(m.SampleRates), len(m.BitDepths), len(m.Durations), len(m.Frequencies),
		len(m.Amplitudes), len(m.DCOffsets), len(m.Phases), len(m.Noises), len(m.NoiseVolumes),
	} {
		n *= max(l, 1)
	}

	return n
}

// WithDuration returns a copy of m where every combination lasts seconds.
func (m Matrix) WithDuration(seconds float64) Matrix {
	m.Durations = []float64{seconds}
	return m
}

// Expand returns every combination in a stable order; the last list varies
// fastest.
func (m Matrix) Expand() []Params {
	out := []Params{{}}

	out = cross(out, m.Waveforms, func(p *Params, v wavsynth.WaveformType) { p.Waveform = v })
	out = cross(out, m.SampleRates, func(p *Params, v int) { p.SampleRate = v })
	out = cross(out, m.BitDepths, func(p *Params, v int) { p.BitDepth = v })
	out = cross(out, m.Durations, func(p *Params, v float64) { p.Duration = v })
	out = cross(out, m.Frequencies, func(p *Params, v float64) { p.Frequency = v })
	out = cross(out, m.Amplitudes, func(p *Params, v float64) { p.Amplitude = v })
	out = cross(out, m.DCOffsets, func(p *Params, v float64) { p.DCOffset = v })
	out = cross(out, m.Phases, func(p *Params, v float64) { p.Phase = v })
	out = cross(out, m.Noises, func(p *Params, v string) { p.Noise = v })
	out = cross(out, m.NoiseVolumes, func(p *Params, v float64) { p.NoiseVolume = v })

	return out
}

func cross[T any](in []Params, values []T, set func(*Params, T)) []Params {
	if len(values) == 0 {
		return in
	}

	out := make([]Params, 0, len(in)*len(values))
	for _, p := range in {
		for _, v := range values {
			set(&p, v)
			out = append(out, p)
		}
	}

	return out
}

// Requests expands m into mono WAV render requests.
func (m Matrix) Requests() ([]wavsynth.Request, error) {
	params := m.Expand()

	reqs := make([]wavsynth.Request, len(params))
	for i, p := range params {
		req, err := p.Request()
		if err != nil {
			return nil, fmt.Errorf("%s combination %d: %w", m.Name, i, err)
		}

		reqs[i] = req
	}

	return reqs, nil
}

// Request builds the mono WAV render request for p.
func (p Params) Request() (wavsynth.Request, error) {
	tone := wavsynth.Tone{
		Spec: wavsynth.WaveformSpec{
			Type:            p.Waveform,
			FrequencyHz:     p.Frequency,
			Amplitude:       p.Amplitude,
			PhaseRadians:    p.Phase,
			DurationSeconds: p.Duration,
			SampleRateHz:    p.SampleRate,
			DCOffset:        p.DCOffset,
		},
		NoiseVolume: p.NoiseVolume,
	}

	if p.Noise != "" {
		noise, err := wavsynth.ParseWaveformType(p.Noise)
		if err != nil {
			return wavsynth.Request{}, err
		}

		if !noise.IsNoise() {
			return wavsynth.Request{}, fmt.Errorf("%w: %s is not a noise type", wavsynth.ErrInvalidSpec, noise)
		}

		tone.Noise = noise
	}

	if err := tone.Spec.Validate(); err != nil {
		return wavsynth.Request{}, err
	}

	format := wavsynth.FormatDescriptor{
		Channels:      1,
		SampleRateHz:  p.SampleRate,
		BitsPerSample: p.BitDepth,
		Encoding:      wavsynth.PCMInteger,
	}

	return tone.Request(format, wavsynth.ContainerWAV)
}

// standardTuning is E2 A2 D3 G3 B3 E4.
var standardTuning = []float64{82.41, 110, 146.83, 196, 246.94, 329.63}

// semitones returns the twelve semitones starting at every base frequency,
// rounded to 0.01 Hz.
func semitones(bases []float64) []float64 {
	out := make([]float64, 0, 12*len(bases))
	for _, f := range bases {
		for n := range 12 {
			out = append(out, math.Round(f*math.Pow(2, float64(n)/12)*100)/100)
		}
	}

	return out
}

var (
	cdRates  = []int{22050, 44100}
	dvdRates = []int{48000, 96000}
	bluRay   = []int{192000}
	// DVD audio also lists 20-bit, which the encoder doesn't write.
	dvdBits = []int{16, 24}
)

var (
	Smoke = Matrix{
		Name:        "Smoke",
		Waveforms:   []wavsynth.WaveformType{wavsynth.Sine},
		SampleRates: cdRates,
		BitDepths:   dvdBits,
		Durations:   []float64{5},
		Frequencies: standardTuning,
		Amplitudes:  []float64{0.5},
		DCOffsets:   []float64{0},
		Phases:      []float64{0},
	}

	Normal = Matrix{
		Name:         "Normal",
		Waveforms:    []wavsynth.WaveformType{wavsynth.Sine},
		SampleRates:  append(append([]int{}, cdRates...), dvdRates...),
		BitDepths:    dvdBits,
		Durations:    []float64{5, 7},
		Frequencies:  semitones(standardTuning),
		Amplitudes:   []float64{0.5},
		DCOffsets:    []float64{0},
		Phases:       []float64{0},
		Noises:       []string{"", "pink"},
		NoiseVolumes: []float64{0, 0.1},
	}

	Stress = Matrix{
		Name:         "Stress",
		Waveforms:    []wavsynth.WaveformType{wavsynth.Sine},
		SampleRates:  append(append(append([]int{}, cdRates...), dvdRates...), bluRay...),
		BitDepths:    dvdBits,
		Durations:    []float64{10},
		Frequencies:  []float64{440, 880, 1760},
		Amplitudes:   []float64{0.5},
		DCOffsets:    []float64{0},
		Phases:       []float64{0, math.Pi / 4},
		Noises:       []string{"white", "pink"},
		NoiseVolumes: []float64{0.1, 0.3},
	}
)

var registry = map[string]Matrix{
	"smoke":  Smoke,
	"normal": Normal,
	"stress": Stress,
}

// Lookup finds a built-in matrix by case-insensitive name.
func Lookup(name string) (Matrix, error) {
	m, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Matrix{}, fmt.Errorf("unknown scenario %q, want one of %s", name, strings.Join(Names(), ", "))
	}

	return m, nil
}

// Names lists the built-in matrices.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, m := range registry {
		names = append(names, m.Name)
	}

	sort.Strings(names)

	return names
}
