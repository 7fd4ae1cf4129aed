package wavsynth

import (
	"fmt"
	"strings"
)

// WaveformType selects the synthesis function of a WaveformSpec.
type WaveformType uint8

const (
	Sine WaveformType = iota
	Square
	Sawtooth
	Triangle
	WhiteNoise
	PinkNoise
)

var waveformNames = [...]string{
	Sine:       "sine",
	Square:     "square",
	Sawtooth:   "sawtooth",
	Triangle:   "triangle",
	WhiteNoise: "white",
	PinkNoise:  "pink",
}

func (w WaveformType) String() string {
	if int(w) < len(waveformNames) {
		return waveformNames[w]
	}

	return fmt.Sprintf("waveform(%d)", uint8(w))
}

// IsNoise reports whether the waveform is a random signal rather than a
// periodic one.
func (w WaveformType) IsNoise() bool {
	return w == WhiteNoise || w == PinkNoise
}

// ParseWaveformType parses the names printed by WaveformType.String. The
// aliases "saw", "whitenoise" and "pinknoise" are accepted too.
func ParseWaveformType(name string) (WaveformType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "square":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "triangle":
		return Triangle, nil
	case "white", "whitenoise", "white-noise":
		return WhiteNoise, nil
	case "pink", "pinknoise", "pink-noise":
		return PinkNoise, nil
	default:
		return 0, fmt.Errorf("%w: unknown waveform %q", ErrInvalidSpec, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (w WaveformType) MarshalText() ([]byte, error) {
	if int(w) >= len(waveformNames) {
		return nil, fmt.Errorf("%w: unknown waveform %d", ErrInvalidSpec, uint8(w))
	}

	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *WaveformType) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveformType(string(text))
	if err != nil {
		return err
	}

	*w = parsed

	return nil
}

// DefaultSeed seeds the noise generators when a spec leaves Seed at zero.
const DefaultSeed uint64 = 0x5EED

// Harmonic is an extra sine partial added on top of the base waveform.
type Harmonic struct {
	FrequencyHz float64 `json:"frequency"`
	Amplitude   float64 `json:"amplitude"`
}

// WaveformSpec describes one synthesized signal.
type WaveformSpec struct {
	Type            WaveformType `json:"waveform"`
	FrequencyHz     float64      `json:"frequency"`
	Amplitude       float64      `json:"amplitude"`
	PhaseRadians    float64      `json:"phase"`
	DurationSeconds float64      `json:"duration"`
	SampleRateHz    int          `json:"sampleRate"`

	// Seed makes noise reproducible. Zero selects DefaultSeed.
	Seed uint64 `json:"seed,omitempty"`
	// DCOffset is added to every sample after synthesis.
	DCOffset float64 `json:"dcOffset,omitempty"`
	// Harmonics are sine partials summed onto the base waveform; they share
	// the base phase.
	Harmonics []Harmonic `json:"harmonics,omitempty"`
}

// NewWaveformSpec returns a validated spec with no seed, offset or harmonics.
func NewWaveformSpec(typ WaveformType, frequencyHz, amplitude, phaseRadians, durationSeconds float64, sampleRateHz int) (WaveformSpec, error) {
	spec := WaveformSpec{
		Type:            typ,
		FrequencyHz:     frequencyHz,
		Amplitude:       amplitude,
		PhaseRadians:    phaseRadians,
		DurationSeconds: durationSeconds,
		SampleRateHz:    sampleRateHz,
	}

	if err := spec.Validate(); err != nil {
		return WaveformSpec{}, err
	}

	return spec, nil
}

// Validate checks the spec bounds. All failures wrap ErrInvalidSpec.
func (s WaveformSpec) Validate() error {
	if int(s.Type) >= len(waveformNames) {
		return fmt.Errorf("%w: unknown waveform %d", ErrInvalidSpec, uint8(s.Type))
	}

	if !isFinite(s.FrequencyHz) || s.FrequencyHz <= 0 {
		return fmt.Errorf("%w: frequency must be > 0, got %v", ErrInvalidSpec, s.FrequencyHz)
	}

	if !(s.Amplitude >= 0 && s.Amplitude <= 1) {
		return fmt.Errorf("%w: amplitude must be in [0,1], got %v", ErrInvalidSpec, s.Amplitude)
	}

	if !isFinite(s.DurationSeconds) || s.DurationSeconds <= 0 {
		return fmt.Errorf("%w: duration must be > 0, got %v", ErrInvalidSpec, s.DurationSeconds)
	}

	if s.SampleRateHz <= 0 {
		return fmt.Errorf("%w: sample rate must be > 0, got %d", ErrInvalidSpec, s.SampleRateHz)
	}

	if n := s.Frames(); n > maxFrames {
		return fmt.Errorf("%w: %vs at %d Hz exceeds %d frames", ErrInvalidSpec, s.DurationSeconds, s.SampleRateHz, maxFrames)
	}

	if !isFinite(s.PhaseRadians) {
		return fmt.Errorf("%w: phase must be finite", ErrInvalidSpec)
	}

	if !isFinite(s.DCOffset) {
		return fmt.Errorf("%w: dc offset must be finite", ErrInvalidSpec)
	}

	for i, h := range s.Harmonics {
		if !isFinite(h.FrequencyHz) || h.FrequencyHz <= 0 {
			return fmt.Errorf("%w: harmonic %d frequency must be > 0, got %v", ErrInvalidSpec, i, h.FrequencyHz)
		}

		if !(h.Amplitude >= 0 && h.Amplitude <= 1) {
			return fmt.Errorf("%w: harmonic %d amplitude must be in [0,1], got %v", ErrInvalidSpec, i, h.Amplitude)
		}
	}

	return nil
}

// Frames is the number of samples the spec produces.
func (s WaveformSpec) Frames() int {
	return frameCount(s.DurationSeconds, s.SampleRateHz)
}

// BelowNyquist reports whether the fundamental and every harmonic sit below
// half the sample rate. Noise is always considered band limited.
func (s WaveformSpec) BelowNyquist() bool {
	if s.Type.IsNoise() {
		return true
	}

	nyquist := float64(s.SampleRateHz) / 2
	if s.FrequencyHz >= nyquist {
		return false
	}

	for _, h := range s.Harmonics {
		if h.FrequencyHz >= nyquist {
			return false
		}
	}

	return true
}

func (s WaveformSpec) seed() uint64 {
	if s.Seed == 0 {
		return DefaultSeed
	}

	return s.Seed
}
