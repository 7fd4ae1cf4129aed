package wavsynth

import (
	"iter"
	"math"
)

// Generator produces the samples of a single WaveformSpec. Samples are a pure
// function of the spec and the sample index, so the sequence can be walked
// any number of times.
type Generator struct {
	spec   WaveformSpec
	frames int
	seed   uint64
	wave   func(g *Generator, t float64, n int) float64
}

// NewGenerator validates spec and returns its generator.
func NewGenerator(spec WaveformSpec) (*Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		spec:   spec,
		frames: spec.Frames(),
		seed:   spec.seed(),
	}

	switch spec.Type {
	case Sine:
		g.wave = (*Generator).sine
	case Square:
		g.wave = (*Generator).square
	case Sawtooth:
		g.wave = (*Generator).sawtooth
	case Triangle:
		g.wave = (*Generator).triangle
	case WhiteNoise:
		g.wave = (*Generator).white
	case PinkNoise:
		g.wave = (*Generator).pink
	}

	// copy so later edits to the caller's slice don't leak in
	g.spec.Harmonics = append([]Harmonic(nil), spec.Harmonics...)

	return g, nil
}

// Spec returns the spec the generator was built from.
func (g *Generator) Spec() WaveformSpec {
	spec := g.spec
	spec.Harmonics = append([]Harmonic(nil), g.spec.Harmonics...)

	return spec
}

// Len is the number of samples: round(duration × sample rate).
func (g *Generator) Len() int {
	return g.frames
}

// At returns sample n. Indexes outside [0, Len) return 0.
func (g *Generator) At(n int) float64 {
	if n < 0 || n >= g.frames {
		return 0
	}

	t := float64(n) / float64(g.spec.SampleRateHz)

	v := g.wave(g, t, n)
	for _, h := range g.spec.Harmonics {
		v += h.Amplitude * math.Sin(2*math.Pi*h.FrequencyHz*t+g.spec.PhaseRadians)
	}

	return v + g.spec.DCOffset
}

// All yields every (index, sample) pair lazily.
func (g *Generator) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for n := range g.frames {
			if !yield(n, g.At(n)) {
				return
			}
		}
	}
}

// Samples materializes the whole sequence.
func (g *Generator) Samples() []float64 {
	out := make([]float64, g.frames)
	for n := range out {
		out[n] = g.At(n)
	}

	return out
}

func (g *Generator) angle(t float64) float64 {
	return 2*math.Pi*g.spec.FrequencyHz*t + g.spec.PhaseRadians
}

func (g *Generator) sine(t float64, _ int) float64 {
	return g.spec.Amplitude * math.Sin(g.angle(t))
}

func (g *Generator) square(t float64, _ int) float64 {
	if math.Sin(g.angle(t)) < 0 {
		return -g.spec.Amplitude
	}

	return g.spec.Amplitude
}

// saw is the unscaled sawtooth in [-1, 1).
func (g *Generator) saw(t float64) float64 {
	return 2*frac(g.spec.FrequencyHz*t+g.spec.PhaseRadians/(2*math.Pi)) - 1
}

func (g *Generator) sawtooth(t float64, _ int) float64 {
	return g.spec.Amplitude * g.saw(t)
}

func (g *Generator) triangle(t float64, _ int) float64 {
	return g.spec.Amplitude * (2*math.Abs(g.saw(t)) - 1)
}

func (g *Generator) white(_ float64, n int) float64 {
	return g.spec.Amplitude * whiteNoiseAt(g.seed, n)
}

func (g *Generator) pink(_ float64, n int) float64 {
	return g.spec.Amplitude * pinkNoiseAt(g.seed, n)
}

// Generate is a shorthand for NewGenerator(spec) followed by Samples.
func Generate(spec WaveformSpec) ([]float64, error) {
	g, err := NewGenerator(spec)
	if err != nil {
		return nil, err
	}

	return g.Samples(), nil
}
