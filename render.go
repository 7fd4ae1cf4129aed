package wavsynth

import (
	"fmt"
)

// Request is everything needed to produce one audio file.
type Request struct {
	Voices    []Voice          `json:"voices"`
	Format    FormatDescriptor `json:"format"`
	Metadata  *Metadata        `json:"metadata,omitempty"`
	Container Container        `json:"container"`
}

// DurationSeconds is the length shared by all voices.
func (r Request) DurationSeconds() float64 {
	if len(r.Voices) == 0 {
		return 0
	}

	return r.Voices[0].Spec.DurationSeconds
}

// FileName is FileStem plus the container extension.
func (r Request) FileName() string {
	return FileStem(r.Voices, r.Format) + r.Container.Ext()
}

// Render mixes, quantizes and encodes req. Clipping is reported through the
// returned file's Diagnostic, not as an error.
func Render(req Request) (*EncodedFile, error) {
	if err := req.Format.Validate(); err != nil {
		return nil, err
	}

	if req.Container == ContainerAIFF && req.Format.Encoding != PCMInteger {
		return nil, fmt.Errorf("%w: aiff carries pcm only", ErrUnsupportedFormat)
	}

	for i, v := range req.Voices {
		if v.Spec.SampleRateHz != req.Format.SampleRateHz {
			return nil, fmt.Errorf("%w: voice %d is %d Hz, format is %d Hz",
				ErrMismatchedFormat, i, v.Spec.SampleRateHz, req.Format.SampleRateHz)
		}
	}

	// size the data chunk before anything is allocated
	if len(req.Voices) > 0 {
		spec := req.Voices[0].Spec
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("voice 0: %w", err)
		}

		if size := spec.Frames() * req.Format.BlockAlign(); size > maxDataBytes {
			return nil, fmt.Errorf("%w: %d bytes of audio exceed the %d byte data chunk limit",
				ErrUnsupportedFormat, size, maxDataBytes)
		}
	}

	buf, err := ComposeChannels(req.Format.Channels, req.Voices...)
	if err != nil {
		return nil, err
	}

	q, err := Quantize(buf, req.Format)
	if err != nil {
		return nil, err
	}

	switch req.Container {
	case ContainerWAV:
		return encode(q, req.Format, req.Metadata)
	case ContainerAIFF:
		return EncodeAIFF(q)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Container)
	}
}

// Tone is the classic single-tone layout: one waveform copied to every
// channel at its own volume, optionally with a noise bed mixed under it.
type Tone struct {
	Spec WaveformSpec
	// ChannelVolumes holds one gain per channel; empty means unity on all.
	ChannelVolumes []float64
	// Noise adds a noise voice per channel at NoiseVolume when it is a noise
	// type. A zero volume keeps the silent voice so the file name still
	// carries the noise type.
	Noise       WaveformType
	NoiseVolume float64
}

// Voices expands the tone into per-channel voices.
func (t Tone) Voices(channels int) ([]Voice, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count must be > 0, got %d", ErrInvalidSpec, channels)
	}

	volumes := t.ChannelVolumes
	if len(volumes) == 0 {
		volumes = make([]float64, channels)
		for i := range volumes {
			volumes[i] = 1
		}
	}

	if len(volumes) != channels {
		return nil, fmt.Errorf("%w: %d channel volumes for %d channels", ErrInvalidSpec, len(volumes), channels)
	}

	voices := make([]Voice, 0, 2*channels)
	for ch, vol := range volumes {
		voices = append(voices, Voice{Spec: t.Spec, Gain: vol, Channel: ch})
	}

	if !t.Noise.IsNoise() {
		return voices, nil
	}

	noise := WaveformSpec{
		Type:            t.Noise,
		FrequencyHz:     t.Spec.FrequencyHz,
		Amplitude:       1,
		DurationSeconds: t.Spec.DurationSeconds,
		SampleRateHz:    t.Spec.SampleRateHz,
		Seed:            t.Spec.Seed,
	}

	for ch := range channels {
		voices = append(voices, Voice{Spec: noise, Gain: t.NoiseVolume, Channel: ch})
	}

	return voices, nil
}

// Request builds a render request for the tone in format.
func (t Tone) Request(format FormatDescriptor, container Container) (Request, error) {
	voices, err := t.Voices(format.Channels)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Voices:    voices,
		Format:    format,
		Container: container,
	}, nil
}
