package wavsynth

import (
	"errors"
	"math"
	"testing"
)

func sineSpec(freq float64) WaveformSpec {
	return WaveformSpec{Type: Sine, FrequencyHz: freq, Amplitude: 1, DurationSeconds: 0.01, SampleRateHz: 8000}
}

func TestComposeInterleavesChannels(t *testing.T) {
	left := sineSpec(440)
	right := WaveformSpec{Type: Square, FrequencyHz: 220, Amplitude: 0.5, DurationSeconds: 0.01, SampleRateHz: 8000}

	buf, err := Compose(
		Voice{Spec: left, Gain: 1, Channel: 0},
		Voice{Spec: right, Gain: 0.5, Channel: 1},
	)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 8000 {
		t.Fatalf("format=%+v, want 2 ch @ 8000 Hz", *buf.Format)
	}

	if len(buf.Data) != 80*2 {
		t.Fatalf("len(Data)=%d, want 160", len(buf.Data))
	}

	lg := mustGenerator(t, left)
	rg := mustGenerator(t, right)

	for n := range 80 {
		if buf.Data[2*n] != lg.At(n) {
			t.Fatalf("frame %d left=%v, want %v", n, buf.Data[2*n], lg.At(n))
		}

		if buf.Data[2*n+1] != 0.5*rg.At(n) {
			t.Fatalf("frame %d right=%v, want %v", n, buf.Data[2*n+1], 0.5*rg.At(n))
		}
	}
}

func TestComposeSumsVoicesWithoutClipping(t *testing.T) {
	spec := sineSpec(1000)

	buf, err := Compose(
		Voice{Spec: spec, Gain: 1, Channel: 0},
		Voice{Spec: spec, Gain: 1, Channel: 0},
	)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	g := mustGenerator(t, spec)

	var peak float64
	for n, s := range buf.Data {
		if !approxEqual(s, 2*g.At(n), 1e-12) {
			t.Fatalf("sample %d=%v, want %v", n, s, 2*g.At(n))
		}

		peak = math.Max(peak, math.Abs(s))
	}

	if peak <= 1 {
		t.Fatalf("peak=%v, summed voices should exceed full scale", peak)
	}
}

func TestComposeChannelsLeavesSilentChannels(t *testing.T) {
	buf, err := ComposeChannels(3, Voice{Spec: sineSpec(440), Gain: 1, Channel: 1})
	if err != nil {
		t.Fatalf("ComposeChannels: %v", err)
	}

	if buf.Format.NumChannels != 3 {
		t.Fatalf("NumChannels=%d, want 3", buf.Format.NumChannels)
	}

	for i, s := range buf.Data {
		if i%3 != 1 && s != 0 {
			t.Fatalf("sample %d on silent channel=%v", i, s)
		}
	}
}

func TestComposeErrors(t *testing.T) {
	otherRate := sineSpec(440)
	otherRate.SampleRateHz = 16000

	otherDuration := sineSpec(440)
	otherDuration.DurationSeconds = 0.02

	invalid := sineSpec(440)
	invalid.Amplitude = 3

	tests := []struct {
		name   string
		chans  int
		voices []Voice
		want   error
	}{
		{"no voices", 1, nil, ErrInvalidSpec},
		{"zero channels", 0, []Voice{{Spec: sineSpec(440), Gain: 1}}, ErrInvalidSpec},
		{"negative channel", 1, []Voice{{Spec: sineSpec(440), Gain: 1, Channel: -1}}, ErrInvalidSpec},
		{"channel out of range", 2, []Voice{{Spec: sineSpec(440), Gain: 1, Channel: 2}}, ErrInvalidSpec},
		{"nan gain", 1, []Voice{{Spec: sineSpec(440), Gain: math.NaN()}}, ErrInvalidSpec},
		{"invalid spec", 1, []Voice{{Spec: sineSpec(440), Gain: 1}, {Spec: invalid, Gain: 1}}, ErrInvalidSpec},
		{"sample rate mismatch", 2, []Voice{{Spec: sineSpec(440), Gain: 1}, {Spec: otherRate, Gain: 1, Channel: 1}}, ErrMismatchedFormat},
		{"duration mismatch", 1, []Voice{{Spec: sineSpec(440), Gain: 1}, {Spec: otherDuration, Gain: 1}}, ErrMismatchedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := ComposeChannels(tt.chans, tt.voices...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}

			if buf != nil {
				t.Fatal("expected a nil buffer on error")
			}
		})
	}
}
