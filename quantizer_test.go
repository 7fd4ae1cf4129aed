package wavsynth

import (
	"errors"
	"math"
	"testing"

	"github.com/go-audio/audio"
)

func TestQuantizeSample(t *testing.T) {
	tests := []struct {
		name        string
		in          float64
		bits        int
		want        int
		wantClipped bool
	}{
		{"zero", 0, 16, 0, false},
		{"full scale", 1, 16, 32767, false},
		{"negative full scale", -1, 16, -32767, false},
		{"half rounds away from zero", 0.5, 16, 16384, false},
		{"negative half rounds away from zero", -0.5, 16, -16384, false},
		{"above range", 1.5, 16, 32767, true},
		{"below range", -1.5, 16, -32768, true},
		{"nan", math.NaN(), 16, 0, true},
		{"positive inf", math.Inf(1), 16, 32767, true},
		{"negative inf", math.Inf(-1), 24, -8388608, true},
		{"8-bit full scale", 1, 8, 127, false},
		{"8-bit below range", -2, 8, -128, true},
		{"24-bit full scale", 1, 24, 8388607, false},
		{"32-bit full scale", 1, 32, 2147483647, false},
		{"32-bit negative full scale", -1, 32, -2147483647, false},
		{"32-bit below range", -1.01, 32, -2147483648, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clipped := quantizeSample(tt.in, tt.bits)
			if got != tt.want || clipped != tt.wantClipped {
				t.Fatalf("quantizeSample(%v, %d)=(%d, %t), want (%d, %t)",
					tt.in, tt.bits, got, clipped, tt.want, tt.wantClipped)
			}
		})
	}
}

func monoBuffer(rate int, data ...float64) *audio.FloatBuffer {
	return &audio.FloatBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:   data,
	}
}

func TestQuantizePCM(t *testing.T) {
	format := FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: 16, Encoding: PCMInteger}

	q, err := Quantize(monoBuffer(8000, 0, 0.5, 1, 2, -3, math.NaN()), format)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}

	want := []int{0, 16384, 32767, 32767, -32768, 0}
	for i := range want {
		if q.Ints[i] != want[i] {
			t.Fatalf("code %d=%d, want %d", i, q.Ints[i], want[i])
		}
	}

	if q.Frames != 6 || q.Clipped != 3 {
		t.Fatalf("Frames=%d Clipped=%d, want 6 and 3", q.Frames, q.Clipped)
	}

	var clipErr *ClippingError
	if err := q.Diagnostic(); !errors.As(err, &clipErr) || clipErr.Count != 3 {
		t.Fatalf("Diagnostic()=%v, want ClippingError{3}", err)
	}

	if !errors.Is(q.Diagnostic(), ErrClippingDetected) {
		t.Fatal("Diagnostic should wrap ErrClippingDetected")
	}
}

func TestQuantizeNoClipping(t *testing.T) {
	format := FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: 24, Encoding: PCMInteger}

	q, err := Quantize(monoBuffer(8000, -1, -0.25, 0.25, 1), format)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}

	if q.Clipped != 0 || q.Diagnostic() != nil {
		t.Fatalf("Clipped=%d Diagnostic=%v, want none", q.Clipped, q.Diagnostic())
	}
}

func TestQuantizeFloat(t *testing.T) {
	tests := []struct {
		bits int
		in   float64
		want float64
	}{
		{32, 0.1, float64(float32(0.1))},
		{32, 1.5, 1.5},
		{64, 0.1, 0.1},
		{64, -2.25, -2.25},
	}

	for _, tt := range tests {
		format := FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: tt.bits, Encoding: IEEEFloat}

		q, err := Quantize(monoBuffer(8000, tt.in), format)
		if err != nil {
			t.Fatalf("Quantize: %v", err)
		}

		if q.Floats[0] != tt.want {
			t.Fatalf("%d-bit float of %v=%v, want %v", tt.bits, tt.in, q.Floats[0], tt.want)
		}

		if q.Clipped != 0 || q.Ints != nil {
			t.Fatalf("float quantization shouldn't clip or produce codes: %+v", q)
		}
	}
}

func TestQuantizeErrors(t *testing.T) {
	mono16 := FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: 16, Encoding: PCMInteger}
	stereo16 := FormatDescriptor{Channels: 2, SampleRateHz: 8000, BitsPerSample: 16, Encoding: PCMInteger}

	tests := []struct {
		name   string
		buf    *audio.FloatBuffer
		format FormatDescriptor
		want   error
	}{
		{"nil buffer", nil, mono16, ErrInvalidSpec},
		{"nil format", &audio.FloatBuffer{}, mono16, ErrInvalidSpec},
		{"unsupported bits", monoBuffer(8000, 0), FormatDescriptor{1, 8000, 20, PCMInteger}, ErrUnsupportedFormat},
		{"channel mismatch", monoBuffer(8000, 0, 0), stereo16, ErrMismatchedFormat},
		{"rate mismatch", monoBuffer(16000, 0), mono16, ErrMismatchedFormat},
		{"partial frame", &audio.FloatBuffer{Format: &audio.Format{NumChannels: 2, SampleRate: 8000}, Data: []float64{0, 0, 0}}, stereo16, ErrMismatchedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Quantize(tt.buf, tt.format)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}

			if q != nil {
				t.Fatal("expected nil result on error")
			}
		})
	}
}

func TestQuantizedFloatInverse(t *testing.T) {
	format := FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: 16, Encoding: PCMInteger}

	q, err := Quantize(monoBuffer(8000, -1, 0, 0.5, 1), format)
	if err != nil {
		t.Fatal(err)
	}

	back := q.Float()
	for i, want := range []float64{-1, 0, 0.5, 1} {
		if !approxEqual(back.Data[i], want, 1.0/32767) {
			t.Fatalf("sample %d=%v, want ~%v", i, back.Data[i], want)
		}
	}

	ib := q.IntBuffer()
	if ib.SourceBitDepth != 16 || ib.Format.NumChannels != 1 || len(ib.Data) != 4 {
		t.Fatalf("unexpected IntBuffer %+v", ib)
	}
}
