package wavsynth

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-audio/aiff"
	"github.com/go-audio/wav"
)

// These tests feed our output to the go-audio decoders, which are written
// independently of this package.

func TestGoAudioWavReadsEncodedPCM(t *testing.T) {
	tests := []struct {
		name   string
		format FormatDescriptor
		codes  []int
		// offset is added to each code by the reader; 8-bit is unsigned there.
		offset int
	}{
		{"8-bit", FormatDescriptor{1, 8000, 8, PCMInteger}, []int{-128, -1, 0, 127}, 128},
		{"16-bit stereo", FormatDescriptor{2, 44100, 16, PCMInteger}, []int{-32768, 32767, 100, -100}, 0},
		{"24-bit", FormatDescriptor{1, 48000, 24, PCMInteger}, []int{-8388608, 8388607}, 0},
		{"32-bit", FormatDescriptor{1, 48000, 32, PCMInteger}, []int{-2147483648, 2147483647}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Encode(quantizedCodes(tt.format, tt.codes...), tt.format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			dec := wav.NewDecoder(bytes.NewReader(f.Bytes()))
			if !dec.IsValidFile() {
				t.Fatal("go-audio/wav rejected the file")
			}

			if int(dec.SampleRate) != tt.format.SampleRateHz ||
				int(dec.NumChans) != tt.format.Channels ||
				int(dec.BitDepth) != tt.format.BitsPerSample {
				t.Fatalf("header %d Hz %d ch %d bit, want %v", dec.SampleRate, dec.NumChans, dec.BitDepth, tt.format)
			}

			buf, err := dec.FullPCMBuffer()
			if err != nil {
				t.Fatalf("FullPCMBuffer: %v", err)
			}

			if len(buf.Data) != len(tt.codes) {
				t.Fatalf("got %d samples, want %d", len(buf.Data), len(tt.codes))
			}

			for i, code := range tt.codes {
				if buf.Data[i] != code+tt.offset {
					t.Fatalf("sample %d=%d, want %d", i, buf.Data[i], code+tt.offset)
				}
			}
		})
	}
}

func TestGoAudioWavDuration(t *testing.T) {
	f := renderTone(t, WaveformSpec{Type: Sine, FrequencyHz: 440, Amplitude: 0.5, DurationSeconds: 0.5, SampleRateHz: 8000}, mono16k)

	dur, err := wav.NewDecoder(bytes.NewReader(f.Bytes())).Duration()
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}

	if dur != 500*time.Millisecond || f.Duration() != dur {
		t.Fatalf("duration=%v, encoded file says %v, want 500ms", dur, f.Duration())
	}
}

func TestGoAudioAiffReadsEncodedPCM(t *testing.T) {
	format := FormatDescriptor{2, 22050, 16, PCMInteger}
	codes := []int{-32768, 32767, 1, -1, 0, 1234}

	f, err := EncodeAIFF(quantizedCodes(format, codes...))
	if err != nil {
		t.Fatalf("EncodeAIFF: %v", err)
	}

	data := f.Bytes()
	if string(data[:4]) != "FORM" || string(data[8:12]) != "AIFF" {
		t.Fatalf("unexpected container prefix %q", data[:12])
	}

	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("go-audio/aiff rejected the file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}

	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 22050 {
		t.Fatalf("format=%+v", buf.Format)
	}

	for i, code := range codes {
		if buf.Data[i] != code {
			t.Fatalf("sample %d=%d, want %d", i, buf.Data[i], code)
		}
	}
}
