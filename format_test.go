package wavsynth

import (
	"errors"
	"testing"
)

func TestFormatDescriptorValidate(t *testing.T) {
	tests := []struct {
		name   string
		format FormatDescriptor
		ok     bool
	}{
		{"8-bit pcm", FormatDescriptor{1, 8000, 8, PCMInteger}, true},
		{"16-bit stereo", FormatDescriptor{2, 44100, 16, PCMInteger}, true},
		{"24-bit", FormatDescriptor{1, 48000, 24, PCMInteger}, true},
		{"32-bit pcm", FormatDescriptor{1, 48000, 32, PCMInteger}, true},
		{"32-bit float", FormatDescriptor{2, 48000, 32, IEEEFloat}, true},
		{"64-bit float", FormatDescriptor{1, 48000, 64, IEEEFloat}, true},
		{"12-bit pcm", FormatDescriptor{1, 8000, 12, PCMInteger}, false},
		{"64-bit pcm", FormatDescriptor{1, 8000, 64, PCMInteger}, false},
		{"16-bit float", FormatDescriptor{1, 8000, 16, IEEEFloat}, false},
		{"zero channels", FormatDescriptor{0, 8000, 16, PCMInteger}, false},
		{"too many channels", FormatDescriptor{70000, 8000, 16, PCMInteger}, false},
		{"zero rate", FormatDescriptor{1, 0, 16, PCMInteger}, false},
		{"unknown encoding", FormatDescriptor{1, 8000, 16, SampleEncoding(9)}, false},
		{"block align overflow", FormatDescriptor{65535, 8000, 32, PCMInteger}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate()=%v, want nil", err)
			}

			if !tt.ok && !errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("Validate()=%v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestFormatDescriptorDerivedFields(t *testing.T) {
	tests := []struct {
		format     FormatDescriptor
		blockAlign int
		byteRate   int
	}{
		{FormatDescriptor{1, 8000, 16, PCMInteger}, 2, 16000},
		{FormatDescriptor{2, 44100, 16, PCMInteger}, 4, 176400},
		{FormatDescriptor{2, 48000, 24, PCMInteger}, 6, 288000},
		{FormatDescriptor{1, 22050, 8, PCMInteger}, 1, 22050},
		{FormatDescriptor{2, 48000, 32, IEEEFloat}, 8, 384000},
		{FormatDescriptor{1, 8000, 64, IEEEFloat}, 8, 64000},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BlockAlign(); got != tt.blockAlign {
				t.Fatalf("BlockAlign()=%d, want %d", got, tt.blockAlign)
			}

			if got := tt.format.ByteRate(); got != tt.byteRate {
				t.Fatalf("ByteRate()=%d, want %d", got, tt.byteRate)
			}
		})
	}
}

func TestFmtChunkDescriptor(t *testing.T) {
	format := FormatDescriptor{Channels: 2, SampleRateHz: 48000, BitsPerSample: 32, Encoding: IEEEFloat}

	fc := newFmtChunk(format)
	if fc.FormatTag != 3 {
		t.Fatalf("FormatTag=%d, want 3", fc.FormatTag)
	}

	if fc.AvgBytesPerSec != 384000 || fc.BlockAlign != 8 {
		t.Fatalf("unexpected fmt chunk %+v", fc)
	}

	got, err := fc.descriptor()
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}

	if got != format {
		t.Fatalf("descriptor()=%v, want %v", got, format)
	}

	fc.FormatTag = 0x55
	if _, err := fc.descriptor(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("mp3 tag err=%v, want ErrUnsupportedFormat", err)
	}
}

func TestParseSampleEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want SampleEncoding
	}{
		{"pcm", PCMInteger},
		{"", PCMInteger},
		{"INT", PCMInteger},
		{"float", IEEEFloat},
		{"ieee", IEEEFloat},
	}

	for _, tt := range tests {
		got, err := ParseSampleEncoding(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseSampleEncoding(%q)=%v, %v, want %v", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseSampleEncoding("alaw"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("alaw err=%v, want ErrUnsupportedFormat", err)
	}
}
