package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/wavsynth"
)

func writeTone(t *testing.T, meta *wavsynth.Metadata) string {
	t.Helper()

	f, err := wavsynth.Render(wavsynth.Request{
		Voices: []wavsynth.Voice{{
			Spec: wavsynth.WaveformSpec{Type: wavsynth.Sine, FrequencyHz: 440, Amplitude: 0.5, DurationSeconds: 0.25, SampleRateHz: 8000},
			Gain: 1,
		}},
		Format:   wavsynth.FormatDescriptor{Channels: 1, SampleRateHz: 8000, BitsPerSample: 16, Encoding: wavsynth.PCMInteger},
		Metadata: meta,
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := wavsynth.WriteFile(path, f); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunRequiresPath(t *testing.T) {
	var out bytes.Buffer

	err := run(nil, &out)
	if !errors.Is(err, errMissingPath) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunPrintsLayoutAndMetadata(t *testing.T) {
	path := writeTone(t, &wavsynth.Metadata{Artist: "artist", Title: "track title", Comments: "my comment"})

	var outBuf bytes.Buffer
	if err := run([]string{path}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := outBuf.String()
	checks := []string{
		"Format: 1 ch, 8000 Hz, 16-bit pcm",
		"ByteRate: 16000",
		"BlockAlign: 2",
		"Data size: 4000",
		"Frames: 2000",
		"Duration: 250ms",
		"Duration (go-audio/wav): 250ms",
		"Artist: artist",
		"Title: track title",
		"Comments: my comment",
	}

	for _, c := range checks {
		if !strings.Contains(out, c) {
			t.Fatalf("expected output to contain %q\nfull output:\n%s", c, out)
		}
	}
}

func TestRunNoMetadata(t *testing.T) {
	var outBuf bytes.Buffer
	if err := run([]string{writeTone(t, nil)}, &outBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	out := outBuf.String()
	if !strings.Contains(out, "No metadata present") || !strings.Contains(out, "RIFF size: 4036") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRunNotWave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("definitely not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	var outBuf bytes.Buffer
	if err := run([]string{path}, &outBuf); !errors.Is(err, wavsynth.ErrNotWAVE) {
		t.Fatalf("err=%v, want ErrNotWAVE", err)
	}
}

func TestRunInvalidPath(t *testing.T) {
	var outBuf bytes.Buffer
	if err := run([]string{"/nonexistent/path.wav"}, &outBuf); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
