package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

var keys = []string{
	"WAVSYNTH_LISTEN", "WAVSYNTH_OUTPUT_DIR", "WAVSYNTH_WORKERS", "WAVSYNTH_MAX_DURATION", "WAVSYNTH_MAX_SAMPLES",
	"WAVSYNTH_LOG_LEVEL", "WAVSYNTH_DEV", "WAVSYNTH_SAMPLE_RATE", "WAVSYNTH_BIT_DEPTH",
}

func clearEnv(t *testing.T) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Listen:             ":8080",
		OutputDir:          "out",
		Workers:            runtime.NumCPU(),
		MaxDurationSeconds: 60,
		MaxSamples:         1 << 25,
		LogLevel:           "info",
		SampleRate:         44100,
		BitDepth:           16,
	}

	if *cfg != want {
		t.Fatalf("cfg=%+v, want %+v", *cfg, want)
	}
}

func TestLoadEnvFileAndOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "WAVSYNTH_LISTEN=:9000\nWAVSYNTH_WORKERS=3\nWAVSYNTH_DEV=true\nWAVSYNTH_MAX_DURATION=2.5\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("WAVSYNTH_WORKERS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Listen != ":9000" || !cfg.Dev || cfg.MaxDurationSeconds != 2.5 {
		t.Fatalf("file values not applied: %+v", *cfg)
	}

	if cfg.Workers != 7 {
		t.Fatalf("Workers=%d, the environment should win over the file", cfg.Workers)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"WAVSYNTH_WORKERS", "many"},
		{"WAVSYNTH_WORKERS", "0"},
		{"WAVSYNTH_MAX_DURATION", "-1"},
		{"WAVSYNTH_MAX_SAMPLES", "0"},
		{"WAVSYNTH_DEV", "maybe"},
		{"WAVSYNTH_SAMPLE_RATE", "44.1k"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
