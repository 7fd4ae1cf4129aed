// Package config resolves service and batch settings from the environment
// and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Listen is the HTTP address of wavsynthd.
	Listen string
	// OutputDir is where batch renders are written.
	OutputDir string
	// Workers bounds the number of parallel renders.
	Workers int
	// MaxDurationSeconds caps the length of a single HTTP render.
	MaxDurationSeconds float64
	// MaxSamples caps frames × channels of a single HTTP render.
	MaxSamples int
	LogLevel           string
	Dev                bool
	// SampleRate and BitDepth are the defaults of the generator CLI.
	SampleRate int
	BitDepth   int
}

// Load reads the WAVSYNTH_* variables. Values from envFiles fill in keys the
// process environment doesn't set; missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	e := env{}

	for _, file := range envFiles {
		vals, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		for k, v := range vals {
			if _, ok := e[k]; !ok {
				e[k] = v
			}
		}
	}

	cfg := &Config{
		Listen:    e.get("WAVSYNTH_LISTEN", ":8080"),
		OutputDir: e.get("WAVSYNTH_OUTPUT_DIR", "out"),
		LogLevel:  e.get("WAVSYNTH_LOG_LEVEL", "info"),
	}

	var err error

	if cfg.Workers, err = e.getInt("WAVSYNTH_WORKERS", runtime.NumCPU()); err != nil {
		return nil, err
	}

	if cfg.MaxDurationSeconds, err = e.getFloat("WAVSYNTH_MAX_DURATION", 60); err != nil {
		return nil, err
	}

	if cfg.MaxSamples, err = e.getInt("WAVSYNTH_MAX_SAMPLES", 1<<25); err != nil {
		return nil, err
	}

	if cfg.Dev, err = e.getBool("WAVSYNTH_DEV", false); err != nil {
		return nil, err
	}

	if cfg.SampleRate, err = e.getInt("WAVSYNTH_SAMPLE_RATE", 44100); err != nil {
		return nil, err
	}

	if cfg.BitDepth, err = e.getInt("WAVSYNTH_BIT_DEPTH", 16); err != nil {
		return nil, err
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WAVSYNTH_WORKERS must be > 0, got %d", cfg.Workers)
	}

	if cfg.MaxDurationSeconds <= 0 {
		return nil, fmt.Errorf("WAVSYNTH_MAX_DURATION must be > 0, got %v", cfg.MaxDurationSeconds)
	}

	if cfg.MaxSamples < 1 {
		return nil, fmt.Errorf("WAVSYNTH_MAX_SAMPLES must be > 0, got %d", cfg.MaxSamples)
	}

	return cfg, nil
}

// env holds values loaded from files; the process environment wins over it.
type env map[string]string

func (e env) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	if v := e[key]; v != "" {
		return v
	}

	return fallback
}

func (e env) getInt(key string, fallback int) (int, error) {
	v := e.get(key, "")
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func (e env) getFloat(key string, fallback float64) (float64, error) {
	v := e.get(key, "")
	if v == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return f, nil
}

func (e env) getBool(key string, fallback bool) (bool, error) {
	v := e.get(key, "")
	if v == "" {
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}

	return b, nil
}
