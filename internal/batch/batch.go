// Package batch renders many requests into a directory in parallel.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/wavsynth"
	"github.com/cwbudde/wavsynth/internal/metrics"
)

// Runner writes one file per request into Dir. Requests that map to the same
// file name are rendered once.
type Runner struct {
	Dir     string
	Workers int
	Logger  *zap.Logger
}

// Result summarizes a run.
type Result struct {
	RunID string
	// Written holds the file paths, sorted.
	Written []string
	// Skipped counts requests whose file name was already planned.
	Skipped int
	// Clipped is the total of clamped samples across files.
	Clipped int
}

// Run renders reqs. It stops scheduling new renders on the first error or
// when ctx is done; renders already running are finished.
func (r *Runner) Run(ctx context.Context, reqs []wavsynth.Request) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := &Result{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run", res.RunID))

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", r.Dir, err)
	}

	planned := make(map[string]bool, len(reqs))
	jobs := make([]wavsynth.Request, 0, len(reqs))

	for _, req := range reqs {
		name := req.FileName()
		if planned[name] {
			res.Skipped++
			metrics.SkippedRendersTotal.Inc()

			continue
		}

		planned[name] = true
		jobs = append(jobs, req)
	}

	logger.Info("batch started",
		zap.Int("requests", len(reqs)),
		zap.Int("files", len(jobs)),
		zap.Int("skipped", res.Skipped),
		zap.Int("workers", r.Workers),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))

	var mu sync.Mutex

	for _, req := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			metrics.BatchInFlight.Inc()
			defer metrics.BatchInFlight.Dec()

			path := filepath.Join(r.Dir, req.FileName())

			start := time.Now()
			f, err := wavsynth.Render(req)
			metrics.ObserveRender(req.Container, f, err, time.Since(start))

			if err != nil {
				return fmt.Errorf("%s: %w", req.FileName(), err)
			}

			if err := wavsynth.WriteFile(path, f); err != nil {
				return err
			}

			if f.Clipped > 0 {
				logger.Warn("clipping detected", zap.String("file", path), zap.Int("samples", f.Clipped))
			}

			logger.Debug("rendered", zap.String("file", path), zap.Int("bytes", f.Len()), zap.Duration("elapsed", time.Since(start)))

			mu.Lock()
			res.Written = append(res.Written, path)
			res.Clipped += f.Clipped
			mu.Unlock()

			return nil
		})
	}

	err := g.Wait()

	sort.Strings(res.Written)

	if err != nil {
		logger.Error("batch failed", zap.Int("written", len(res.Written)), zap.Error(err))
		return res, err
	}

	logger.Info("batch finished", zap.Int("written", len(res.Written)), zap.Int("clipped", res.Clipped))

	return res, nil
}
