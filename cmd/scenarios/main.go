// This tool renders every combination of a named scenario into a directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwbudde/wavsynth/internal/batch"
	"github.com/cwbudde/wavsynth/internal/config"
	"github.com/cwbudde/wavsynth/internal/logging"
	"github.com/cwbudde/wavsynth/internal/scenario"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	flagSet := flag.NewFlagSet("scenarios", flag.ContinueOnError)

	name := flagSet.String("scenario", "Smoke", "scenario to render: Smoke, Normal or Stress")
	dir := flagSet.String("out", cfg.OutputDir, "directory to write to")
	workers := flagSet.Int("workers", cfg.Workers, "parallel renders")
	duration := flagSet.Float64("duration", 0, "override the duration of every render in seconds")
	list := flagSet.Bool("list", false, "print the scenarios and their render counts, then exit")
	logLevel := flagSet.String("log-level", cfg.LogLevel, "debug, info, warn or error")

	err = flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *list {
		for _, n := range scenario.Names() {
			m, err := scenario.Lookup(n)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s\t%d\n", m.Name, m.Count())
		}

		return nil
	}

	m, err := scenario.Lookup(*name)
	if err != nil {
		return err
	}

	if *duration > 0 {
		m = m.WithDuration(*duration)
	}

	reqs, err := m.Requests()
	if err != nil {
		return err
	}

	logger, err := logging.New(*logLevel, cfg.Dev)
	if err != nil {
		return err
	}
	defer logger.Sync()

	runner := &batch.Runner{
		Dir:     *dir,
		Workers: *workers,
		Logger:  logger.With(zap.String("scenario", m.Name)),
	}

	res, err := runner.Run(ctx, reqs)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: wrote %d files to %s (%d duplicates skipped, %d clipped samples)\n",
		m.Name, len(res.Written), *dir, res.Skipped, res.Clipped)

	return nil
}
