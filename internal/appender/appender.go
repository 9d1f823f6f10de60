package appender

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"cohortgen/internal/config"
	"cohortgen/internal/logging"
	"cohortgen/internal/sink"
	"cohortgen/internal/synth"
)

// LockFileName is the advisory lock guarding a dataset directory. Concurrent
// appenders would interleave rows and corrupt the XLSX workbook, so a second
// instance must refuse to start.
const LockFileName = ".cohortgen.lock"

// LockPath returns the lock file for the configured output directory.
func LockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Output.Directory, LockFileName)
}

// Appender generates one batch per interval and appends it to every sink.
type Appender struct {
	cfg    *config.Config
	gen    *synth.Generator
	sinks  []sink.Sink
	logger *slog.Logger

	lock     *flock.Flock
	lockPath string

	batches int
	records int
}

// New constructs an appender with initialized dependencies.
func New(cfg *config.Config, gen *synth.Generator, sinks []sink.Sink, logger *slog.Logger) (*Appender, error) {
	if cfg == nil || gen == nil || logger == nil {
		return nil, errors.New("appender requires config, generator, and logger")
	}
	if len(sinks) == 0 {
		return nil, errors.New("appender requires at least one sink")
	}
	lockPath := LockPath(cfg)
	return &Appender{
		cfg:      cfg,
		gen:      gen,
		sinks:    sinks,
		logger:   logging.NewComponentLogger(logger, "appender"),
		lock:     flock.New(lockPath),
		lockPath: lockPath,
	}, nil
}

// Batches reports how many batches Run appended.
func (a *Appender) Batches() int { return a.batches }

// Records reports how many records Run appended to each sink.
func (a *Appender) Records() int { return a.records }

// Run acquires the dataset lock and appends batches until the context is
// canceled or the configured batch limit is reached.
func (a *Appender) Run(ctx context.Context) error {
	ok, err := a.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire dataset lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another cohortgen instance is writing this dataset (lock %s)", a.lockPath)
	}
	defer func() {
		if err := a.lock.Unlock(); err != nil {
			a.logger.Warn("failed to release dataset lock",
				logging.Error(err),
				logging.String(logging.FieldPath, a.lockPath),
			)
		}
	}()

	a.logger.Info("append loop started",
		logging.Int("batch_size", a.cfg.Batch.Size),
		logging.Duration("interval", a.cfg.Batch.Interval()),
		logging.Int("max_batches", a.cfg.Batch.MaxBatches),
		logging.Int("sinks", len(a.sinks)),
	)

	for batch := 1; ; batch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		records := a.gen.Batch(a.cfg.Batch.Size)
		if err := a.appendAll(ctx, records); err != nil {
			return fmt.Errorf("append batch %d: %w", batch, err)
		}
		a.batches++
		a.records += len(records)
		a.logger.Info("batch appended",
			logging.Int(logging.FieldBatch, batch),
			logging.Int(logging.FieldRecords, len(records)),
			logging.Int("total_records", a.records),
		)

		if max := a.cfg.Batch.MaxBatches; max > 0 && batch >= max {
			a.logger.Info("batch limit reached", logging.Int(logging.FieldBatch, batch))
			return nil
		}
		if err := a.waitForNextBatch(ctx); err != nil {
			return err
		}
	}
}

// appendAll writes a batch to every sink. Later sinks are still written when
// an earlier one fails so the surviving datasets stay aligned; the first
// failure wins and the rest are logged.
func (a *Appender) appendAll(ctx context.Context, records []synth.Record) error {
	var firstErr error
	for _, s := range a.sinks {
		err := s.Append(ctx, records)
		if err == nil {
			continue
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%s sink: %w", s.Name(), err)
			continue
		}
		a.logger.Warn("sink append failed",
			logging.Error(err),
			logging.String(logging.FieldFormat, s.Name()),
			logging.String(logging.FieldPath, s.Path()),
		)
	}
	return firstErr
}

func (a *Appender) waitForNextBatch(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(a.cfg.Batch.Interval()):
		return nil
	}
}

// Close closes every sink, returning the first failure.
func (a *Appender) Close() error {
	var firstErr error
	for _, s := range a.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s sink: %w", s.Name(), err)
		}
	}
	return firstErr
}
