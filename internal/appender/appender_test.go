package appender_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"cohortgen/internal/appender"
	"cohortgen/internal/config"
	"cohortgen/internal/logging"
	"cohortgen/internal/sink"
	"cohortgen/internal/synth"
)

type captureSink struct {
	name     string
	batches  [][]synth.Record
	fail     error
	appended chan struct{}
}

func (s *captureSink) Append(_ context.Context, records []synth.Record) error {
	if s.fail != nil {
		return s.fail
	}
	copied := make([]synth.Record, len(records))
	copy(copied, records)
	s.batches = append(s.batches, copied)
	if s.appended != nil {
		select {
		case s.appended <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *captureSink) Close() error { return nil }
func (s *captureSink) Name() string { return s.name }
func (s *captureSink) Path() string { return "memory://" + s.name }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Directory = t.TempDir()
	cfg.Batch.Size = 5
	cfg.Batch.IntervalSeconds = 0.001
	cfg.Batch.MaxBatches = 3
	return &cfg
}

func testGenerator(t *testing.T) *synth.Generator {
	t.Helper()
	sampler, err := synth.NewSampler("pcg", 42)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}
	return synth.NewGenerator(synth.DefaultCatalog(), sampler)
}

func TestRunStopsAtBatchLimit(t *testing.T) {
	cfg := testConfig(t)
	capture := &captureSink{name: "csv"}

	app, err := appender.New(cfg, testGenerator(t), []sink.Sink{capture}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if app.Batches() != 3 {
		t.Fatalf("got %d batches, want 3", app.Batches())
	}
	if app.Records() != 15 {
		t.Fatalf("got %d records, want 15", app.Records())
	}
	if len(capture.batches) != 3 {
		t.Fatalf("sink saw %d batches, want 3", len(capture.batches))
	}
	for i, batch := range capture.batches {
		if len(batch) != 5 {
			t.Fatalf("batch %d has %d records, want 5", i, len(batch))
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Batch.MaxBatches = 0
	cfg.Batch.IntervalSeconds = 60
	capture := &captureSink{name: "csv", appended: make(chan struct{}, 1)}

	app, err := appender.New(cfg, testGenerator(t), []sink.Sink{capture}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(ctx) }()

	<-capture.appended
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if app.Batches() != 1 {
		t.Fatalf("got %d batches, want 1", app.Batches())
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	cfg := testConfig(t)

	held := flock.New(appender.LockPath(cfg))
	ok, err := held.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if !ok {
		t.Fatal("could not take lock for test")
	}
	defer held.Unlock()

	app, err := appender.New(cfg, testGenerator(t), []sink.Sink{&captureSink{name: "csv"}}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = app.Run(context.Background())
	if err == nil {
		t.Fatal("expected lock contention error")
	}
	if !strings.Contains(err.Error(), "another cohortgen instance") {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Batches() != 0 {
		t.Fatalf("appended %d batches while locked out", app.Batches())
	}
}

func TestRunKeepsRemainingSinksAligned(t *testing.T) {
	cfg := testConfig(t)
	cfg.Batch.MaxBatches = 1
	boom := errors.New("disk gone")
	failing := &captureSink{name: "sqlite", fail: boom}
	healthy := &captureSink{name: "csv"}

	app, err := appender.New(cfg, testGenerator(t), []sink.Sink{failing, healthy}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = app.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run returned %v, want wrapped sink error", err)
	}
	if !strings.Contains(err.Error(), "sqlite sink") {
		t.Fatalf("error does not name the failing sink: %v", err)
	}
	if len(healthy.batches) != 1 {
		t.Fatalf("healthy sink saw %d batches, want 1", len(healthy.batches))
	}
}

func TestNewValidatesDependencies(t *testing.T) {
	cfg := testConfig(t)

	if _, err := appender.New(nil, testGenerator(t), []sink.Sink{&captureSink{}}, logging.NewNop()); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := appender.New(cfg, nil, []sink.Sink{&captureSink{}}, logging.NewNop()); err == nil {
		t.Fatal("expected error for nil generator")
	}
	if _, err := appender.New(cfg, testGenerator(t), nil, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing sinks")
	}
}
