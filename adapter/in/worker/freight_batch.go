// Package worker runs batch extraction over an email corpus using a
// bounded worker pool.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"

	"freight_server/core/domain"
	"freight_server/core/port/in"
	"freight_server/core/port/out"
)

// BatchConfig holds batch runner configuration.
type BatchConfig struct {
	Workers    int    // concurrent extractions (default: 4)
	OutputPath string // JSON output file, empty to skip writing
	Resume     bool   // skip emails already persisted
}

// DefaultBatchConfig returns default batch configuration.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		Workers: 4,
		Resume:  true,
	}
}

// BatchMetrics counts batch outcomes.
type BatchMetrics struct {
	Processed int64
	Failed    int64
	Skipped   int64
}

// BatchRunner drives one extraction pass over a set of emails. Every
// email yields a record: oracle failures produce flagged null records,
// so a run always completes with exactly one record per input.
type BatchRunner struct {
	extractor in.ExtractionUseCase
	repo      out.RecordRepository // nil disables resume and persistence
	config    *BatchConfig
	log       zerolog.Logger

	mu      sync.Mutex
	results map[string]*domain.ShipmentRecord
	metrics BatchMetrics
}

// emailWorker implements pool.Worker for extraction jobs.
type emailWorker struct {
	runner *BatchRunner
}

// Do implements pool.Worker interface.
func (w *emailWorker) Do(ctx context.Context, email *domain.Email) error {
	return w.runner.processEmail(ctx, email)
}

// NewBatchRunner creates a batch runner.
func NewBatchRunner(extractor in.ExtractionUseCase, repo out.RecordRepository, config *BatchConfig, log zerolog.Logger) *BatchRunner {
	if config == nil {
		config = DefaultBatchConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	return &BatchRunner{
		extractor: extractor,
		repo:      repo,
		config:    config,
		log:       log.With().Str("component", "batch_runner").Logger(),
		results:   make(map[string]*domain.ShipmentRecord),
	}
}

// Run extracts every email and returns records in input order. The
// returned error covers pool lifecycle only; per-email failures are
// folded into their records and the metrics.
func (r *BatchRunner) Run(ctx context.Context, emails []*domain.Email) ([]*domain.ShipmentRecord, error) {
	start := time.Now()
	r.log.Info().
		Int("emails", len(emails)).
		Int("workers", r.config.Workers).
		Msg("starting extraction batch")

	p := pool.New[*domain.Email](r.config.Workers, &emailWorker{runner: r}).
		WithContinueOnError()

	if err := p.Go(ctx); err != nil {
		return nil, err
	}
	for _, email := range emails {
		p.Submit(email)
	}
	if err := p.Close(ctx); err != nil {
		r.log.Warn().Err(err).Msg("pool closed with error")
	}

	records := r.collect(emails)

	r.log.Info().
		Int64("processed", atomic.LoadInt64(&r.metrics.Processed)).
		Int64("failed", atomic.LoadInt64(&r.metrics.Failed)).
		Int64("skipped", atomic.LoadInt64(&r.metrics.Skipped)).
		Dur("elapsed", time.Since(start)).
		Msg("extraction batch finished")

	if r.config.OutputPath != "" {
		if err := WriteRecords(r.config.OutputPath, records); err != nil {
			return records, err
		}
		r.log.Info().Str("path", r.config.OutputPath).Msg("records written")
	}
	return records, nil
}

// processEmail handles one email end to end. It never returns an
// error for extraction problems: those are encoded in the record.
func (r *BatchRunner) processEmail(ctx context.Context, email *domain.Email) error {
	if r.config.Resume && r.repo != nil {
		done, err := r.repo.Exists(ctx, email.ID)
		if err != nil {
			r.log.Warn().Err(err).Str("email_id", email.ID).Msg("resume check failed, re-extracting")
		} else if done {
			atomic.AddInt64(&r.metrics.Skipped, 1)
			r.log.Debug().Str("email_id", email.ID).Msg("already extracted, skipping")
			return nil
		}
	}

	record := r.extractor.ExtractOne(ctx, email)
	if record.ExtractionFailed {
		atomic.AddInt64(&r.metrics.Failed, 1)
	} else {
		atomic.AddInt64(&r.metrics.Processed, 1)
	}

	r.mu.Lock()
	r.results[email.ID] = record
	r.mu.Unlock()

	if r.repo != nil {
		if err := r.repo.Upsert(ctx, record); err != nil {
			r.log.Error().Err(err).Str("email_id", email.ID).Msg("failed to persist record")
		}
	}
	return nil
}

// collect orders the finished records by input order. Emails skipped
// on resume have no in-memory record and are left out.
func (r *BatchRunner) collect(emails []*domain.Email) []*domain.ShipmentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]*domain.ShipmentRecord, 0, len(r.results))
	for _, email := range emails {
		if record, ok := r.results[email.ID]; ok {
			records = append(records, record)
		}
	}
	return records
}

// Metrics returns a snapshot of batch counters.
func (r *BatchRunner) Metrics() BatchMetrics {
	return BatchMetrics{
		Processed: atomic.LoadInt64(&r.metrics.Processed),
		Failed:    atomic.LoadInt64(&r.metrics.Failed),
		Skipped:   atomic.LoadInt64(&r.metrics.Skipped),
	}
}
