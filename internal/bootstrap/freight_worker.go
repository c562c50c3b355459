package bootstrap

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"freight_server/adapter/in/worker"
	"freight_server/config"
	"freight_server/pkg/logger"
)

// Worker runs one batch extraction pass over the configured email
// corpus and exits.
type Worker struct {
	cfg    *config.Config
	runner *worker.BatchRunner

	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	logger.Init(logger.Config{
		Level:   logger.LevelInfo,
		Service: "freight-extractor-worker",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	zlog := zerolog.New(os.Stdout).With().Timestamp().Logger()

	runner := worker.NewBatchRunner(deps.ExtractionService, deps.RecordRepo, &worker.BatchConfig{
		Workers:    cfg.WorkerCount,
		OutputPath: cfg.OutputPath,
		Resume:     cfg.BatchResume,
	}, zlog)

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		cfg:    cfg,
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
		log:    zlog,
	}, cleanup, nil
}

// Start loads the corpus and runs the batch to completion.
func (w *Worker) Start() {
	emails, err := worker.LoadEmails(w.cfg.EmailsPath)
	if err != nil {
		w.log.Error().Err(err).Str("path", w.cfg.EmailsPath).Msg("failed to load email corpus")
		return
	}

	if _, err := w.runner.Run(w.ctx, emails); err != nil {
		w.log.Error().Err(err).Msg("batch run failed")
		return
	}

	m := w.runner.Metrics()
	w.log.Info().
		Int64("processed", m.Processed).
		Int64("failed", m.Failed).
		Int64("skipped", m.Skipped).
		Msg("batch complete")
}

// Stop cancels the in-flight batch.
func (w *Worker) Stop() {
	w.cancel()
}
