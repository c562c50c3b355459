package bootstrap

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"freight_server/adapter/out/persistence"
	"freight_server/config"
	"freight_server/core/agent/llm"
	"freight_server/core/port/out"
	"freight_server/core/service/extraction"
	"freight_server/core/service/ports"
	"freight_server/infra/database"
	"freight_server/pkg/logger"
	"freight_server/pkg/ratelimit"
)

type Dependencies struct {
	Config *config.Config
	DB     *sqlx.DB // nil when no DATABASE_URL is configured

	// Reference data
	Catalog *ports.Catalog

	// Repositories
	RecordRepo out.RecordRepository

	// Oracle
	LLMClient *llm.Client
	Oracle    *llm.Extractor

	// Services
	ExtractionService *extraction.Service
}

// NewDependencies wires the full dependency graph. The port catalog is
// mandatory and validated up front: a data error there aborts startup.
// The database is optional; without it the service runs stateless.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}

	catalog, err := ports.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	deps.Catalog = catalog
	logger.Info("Port catalog loaded: %d name variations", catalog.Len())

	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		deps.DB = db
		deps.RecordRepo = persistence.NewRecordAdapter(db)
		cleanup = func() { db.Close() }
		logger.Info("Record store connected")
	} else {
		logger.Warn("DATABASE_URL not set, running without record store")
	}

	deps.LLMClient = llm.NewClient(llm.ClientConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	limiter := ratelimit.New(cfg.OracleRate, cfg.OracleBurst)
	deps.Oracle = llm.NewExtractor(deps.LLMClient, limiter, llm.ExtractorConfig{
		Timeout:    time.Duration(cfg.LLMTimeoutSec) * time.Second,
		MaxRetries: cfg.LLMMaxRetries,
	}, logger.Default())

	deps.ExtractionService = extraction.NewService(deps.Oracle, deps.Catalog, logger.Default())

	return deps, cleanup, nil
}
