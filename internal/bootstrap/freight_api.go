package bootstrap

import (
	"strings"

	"freight_server/adapter/in/http"
	"freight_server/config"
	"freight_server/infra/middleware"
	"freight_server/pkg/logger"
	"freight_server/pkg/response"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "freight-extractor-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		ReadBufferSize:        16384,
		WriteBufferSize:       16384,

		// go-json: faster JSON serialization than encoding/json
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		BodyLimit: 5 * 1024 * 1024, // emails are text, 5MB is generous
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
		MaxAge:       86400,
	}))

	// Health check
	healthHandler := http.NewHealthHandler(deps.DB, deps.Catalog)
	healthHandler.Register(app)

	// API routes
	api := app.Group("/api/v1")

	extractHandler := http.NewExtractHandler(deps.ExtractionService, deps.RecordRepo, deps.Catalog)
	extractHandler.Register(api)

	api.Get("/oracle/stats", func(c *fiber.Ctx) error {
		stats := deps.Oracle.LatencyStats().ToMap()
		stats["circuit_open"] = deps.LLMClient.CircuitOpen()
		return response.OK(c, stats)
	})

	logger.Info("API server initialized successfully")

	return app, cleanup, nil
}
