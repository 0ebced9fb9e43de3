package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analyses"
	"resume-analyzer/internal/credits"
	"resume-analyzer/internal/llm/deepseek"
	"resume-analyzer/internal/llm/gemini"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/metrics"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/server/respond"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Storage: Postgres when configured and reachable, in-memory otherwise.
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		} else if err := db.RunMigrations(context.Background(), conn); err != nil {
			telemetry.Warn("db.migrate_failed", map[string]any{"error": err.Error()})
			conn.Close()
		} else {
			sqlDB = conn
		}
	}

	var creditSvc *credits.Service
	if sqlDB != nil {
		creditSvc = credits.NewPostgresService(credits.NewPGStore(sqlDB))
	} else {
		creditSvc = credits.NewService()
	}

	scorer := deepseek.NewClient(cfg.DeepSeekAPIKey, cfg.DeepSeekModel, cfg.AppURL, cfg.ProviderTimeout)
	narrator := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout)

	analysisSvc := analyses.NewService(scorer, narrator, creditSvc, cfg.AnalysisVersion, cfg.ProviderTimeout)
	analysisHandler := analyses.NewHandler(analysisSvc)
	creditHandler := credits.NewHandler(creditSvc)
	healthSvc := health.NewService(sqlDB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())

	authed := api.Group("")
	authed.Use(middleware.Identity())
	analysisHandler.RegisterRoutes(authed)
	creditHandler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
