package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/inference-gateway/internal/analytics"
	"github.com/nulzo/inference-gateway/internal/catalog"
	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/gateway"
	"github.com/nulzo/inference-gateway/internal/jobs"
	"github.com/nulzo/inference-gateway/internal/server/middleware"
	"github.com/nulzo/inference-gateway/internal/server/validator"
	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP layer serves.
type Deps struct {
	Service  gateway.Service
	Catalog  *catalog.Catalog
	Jobs     *jobs.Manager
	Ingestor analytics.Ingestor
}

type Server struct {
	router *gin.Engine
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func New(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.Ingestor == nil {
		deps.Ingestor = analytics.Nop()
	}
	validator.InitValidator()

	engine := gin.New()

	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	engine.Use(middleware.Logger(logger))
	// outside recovery, so a recovered panic is still logged with its 500
	engine.Use(middleware.RequestLog(deps.Ingestor))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.CORS())
	engine.Use(middleware.ErrorHandler(logger))

	s := &Server{
		router: engine,
		config: cfg,
		logger: logger,
		deps:   deps,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
