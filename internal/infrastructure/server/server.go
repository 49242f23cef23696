package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/stashbox/backend/internal/api/http"
	"github.com/stashbox/backend/internal/api/middleware"
	"github.com/stashbox/backend/internal/gallery"
	"github.com/stashbox/backend/internal/infrastructure/config"
	"github.com/stashbox/backend/internal/infrastructure/logging"
	"github.com/stashbox/backend/internal/infrastructure/monitoring"
	"github.com/stashbox/backend/internal/storage"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	engine  *storage.Engine
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	httpSrv *http.Server
}

// New assembles the storage engine, gallery service, middleware chain, and
// route table from the loaded configuration.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing storage server",
		zap.String("port", cfg.Server.Port),
		zap.String("base_path", cfg.Storage.BasePath),
	)

	metrics := monitoring.NewMetrics()

	engine, err := storage.NewEngine(storage.Config{
		BasePath:       cfg.Storage.BasePath,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Icons: storage.Icons{
			Default:    cfg.Icons.Default,
			Folder:     cfg.Icons.Folder,
			URL:        cfg.Icons.URL,
			Extensions: cfg.Icons.Extensions,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage engine: %w", err)
	}
	logger.Info("Storage engine initialized", zap.String("base_path", engine.BasePath()))

	galleryService := gallery.New(engine, cfg.Gallery.Resource)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSConfig{AllowOrigins: cfg.CORS.AllowOrigins}))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	storageHandlers := apihttp.NewStorageHandlers(engine, logger, metrics)
	galleryHandlers := apihttp.NewGalleryHandlers(galleryService, logger)
	healthHandlers := apihttp.NewHealthHandlers(engine.BasePath())

	router.GET("/", healthHandlers.Root)
	router.GET("/health", healthHandlers.Health)

	// Storage endpoints, scoped per resource
	st := router.Group("/api/storage/:resource")
	st.GET("/list", storageHandlers.List)
	st.POST("/upload", storageHandlers.Upload)
	st.GET("/download", storageHandlers.Download)
	st.POST("/folder", storageHandlers.CreateFolder)
	st.POST("/url", storageHandlers.CreateURL)
	st.DELETE("/item", storageHandlers.Delete)

	// Gallery endpoints
	ga := router.Group("/api/gallery")
	ga.GET("/years", galleryHandlers.Years)
	ga.GET("/photos", galleryHandlers.Photos)
	ga.GET("/has-photos", galleryHandlers.HasPhotos)
	ga.GET("/years-with-photos", galleryHandlers.YearsWithPhotos)
	ga.GET("/download", galleryHandlers.Download)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		engine:  engine,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Router returns the assembled gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
