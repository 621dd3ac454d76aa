package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/emrekir/vidprobe/internal/core/config"
	"github.com/emrekir/vidprobe/internal/core/engine"
	"github.com/emrekir/vidprobe/internal/core/i18n"
	"github.com/emrekir/vidprobe/internal/core/ratelimit"
)

// Server is the HTTP front of the metadata broker. It owns the engine
// worker pool and the rate limiter; everything else is per-request.
type Server struct {
	cfg        *config.Config
	pool       *engine.Pool
	limiter    *ratelimit.Limiter
	translator *translator
	timeout    time.Duration

	engine *gin.Engine
	server *http.Server
}

// NewServer wires the request pipeline from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	ytdlp, err := engine.NewYtDlp(cfg.Engine.Binary, cfg.Engine.ScratchDir)
	if err != nil {
		return nil, err
	}
	pool := engine.NewPool(ytdlp, cfg.Limits.MaxConcurrent, 0)

	window := time.Minute
	var store ratelimit.Store
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = ratelimit.NewRedisStore(client, window)
	} else {
		store = ratelimit.NewMemoryStore(window)
	}
	limiter := ratelimit.New(store, cfg.Limits.RateLimitPerMinute, window, nil)

	return newServerWith(cfg, pool, limiter), nil
}

// newServerWith allows tests to substitute the pool and limiter.
func newServerWith(cfg *config.Config, pool *engine.Pool, limiter *ratelimit.Limiter) *Server {
	return &Server{
		cfg:        cfg,
		pool:       pool,
		limiter:    limiter,
		translator: newTranslator(cfg.Language),
		timeout:    time.Duration(cfg.Limits.DownloadTimeoutSeconds) * time.Second,
	}
}

// Start starts the worker pool and the HTTP listener. Blocks until the
// listener stops.
func (s *Server) Start() error {
	if !config.Exists() {
		t := i18n.GetTranslations(s.cfg.Language)
		log.Printf("⚠️  %s", t.Server.NoConfigWarning)
		log.Printf("   %s", t.Server.RunInitHint)
	}

	s.pool.Start()

	s.engine = s.buildRouter()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Listening on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.pool.Stop()
	return err
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.loggingMiddleware())
	r.Use(s.corsMiddleware())

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/platforms", s.handlePlatforms)
	api.GET("/fetch", s.handleFetch)
	api.POST("/fetch", s.handleFetch)

	return r
}

// Middleware

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		log.Printf("%s %s %s from %s -> %d (%s) [%s]",
			c.Request.Method, c.Request.URL.Path, c.Request.Proto,
			c.ClientIP(), c.Writer.Status(), time.Since(start), requestID)
	}
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]bool, len(s.cfg.Server.AllowedOrigins))
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == "*" {
			allowAny = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			switch {
			case allowAny:
				c.Header("Access-Control-Allow-Origin", "*")
			case allowed[origin]:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
