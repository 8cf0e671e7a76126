// Package api exposes read-only HTTP endpoints for bot status, grids,
// signals and trades.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"delta-trading-bot/config"
	"delta-trading-bot/internal/bot"
	"delta-trading-bot/internal/database"
)

// Server represents the HTTP API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	bots       map[string]*bot.Bot
	repo       *database.Repository
	cfg        config.ServerConfig
	logger     zerolog.Logger
	startedAt  time.Time
}

// NewServer builds the gin router. repo may be nil; endpoints backed by the
// database then return 503.
func NewServer(cfg config.ServerConfig, bots map[string]*bot.Bot, repo *database.Repository, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:    router,
		bots:      bots,
		repo:      repo,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startedAt: time.Now(),
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/grid/:symbol", s.handleGrid)
		api.GET("/signals/:symbol", s.handleSignals)
		api.GET("/trades/:symbol", s.handleTrades)
		api.GET("/risk/:symbol", s.handleRisk)
	}
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down HTTP server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	statuses := make([]bot.Status, 0, len(s.bots))
	for _, b := range s.bots {
		statuses = append(statuses, b.Status())
	}
	c.JSON(http.StatusOK, gin.H{"bots": statuses})
}

func (s *Server) botFor(c *gin.Context) (*bot.Bot, bool) {
	symbol := c.Param("symbol")
	b, ok := s.bots[symbol]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown symbol %s", symbol)})
		return nil, false
	}
	return b, true
}

func (s *Server) handleGrid(c *gin.Context) {
	b, ok := s.botFor(c)
	if !ok {
		return
	}

	g := b.ActiveGrid()
	if g == nil {
		c.JSON(http.StatusOK, gin.H{"grid": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"grid": g})
}

func (s *Server) handleRisk(c *gin.Context) {
	b, ok := s.botFor(c)
	if !ok {
		return
	}

	trades, pnl := b.RiskSummary()
	c.JSON(http.StatusOK, gin.H{
		"trades_today": trades,
		"daily_pnl":    pnl,
	})
}

func (s *Server) handleSignals(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := s.repo.GetRecentSignals(ctx, c.Param("symbol"), 50)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to query signals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signals": records})
}

func (s *Server) handleTrades(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := s.repo.GetTradeHistory(ctx, c.Param("symbol"), 50)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to query trades")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trades": records})
}
