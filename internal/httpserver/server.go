package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/bitrunner/internal/broadcast"
	"github.com/tinytelemetry/bitrunner/internal/hacknet"
	"github.com/tinytelemetry/bitrunner/internal/model"
)

// GameReader is the narrow game contract required by the HTTP API.
type GameReader interface {
	model.PlayerReader
	QuoteUpgrade(servers bool, part hacknet.Part, from, count int) (float64, error)
}

// Notifier hands out change subscriptions; *broadcast.Broadcaster satisfies it.
type Notifier interface {
	Subscribe(fn func()) broadcast.Unsubscribe
}

// Server provides a read-only HTTP API over the running game.
type Server struct {
	addr      string
	game      GameReader
	history   model.HistoryReader
	notifier  Notifier
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
	streams   sync.WaitGroup
}

// NewServer creates a new HTTP API server. history and notifier may be nil,
// which disables /api/history and /api/ws respectively.
func NewServer(addr string, game GameReader, history model.HistoryReader, notifier Notifier) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:     addr,
		game:     game,
		history:  history,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/overview", s.handleOverview)
	api.GET("/hacknet/costs", s.handleCosts)
	api.GET("/history", s.handleHistory)
	api.GET("/ws", s.handleStream)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop cancels live streams and gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	s.streams.Wait()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	p, err := s.game.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read game state"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"updated_at": p.UpdatedAt,
	})
}

func (s *Server) handleOverview(c *gin.Context) {
	p, err := s.game.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleCosts(c *gin.Context) {
	kind := c.DefaultQuery("kind", "node")
	if kind != "node" && kind != "server" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be node or server"})
		return
	}
	part, ok := hacknet.ParsePart(c.DefaultQuery("part", "level"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part must be level, ram, cores or cache"})
		return
	}
	from, err := strconv.Atoi(c.DefaultQuery("from", "1"))
	if err != nil || from < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a positive integer"})
		return
	}
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
		return
	}

	cost, err := s.game.QuoteUpgrade(kind == "server", part, from, count)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":  kind,
		"part":  part,
		"from":  from,
		"count": count,
		"cost":  jsonCost(cost),
	})
}

// jsonCost keeps +Inf representable; encoding/json rejects it.
func jsonCost(v float64) any {
	if v == hacknet.Infinite {
		return "Infinity"
	}
	return v
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 10000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 10000"})
		return
	}
	samples, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "history query timed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples, "count": len(samples)})
}
