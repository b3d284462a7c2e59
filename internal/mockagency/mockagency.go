// Package mockagency implements a stub agency for local development
// and tests: the unauthenticated details endpoint doubling as the
// health check, and an echoing provisioning exchange.
package mockagency

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vcxkit/agent/internal/domain"
)

// Options configures the stub's behavior.
type Options struct {
	// DID and VerKey are served by GET /agency. Defaults are
	// generated when empty.
	DID    string
	VerKey string

	// AgentConfig, when set, is returned verbatim by the provisioning
	// endpoint. When nil the stub echoes the request payload with a
	// generated agent identity stamped in.
	AgentConfig domain.AgentConfig

	// Failures makes the first N health checks answer 503, simulating
	// a slow-starting agency.
	Failures int
}

// Server is a stub agency.
type Server struct {
	opts   Options
	logger *slog.Logger
	engine *gin.Engine

	mu        sync.Mutex
	remaining int
}

// New creates a stub agency server.
func New(opts Options, logger *slog.Logger) *Server {
	if opts.DID == "" {
		opts.DID = uuid.NewString()
	}
	if opts.VerKey == "" {
		opts.VerKey = uuid.NewString()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		opts:      opts,
		logger:    logger,
		engine:    router,
		remaining: opts.Failures,
	}

	router.GET("/agency", s.handleAgency)
	router.POST("/agency/provision", s.handleProvision)

	return s
}

// Handler exposes the stub as an http.Handler for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the stub on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleAgency(c *gin.Context) {
	s.mu.Lock()
	failing := s.remaining > 0
	if failing {
		s.remaining--
	}
	s.mu.Unlock()

	if failing {
		s.logger.Info("simulating agency startup", "path", c.Request.URL.Path)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "agency starting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"DID":    s.opts.DID,
		"verKey": s.opts.VerKey,
	})
}

func (s *Server) handleProvision(c *gin.Context) {
	var req domain.ProvisionConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provision payload: " + err.Error()})
		return
	}

	if s.opts.AgentConfig != nil {
		c.JSON(http.StatusOK, s.opts.AgentConfig)
		return
	}

	resp := domain.AgentConfig{}
	for k, v := range req {
		resp[k] = v
	}
	resp["agentDid"] = s.opts.DID
	resp["agentVk"] = s.opts.VerKey

	s.logger.Info("provisioned agent", "did", resp["agentDid"])
	c.JSON(http.StatusOK, resp)
}
