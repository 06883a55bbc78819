// Package api runs the read-only stats HTTP server as an action module.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/guildpulse/src/actions/core"
	"github.com/stake-plus/guildpulse/src/api/webserver"
	sharedconfig "github.com/stake-plus/guildpulse/src/config"
	"github.com/stake-plus/guildpulse/src/suggestions"
	"go.uber.org/zap"
)

var _ core.Module = (*Module)(nil)

type Module struct {
	config  *sharedconfig.APIConfig
	server  *webserver.Server
	httpSrv *http.Server
	log     *zap.Logger
	addr    net.Addr
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewModule builds the API. stats and registry may be nil.
func NewModule(cfg *sharedconfig.APIConfig, stats webserver.Snapshotter, registry suggestions.Registry, log *zap.Logger) *Module {
	gin.SetMode(gin.ReleaseMode)
	log = log.With(zap.String("module", "api"))
	server := webserver.New(webserver.Config{
		JWTSecret:   []byte(cfg.JWTSecret),
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	}, stats, registry, log)

	return &Module{
		config: cfg,
		server: server,
		httpSrv: &http.Server{
			Addr:              cfg.Listen,
			Handler:           server.Engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Name implements actions.Module.
func (m *Module) Name() string { return "api" }

func (m *Module) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.config.Listen)
	if err != nil {
		return fmt.Errorf("api: listen %s: %w", m.config.Listen, err)
	}

	m.addr = ln.Addr()

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)
		if err := m.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.log.Error("api: server stopped", zap.Error(err))
		}
	}()
	if m.server.Limiter != nil {
		go m.sweep(runCtx)
	}

	m.log.Info("api: listening", zap.String("addr", m.addr.String()))
	return nil
}

// Addr returns the bound address once started.
func (m *Module) Addr() net.Addr { return m.addr }

func (m *Module) sweep(ctx context.Context) {
	ticker := time.NewTicker(m.server.Limiter.Window())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.server.Limiter.Sweep()
		}
	}
}

func (m *Module) Stop(_ context.Context) {
	if m.cancel != nil {
		m.cancel()
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := m.httpSrv.Shutdown(shutCtx); err != nil {
		m.log.Warn("api: shutdown", zap.Error(err))
	}
	if m.done != nil {
		<-m.done
	}
}
