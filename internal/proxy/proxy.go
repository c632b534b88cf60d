// Package proxy serves the development proxy: requests under the configured
// prefix are forwarded unchanged to the upstream chat service, with the Host
// header rewritten to the upstream's. Everything else is a JSON 404.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server forwards prefixed requests to one upstream.
type Server struct {
	prefix   string
	upstream *url.URL
	engine   *gin.Engine
	log      *logger.Logger
}

// New builds the proxy for cfg. The upstream must be an absolute URL.
func New(cfg config.ProxyConfig, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	target, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream %q: %w", cfg.Upstream, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q: scheme and host are required", cfg.Upstream)
	}
	prefix := "/" + strings.Trim(cfg.Prefix, "/")

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		prefix:   prefix,
		upstream: target,
		engine:   gin.New(),
		log:      log,
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		ErrorHandler: s.upstreamError,
	}
	forward := gin.WrapH(rp)

	s.engine.Use(gin.Recovery(), s.accessLog)
	s.engine.Any(prefix, forward)
	s.engine.Any(prefix+"/*path", forward)
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return s, nil
}

// Handler returns the proxy as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Warn("upstream request failed",
		zap.String("path", r.URL.Path),
		zap.String("upstream", s.upstream.Host),
		zap.Error(err))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"error":"bad gateway"}`))
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.Debug("proxy request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}

// Serve runs the proxy on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("proxy listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("prefix", s.prefix),
			zap.String("upstream", s.upstream.String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Run listens on cfg.Listen and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.ProxyConfig, log *logger.Logger) error {
	s, err := New(cfg, log)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}
