// Package server serves stored assets over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/wuxler/ruasset/pkg/appinfo"
	"github.com/wuxler/ruasset/pkg/asset"
	"github.com/wuxler/ruasset/pkg/config"
	"github.com/wuxler/ruasset/pkg/errdefs"
	"github.com/wuxler/ruasset/pkg/store"
	"github.com/wuxler/ruasset/pkg/util/xio"
	"github.com/wuxler/ruasset/pkg/variant"
	"github.com/wuxler/ruasset/pkg/xlog"
)

// sniffLen is the number of leading bytes used to detect the content type.
const sniffLen = 3072

const shutdownTimeout = 5 * time.Second

// Server serves the assets of a store. Protected assets are served only to
// sessions holding a grant, missing variants are derived on request.
type Server struct {
	store  store.Store
	engine *variant.Engine
	config config.Server
	router *gin.Engine
}

// New returns a Server with its routes registered.
func New(s store.Store, engine *variant.Engine, c config.Server) *Server {
	if c.SessionHeader == "" {
		c.SessionHeader = config.DefaultSessionHeader
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), accessLog())

	srv := &Server{store: s, engine: engine, config: c, router: router}
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/assets/*id", srv.serveAsset)
	router.HEAD("/assets/*id", srv.serveAsset)
	return srv
}

// Handler returns the http.Handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	xlog.C(ctx).Info("server started", "address", httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		xlog.C(ctx).Error("server shutdown failed", "error", err)
		return err
	}
	xlog.C(ctx).Info("server stopped")
	return nil
}

func (s *Server) serveAsset(c *gin.Context) {
	ctx := c.Request.Context()
	if session := c.GetHeader(s.config.SessionHeader); session != "" {
		ctx = store.WithSession(ctx, session)
	}

	key, err := asset.ParseKey(strings.TrimPrefix(c.Param("id"), "/"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	visibility, err := s.store.Visibility(ctx, key.Filename, key.Hash)
	if err != nil {
		s.fail(c, err)
		return
	}
	switch visibility {
	case asset.Absent:
		c.Status(http.StatusNotFound)
		return
	case asset.Protected:
		// unauthorized viewers get the same answer as for absent assets
		ok, err := s.store.CanView(ctx, key.Filename, key.Hash)
		if err != nil {
			s.fail(c, err)
			return
		}
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Header("Cache-Control", "private, no-store")
	default:
		c.Header("Cache-Control", "public, max-age=31536000, immutable")
	}

	if key.IsVariant() {
		derived, ok := s.engine.Derived(ctx, asset.KeyContainer(key.Original()), key.Variant)
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		key = derived.AssetKey()
	}
	s.stream(ctx, c, key)
}

func (s *Server) stream(ctx context.Context, c *gin.Context, key asset.Key) {
	info, err := s.store.Stat(ctx, key)
	if err != nil {
		s.fail(c, err)
		return
	}
	rc, err := s.store.Read(ctx, key)
	if err != nil {
		s.fail(c, err)
		return
	}
	rc = xio.NewCanceledReadCloser(ctx, rc)
	defer xio.CloseAndLogError(rc, "serve", key.String())

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.fail(c, err)
		return
	}
	head = head[:n]

	c.Header("ETag", strconv.Quote(key.Hash+"/"+key.Variant))
	c.Header("Server", appinfo.UserAgent())
	if c.Request.Method == http.MethodHead {
		c.Header("Content-Type", mimetype.Detect(head).String())
		c.Header("Content-Length", strconv.FormatInt(info.Size, 10))
		c.Status(http.StatusOK)
		return
	}
	c.DataFromReader(http.StatusOK, info.Size, mimetype.Detect(head).String(),
		io.MultiReader(bytes.NewReader(head), rc), nil)
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errdefs.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, errdefs.ErrInvalidParameter):
		c.String(http.StatusBadRequest, err.Error())
	default:
		xlog.C(c.Request.Context()).Error("serve asset failed", "path", c.Request.URL.Path, "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		xlog.C(c.Request.Context()).Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
