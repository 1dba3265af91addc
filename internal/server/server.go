// Package server exposes the expander over HTTP.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/toyz/cgp/internal/expander"
	"github.com/toyz/cgp/internal/registry"
	"github.com/toyz/cgp/internal/tokens"
	"github.com/toyz/cgp/internal/utils"
)

// requestFile names the input of /v1/expand in spans
const requestFile = "<request>"

// ServerConfig holds configuration for the expansion server
type ServerConfig struct {
	// Addr is the address to listen on (default: ":8080")
	Addr string

	// Expander configures every per-request expander
	Expander expander.Config

	// BodyLimit caps request bodies (default: "4M")
	BodyLimit string

	// EnableLogger enables request logging middleware
	EnableLogger bool

	// ShutdownTimeout is the timeout for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a server configuration with sensible defaults
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		BodyLimit:       "4M",
		ShutdownTimeout: 30 * time.Second,
	}
}

// ExpandRequest is the body of POST /v1/expand
type ExpandRequest struct {
	Macro string `json:"macro"`
	Attr  string `json:"attr"`
	Input string `json:"input"`
}

// ExpandResponse is the reply of POST /v1/expand
type ExpandResponse struct {
	Output      string   `json:"output"`
	RequestID   string   `json:"request_id"`
	Invocations int      `json:"invocations"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Server serves expansions. Each request expands against its own snapshot
// of the base registry, so requests never see each other's tables.
type Server struct {
	echo        *echo.Echo
	config      ServerConfig
	base        *registry.ComponentRegistry
	diagnostics *utils.DiagnosticSystem
}

// NewServer creates a server whose requests resolve `with_*!` macros
// against base. A nil base is treated as empty.
func NewServer(config ServerConfig, base *registry.ComponentRegistry, diagnostics *utils.DiagnosticSystem) *Server {
	defaults := DefaultServerConfig()
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.BodyLimit == "" {
		config.BodyLimit = defaults.BodyLimit
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if base == nil {
		base = registry.NewComponentRegistry()
	}
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.BodyLimit(config.BodyLimit))
	if config.EnableLogger {
		e.Use(middleware.Logger())
	}
	e.HTTPErrorHandler = errorHandler

	s := &Server{echo: e, config: config, base: base, diagnostics: diagnostics}
	s.registerRoutes()
	return s
}

// Echo returns the underlying Echo instance
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/v1/macros", s.handleMacros)
	s.echo.POST("/v1/expand", s.handleExpand)
	s.echo.POST("/v1/expand/file", s.handleExpandFile)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.diagnostics.Info("Serving expansions on %s", s.config.Addr)
		if err := s.echo.Start(s.config.Addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.diagnostics.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.diagnostics.Info("Server shutdown complete")
	return nil
}

// newExpander builds a request-scoped expander over a registry snapshot
func (s *Server) newExpander() (*expander.Expander, error) {
	return expander.NewExpander(s.base.Snapshot(), s.config.Expander)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"macros": s.base.Size(),
	})
}

func (s *Server) handleMacros(c echo.Context) error {
	exp, err := s.newExpander()
	if err != nil {
		return ErrExpansion(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"macros": exp.MacroNames()})
}

func (s *Server) handleExpand(c echo.Context) error {
	var req ExpandRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest("invalid JSON body")
	}
	if err := utils.ValidateMacroName("macro")(req.Macro); err != nil {
		return ErrBadRequest(err.Error())
	}

	attr, err := tokens.Lex(requestFile, req.Attr)
	if err != nil {
		return ErrExpansion(err)
	}
	input, err := tokens.Lex(requestFile, req.Input)
	if err != nil {
		return ErrExpansion(err)
	}

	exp, err := s.newExpander()
	if err != nil {
		return ErrExpansion(err)
	}
	result, err := exp.ExpandMacro(req.Macro, attr, input, tokens.Span{File: requestFile, Line: 1, Column: 1})
	if err != nil {
		return ErrExpansion(err)
	}

	return c.JSON(http.StatusOK, ExpandResponse{
		Output:      tokens.Format(result.Output),
		RequestID:   requestID(c),
		Invocations: len(result.Invocations),
		Warnings:    result.Warnings,
	})
}

// handleExpandFile expands a whole source file sent as the raw body. The
// optional `path` query parameter names the file in diagnostics.
func (s *Server) handleExpandFile(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return ErrBadRequest("could not read request body")
	}
	path := c.QueryParam("path")
	if path == "" {
		path = requestFile
	}

	exp, err := s.newExpander()
	if err != nil {
		return ErrExpansion(err)
	}
	if _, err := exp.Discover(path, string(body)); err != nil {
		return ErrExpansion(err)
	}
	result, err := exp.ExpandFile(path, string(body))
	if err != nil {
		return ErrExpansion(err)
	}

	c.Response().Header().Set("X-Cgp-Invocations", fmt.Sprint(len(result.Invocations)))
	if !result.Changed {
		return c.String(http.StatusOK, string(body))
	}
	return c.String(http.StatusOK, tokens.Format(result.Output))
}

// errorHandler renders HttpError values as JSON and everything else
// through echo's error type
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *HttpError
	if !stderrors.As(err, &httpErr) {
		status := http.StatusInternalServerError
		message := http.StatusText(status)
		var echoErr *echo.HTTPError
		if stderrors.As(err, &echoErr) {
			status = echoErr.Code
			message = fmt.Sprint(echoErr.Message)
		}
		httpErr = &HttpError{StatusCode: status, Message: message}
	}
	httpErr.RequestID = requestID(c)

	if err := c.JSON(httpErr.StatusCode, httpErr); err != nil {
		c.Logger().Error(err)
	}
}
