// Package mcp exposes ragplay to AI assistants over the Model Context
// Protocol.
//
// Tools ask questions against a playground and read back the chunks the
// retriever returned for them. Resources list playgrounds and documents and
// serve document text under the ragplay:// scheme. Every call goes through
// the same session the CLI uses, so a tool sees the playground's query
// history and chunk labels exactly as the TUI would.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/ragplay/internal/logger"
)

// Version is reported to clients during the MCP handshake.
const Version = "0.1.0"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server serves ragplay's playgrounds, queries and chunks as MCP tools and
// resources.
//
// The session holds a single active playground. Tools that need one open it
// first, and they hold mu until they are done with it so that two clients
// asking about different playgrounds never read each other's chunks.
type Server struct {
	ports *Ports
	mcp   *mcp.Server

	mu sync.Mutex
}

// NewServer validates ports and registers the ragplay tools and resources.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		mcp:   mcp.NewServer(&mcp.Implementation{Name: "ragplay", Version: Version}, nil),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client over stdin and stdout until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves streamable HTTP clients on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutting down %s: %v", addr, err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
