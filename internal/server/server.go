// Package server exposes the question-answering pipeline over HTTP:
// a JSON chat endpoint, session/history lookups, and a websocket chat.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/akelani/classchat/internal/catalog"
	"github.com/akelani/classchat/internal/embeddings"
	"github.com/akelani/classchat/internal/llm"
	"github.com/akelani/classchat/internal/qa"
	"github.com/akelani/classchat/internal/retry"
	"github.com/akelani/classchat/internal/store"
	"github.com/akelani/classchat/internal/vectorindex"
)

// Config holds server configuration.
type Config struct {
	Port         int
	AllowAll     bool // allow all CORS origins (dev mode)
	FreeMessages int  // initial allowance for new users
}

// ChainSettings tunes the per-request orchestrator.
type ChainSettings struct {
	Model            string
	Temperature      float64
	DocumentBudget   int
	PerNamespaceTopK int
	MaxNamespaces    int
	HistoryBuffer    int
	PromptCharBudget int
}

// Server wires the pipeline behind the HTTP API. The rate limiter and
// retry executor are shared across requests; a fresh qa.Chain is built
// per request so sessions never share conversation state.
type Server struct {
	cfg        Config
	chainCfg   ChainSettings
	store      *store.Store
	catalog    *catalog.Catalog
	embedder   embeddings.Embedder
	index      vectorindex.Index
	provider   llm.Provider
	exec       *retry.Executor
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, chainCfg ChainSettings, st *store.Store, cat *catalog.Catalog, embedder embeddings.Embedder, index vectorindex.Index, provider llm.Provider, exec *retry.Executor) *Server {
	s := &Server{
		cfg:      cfg,
		chainCfg: chainCfg,
		store:    st,
		catalog:  cat,
		embedder: embedder,
		index:    index,
		provider: provider,
		exec:     exec,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/courses", s.handleCourses)
		r.Get("/sessions", s.handleSessions)
		r.Get("/history", s.handleHistory)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// newChain builds a fresh orchestrator scoped to one course.
func (s *Server) newChain(course string) (*qa.Chain, error) {
	namespaces, err := s.catalog.Namespaces(course)
	if err != nil {
		return nil, err
	}

	retriever := qa.NewRetriever(s.embedder, s.index, s.exec, qa.RetrieverConfig{
		DocumentBudget:   s.chainCfg.DocumentBudget,
		PerNamespaceTopK: s.chainCfg.PerNamespaceTopK,
		MaxNamespaces:    s.chainCfg.MaxNamespaces,
	})

	return qa.NewChain(retriever, s.provider, s.exec, namespaces, qa.ChainConfig{
		Model:            s.chainCfg.Model,
		Temperature:      s.chainCfg.Temperature,
		BufferMaxSize:    s.chainCfg.HistoryBuffer,
		PromptCharBudget: s.chainCfg.PromptCharBudget,
	}), nil
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("server: listening on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
