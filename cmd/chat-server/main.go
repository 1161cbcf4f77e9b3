// Package main provides the site assistant chat server entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
	"github.com/aidenkiefer/site-assistant/internal/generate"
	"github.com/aidenkiefer/site-assistant/internal/llm"
	mcpserver "github.com/aidenkiefer/site-assistant/internal/mcp"
	"github.com/aidenkiefer/site-assistant/internal/ratelimit"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
	"github.com/aidenkiefer/site-assistant/internal/server"
	"github.com/aidenkiefer/site-assistant/internal/session"
)

func main() {
	// Load .env file if present (local development), ignore if missing (production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Configuration from environment
	contentDir := getEnv("CONTENT_DIR", "content")
	baseURL := getEnv("SITE_BASE_URL", "https://aidenkiefer.com")
	dbPath := getEnv("DB_PATH", "sessions.db")
	port := getEnv("PORT", "8080")
	rateRequests := getEnvInt("RATE_LIMIT_REQUESTS", ratelimit.DefaultRequests)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Load and index the content corpus
	loader := corpus.NewLoader(baseURL)
	sources, err := loader.LoadDir(contentDir)
	if err != nil {
		log.Fatalf("failed to load content from %s: %v", contentDir, err)
	}
	store := corpus.Build(sources)
	log.Printf("Indexed %d chunks from %d pages (%d empty sections dropped)",
		store.Len(), len(store.Sources()), store.Dropped())

	// Session persistence
	sessions, err := session.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer sessions.Close()

	retriever := retrieval.NewRetriever(store)
	generator := generate.NewGenerator(llm.ConfigFromEnv(), logger)
	limiter := ratelimit.New(rateRequests, ratelimit.DefaultWindow)

	// MCP server shares the same index and retriever
	mcpSrv := mcpserver.NewServer(&mcpserver.Config{
		Store:     store,
		Retriever: retriever,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", server.NewLandingHandler())
	mux.HandleFunc("/health", server.NewHealthHandler(sessions, store))
	mux.Handle("/api/chat", server.NewChatHandler(retriever, generator, sessions, limiter, logger))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(mcpSrv, nil))

	// Check if running in server mode (HTTP) or stdio mode (MCP over stdin/stdout)
	serverMode := getEnv("SERVER_MODE", "true") == "true"

	if serverMode {
		addr := "0.0.0.0:" + port
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Printf("Starting HTTP server on %s (chat at /api/chat, MCP at /mcp, health at /health)", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP server over stdin/stdout for local clients
		// Also start HTTP endpoints in background for local testing
		go func() {
			addr := "0.0.0.0:" + port
			log.Printf("Starting HTTP server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("HTTP server error: %v", err)
			}
		}()

		log.Println("Starting site assistant MCP server (stdio mode)...")
		if err := mcpSrv.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
