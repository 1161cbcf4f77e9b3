package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse represents the JSON response from the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Chunks    int    `json:"chunks"`
	Timestamp string `json:"timestamp"`
}

// HealthChecker defines the database health check dependency.
// The session store implements this via its Health() method.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// ChunkCounter reports how many chunks the corpus index holds.
type ChunkCounter interface {
	Len() int
}

// NewHealthHandler creates an HTTP handler for the /health endpoint.
// It checks database connectivity and reports corpus size.
func NewHealthHandler(db HealthChecker, corpus ChunkCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		err := db.Health(ctx)

		response := HealthResponse{
			Chunks:    corpus.Len(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		w.Header().Set("Content-Type", "application/json")

		if err != nil {
			response.Status = "unhealthy"
			response.Database = "disconnected"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(response)
			return
		}

		response.Status = "healthy"
		response.Database = "connected"
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}
