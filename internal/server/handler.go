// Package server provides the HTTP transport for the site assistant:
// the chat endpoint, health check, and landing page.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aidenkiefer/site-assistant/internal/generate"
	"github.com/aidenkiefer/site-assistant/internal/llm"
	"github.com/aidenkiefer/site-assistant/internal/ratelimit"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
	"github.com/aidenkiefer/site-assistant/internal/session"
)

// Request validation limits.
const (
	MaxMessageLength = 2000
	HistoryLimit     = 20
)

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	Pathname  string `json:"pathname,omitempty"`
	PageTitle string `json:"pageTitle,omitempty"`
}

// ChatResponse is the successful reply.
type ChatResponse struct {
	Answer              string   `json:"answer"`
	Citations           []string `json:"citations"`
	RecommendedServices string   `json:"recommended_services,omitempty"`
	CTA                 string   `json:"cta,omitempty"`
	SessionID           string   `json:"sessionId"`
}

// ErrorResponse carries a user-safe error message. Internals never leak
// through this.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatHandler wires the retrieval pipeline, generator, session store,
// and rate limiter behind POST /api/chat. Each request is independent;
// the only shared state is the read-only corpus, the database, and the
// limiter.
type ChatHandler struct {
	retriever *retrieval.Retriever
	generator *generate.Generator
	sessions  *session.Store
	limiter   *ratelimit.Limiter
	logger    *slog.Logger
}

// NewChatHandler assembles the chat endpoint from its collaborators.
func NewChatHandler(
	retriever *retrieval.Retriever,
	generator *generate.Generator,
	sessions *session.Store,
	limiter *ratelimit.Limiter,
	logger *slog.Logger,
) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
		limiter:   limiter,
		logger:    logger,
	}
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	ctx := r.Context()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if len(message) > MaxMessageLength {
		writeError(w, http.StatusBadRequest, "Message exceeds maximum length")
		return
	}

	if req.SessionID != "" {
		if _, err := uuid.Parse(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid session ID format")
			return
		}
	}

	// Rate limit by session when known, else by client IP.
	rateKey := req.SessionID
	if rateKey == "" {
		rateKey = clientIP(r)
	}
	if !h.limiter.Allow(rateKey) {
		writeError(w, http.StatusTooManyRequests, "Too many messages. Please try again later.")
		return
	}

	// Resolve or create the session.
	sessionID := req.SessionID
	if sessionID != "" {
		exists, err := h.sessions.Exists(ctx, sessionID)
		if err != nil {
			h.serverError(w, "session lookup", err)
			return
		}
		if !exists {
			writeError(w, http.StatusBadRequest, "Session not found")
			return
		}
	} else {
		id, err := h.sessions.Create(ctx)
		if err != nil {
			h.serverError(w, "session create", err)
			return
		}
		sessionID = id
	}

	if err := h.sessions.Append(ctx, sessionID, "user", message); err != nil {
		h.serverError(w, "persist user message", err)
		return
	}

	history, err := h.sessions.History(ctx, sessionID, HistoryLimit)
	if err != nil {
		h.serverError(w, "fetch history", err)
		return
	}

	var page *retrieval.PageContext
	if req.Pathname != "" {
		page = &retrieval.PageContext{Pathname: req.Pathname}
	}

	results, err := h.retriever.RetrieveRelevantChunks(message, page)
	if err != nil {
		// Corpus unavailable: generic apology, never internals.
		h.serverError(w, "retrieval", err)
		return
	}

	// Low confidence: canned reply, no model call. This is the circuit
	// breaker against hallucinated answers.
	if !retrieval.HasHighConfidence(results) {
		canned := retrieval.LowConfidenceResponse(message, page)
		if err := h.sessions.Append(ctx, sessionID, "assistant", canned.Answer); err != nil {
			h.serverError(w, "persist assistant message", err)
			return
		}
		writeJSON(w, http.StatusOK, ChatResponse{
			Answer:    canned.Answer,
			Citations: canned.Citations,
			CTA:       canned.CTA,
			SessionID: sessionID,
		})
		return
	}

	contextBlock := retrieval.FormatContextForLLM(results)
	allowed := retrieval.ExtractCitations(results)

	llmHistory := make([]llm.Message, len(history))
	for i, m := range history {
		llmHistory[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	structured, err := h.generator.CallLLMWithContext(ctx, llmHistory, contextBlock, allowed, page)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		h.logger.Error("chat request failed", "stage", "generate", "error", err)
		writeError(w, http.StatusServiceUnavailable, "The assistant is not configured. Please try again later.")
		return
	case errors.Is(err, llm.ErrProvider):
		h.logger.Error("chat request failed", "stage", "generate", "error", err)
		writeError(w, http.StatusBadGateway, "Having trouble generating a response. Please try again.")
		return
	case err != nil:
		h.serverError(w, "generate", err)
		return
	}

	if err := h.sessions.Append(ctx, sessionID, "assistant", structured.Answer); err != nil {
		h.serverError(w, "persist assistant message", err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:              structured.Answer,
		Citations:           structured.Citations,
		RecommendedServices: structured.RecommendedServices,
		CTA:                 structured.CTA,
		SessionID:           sessionID,
	})
}

// serverError logs the cause and answers with the generic apology. No
// message content or internals reach the client.
func (h *ChatHandler) serverError(w http.ResponseWriter, stage string, err error) {
	h.logger.Error("chat request failed", "stage", stage, "error", err)
	writeError(w, http.StatusInternalServerError, "Unable to process request. Please try again later.")
}

// clientIP extracts the caller's address, honouring X-Forwarded-For
// when a proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
