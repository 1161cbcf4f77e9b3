// Package llm abstracts the language model providers behind a single
// completion interface. Two interchangeable backends exist (Anthropic
// and OpenAI); selection happens once per request from configuration
// and providers are never mixed within a request.
package llm

import (
	"context"
	"errors"
	"os"
	"time"
)

// Sentinel errors the request boundary distinguishes on.
var (
	// ErrNotConfigured means no provider credentials are set. Operator
	// error, not transient.
	ErrNotConfigured = errors.New("no LLM API key configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")

	// ErrProvider wraps transport and API failures (timeout, auth,
	// quota) from whichever backend handled the call.
	ErrProvider = errors.New("llm provider request failed")
)

// Message is one turn of conversation history. Role is "user" or
// "assistant"; the system instruction travels separately.
type Message struct {
	Role    string
	Content string
}

// Request describes a single completion call.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int
	// ForceJSON asks backends that support a JSON response mode to use
	// it. Backends without one rely on the prompt contract alone.
	ForceJSON bool
}

// Provider is a language model backend.
type Provider interface {
	// Complete sends the system instruction and history and returns the
	// generated text. Failures are wrapped in ErrProvider.
	Complete(ctx context.Context, req Request) (string, error)

	// Name identifies the backend ("anthropic", "openai").
	Name() string
}

// Config holds provider credentials and tuning.
type Config struct {
	AnthropicKey   string
	AnthropicModel string
	OpenAIKey      string
	OpenAIModel    string
	Timeout        time.Duration
}

// DefaultTimeout bounds a single model call so a hung request cannot
// pin a chat request indefinitely.
const DefaultTimeout = 60 * time.Second

// ConfigFromEnv reads provider configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel: os.Getenv("ANTHROPIC_MODEL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		Timeout:        DefaultTimeout,
	}
}

// SelectProvider picks the backend for a request: Anthropic when its
// key is present, else OpenAI, else ErrNotConfigured. Pure function of
// configuration; never inspects responses at runtime.
func SelectProvider(cfg Config) (Provider, error) {
	switch {
	case cfg.AnthropicKey != "":
		return NewAnthropic(cfg), nil
	case cfg.OpenAIKey != "":
		return NewOpenAI(cfg), nil
	default:
		return nil, ErrNotConfigured
	}
}
