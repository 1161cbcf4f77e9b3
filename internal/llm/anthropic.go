package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Anthropic API defaults.
const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"

	// DefaultAnthropicModel is used when ANTHROPIC_MODEL is not set.
	DefaultAnthropicModel = "claude-3-5-sonnet-latest"
)

// Anthropic calls the Anthropic Messages API over plain HTTP.
type Anthropic struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// anthropicRequest is the /v1/messages request format.
type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the /v1/messages response format.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropic creates the Anthropic backend from configuration.
func NewAnthropic(cfg Config) *Anthropic {
	model := cfg.AnthropicModel
	if model == "" {
		model = DefaultAnthropicModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Anthropic{
		client:  &http.Client{Timeout: timeout},
		baseURL: anthropicBaseURL,
		apiKey:  cfg.AnthropicKey,
		model:   model,
	}
}

// Name identifies the backend.
func (a *Anthropic) Name() string { return "anthropic" }

// Complete sends the conversation to /v1/messages and returns the
// concatenated text blocks of the reply. Anthropic has no JSON response
// mode, so Request.ForceJSON relies on the system prompt contract.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	text, err := a.sendMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %v", ErrProvider, err)
	}
	return text, nil
}

func (a *Anthropic) sendMessages(ctx context.Context, req Request) (string, error) {
	apiMessages := make([]anthropicMessage, len(req.Messages))
	for i, msg := range req.Messages {
		apiMessages[i] = anthropicMessage{Role: msg.Role, Content: msg.Content}
	}

	// Anthropic requires max_tokens to be set.
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		Messages:  apiMessages,
		MaxTokens: maxTokens,
		System:    req.System,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var msgResp anthropicResponse
	if err := json.Unmarshal(respBody, &msgResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("api error: %s", msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}
	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("no response content returned")
	}

	var out strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
