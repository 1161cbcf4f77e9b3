package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aidenkiefer/site-assistant/internal/llm"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
)

// maxAnswerTokens bounds the model reply length.
const maxAnswerTokens = 1024

// fallbackAnswer covers the corner where even the raw model text is
// blank; the caller must always receive a non-empty answer.
const fallbackAnswer = "I wasn't able to put together a proper answer just now. Could you rephrase the question, or reach out via the contact form?"

// Generator produces structured answers from retrieval context and
// conversation history. Stateless per request.
type Generator struct {
	cfg      llm.Config
	provider llm.Provider // Overrides config-based selection when set (tests).
	logger   *slog.Logger
}

// NewGenerator creates a generator that selects its provider per call
// from the given configuration.
func NewGenerator(cfg llm.Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{cfg: cfg, logger: logger}
}

// CallLLMWithContext invokes the language model with the formatted
// retrieval context and conversation history and returns a validated
// StructuredChatResponse.
//
// Failure protocol:
//   - transport/config failures on the first call propagate as
//     llm.ErrProvider / llm.ErrNotConfigured;
//   - output that is not JSON degrades to {answer: rawText} with no
//     repair attempt;
//   - output that parses but fails validation triggers exactly one
//     repair call; if that also fails (validation or transport), the
//     first call's raw text is returned as the answer.
//
// Malformed model output therefore never surfaces as an error.
func (g *Generator) CallLLMWithContext(
	ctx context.Context,
	history []llm.Message,
	contextBlock string,
	allowedCitations []string,
	page *retrieval.PageContext,
) (StructuredChatResponse, error) {
	provider := g.provider
	if provider == nil {
		p, err := llm.SelectProvider(g.cfg)
		if err != nil {
			return StructuredChatResponse{}, err
		}
		provider = p
	}

	req := llm.Request{
		System:    buildSystemInstruction(contextBlock, allowedCitations, page),
		Messages:  history,
		MaxTokens: maxAnswerTokens,
		ForceJSON: true,
	}

	raw, err := provider.Complete(ctx, req)
	if err != nil {
		return StructuredChatResponse{}, err
	}

	resp, result := parseAndValidate(raw, allowedCitations)
	switch result {
	case outcomeValid:
		return resp, nil

	case outcomeUnparsable:
		// Plain-text reply: use it as-is. A repair here would double
		// latency for output the visitor can already read.
		g.logger.Warn("model output not JSON, returning raw text", "provider", provider.Name())
		return rawTextResponse(raw), nil
	}

	// Parsed but invalid: one bounded repair attempt, sequential by
	// design since the corrective turn depends on the first failure.
	g.logger.Warn("model output failed validation, attempting repair", "provider", provider.Name())

	repairReq := req
	repairReq.Messages = append(append([]llm.Message(nil), history...), llm.Message{
		Role:    "user",
		Content: repairInstruction,
	})

	repaired, err := provider.Complete(ctx, repairReq)
	if err != nil {
		g.logger.Warn("repair call failed, falling back to raw text", "error", err)
		return rawTextResponse(raw), nil
	}

	if resp, result := parseAndValidate(repaired, allowedCitations); result == outcomeValid {
		return resp, nil
	}

	g.logger.Warn("repair output still invalid, falling back to raw text")
	return rawTextResponse(raw), nil
}

// rawTextResponse wraps unstructured model text in the response
// contract with no citations.
func rawTextResponse(raw string) StructuredChatResponse {
	answer := raw
	if strings.TrimSpace(answer) == "" {
		answer = fallbackAnswer
	}
	return StructuredChatResponse{Answer: answer, Citations: []string{}}
}
