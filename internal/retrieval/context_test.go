package retrieval

import (
	"reflect"
	"strings"
	"testing"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
)

func contextResults() []ScoredChunk {
	return []ScoredChunk{
		{Chunk: corpus.Chunk{
			Text:        "Chatbot details.",
			SourceURL:   "https://site.example/services/chatbots",
			SourceTitle: "Chatbots",
		}},
		{Chunk: corpus.Chunk{
			Text:        "Pricing details.",
			SourceURL:   "https://site.example/services/chatbots",
			SourceTitle: "Chatbots > Pricing",
		}},
		{Chunk: corpus.Chunk{
			Text:        "About us.",
			SourceURL:   "https://site.example/about",
			SourceTitle: "About",
		}},
	}
}

// TestFormatContextForLLM verifies the numbered block layout.
func TestFormatContextForLLM(t *testing.T) {
	block := FormatContextForLLM(contextResults())

	if !strings.HasPrefix(block, "[1] Source: Chatbots (https://site.example/services/chatbots)\nChatbot details.") {
		t.Errorf("Block should start with the top result, got %q", block)
	}
	if !strings.Contains(block, "\n\n---\n\n[2] Source: Chatbots > Pricing") {
		t.Errorf("Results should be separated and numbered, got %q", block)
	}
	if !strings.Contains(block, "[3] Source: About (https://site.example/about)\nAbout us.") {
		t.Errorf("Block missing third result, got %q", block)
	}
}

// TestFormatContextForLLM_Empty verifies no results produce no block.
func TestFormatContextForLLM_Empty(t *testing.T) {
	if got := FormatContextForLLM(nil); got != "" {
		t.Errorf("Expected empty block, got %q", got)
	}
}

// TestExtractCitations verifies order-preserving deduplication.
func TestExtractCitations(t *testing.T) {
	got := ExtractCitations(contextResults())
	want := []string{
		"https://site.example/services/chatbots",
		"https://site.example/about",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Citations: expected %v, got %v", want, got)
	}
}
