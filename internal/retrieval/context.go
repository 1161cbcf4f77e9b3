package retrieval

import (
	"fmt"
	"strings"
)

// FormatContextForLLM serializes ranked chunks into a single prompt
// context block, highest relevance first. Chunk bodies pass through
// verbatim so sourcing stays auditable.
func FormatContextForLLM(results []ScoredChunk) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[%d] Source: %s (%s)\n%s",
			i+1, r.Chunk.SourceTitle, r.Chunk.SourceURL, r.Chunk.Text)
	}

	return strings.Join(parts, "\n\n---\n\n")
}

// ExtractCitations returns the deduplicated, order-preserving source
// URLs of the results. This list is the authoritative whitelist for
// filtering model-supplied citations.
func ExtractCitations(results []ScoredChunk) []string {
	seen := make(map[string]bool, len(results))
	urls := make([]string, 0, len(results))

	for _, r := range results {
		if seen[r.Chunk.SourceURL] {
			continue
		}
		seen[r.Chunk.SourceURL] = true
		urls = append(urls, r.Chunk.SourceURL)
	}

	return urls
}
