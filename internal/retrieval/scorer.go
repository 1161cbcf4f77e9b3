// Package retrieval scores and ranks corpus chunks against visitor
// queries and decides whether the signal is strong enough to answer.
package retrieval

import (
	"strings"
	"unicode"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
)

// Signal weights. Fixed design constants: a title-level match alone
// should clear the confidence gate, keyword matches alone should not.
const (
	WeightTitleMatch  = 50 // Full query found in the chunk's title/heading.
	WeightBodyMatch   = 30 // Full query found in the chunk body.
	WeightKeyword     = 10 // Per query token found in the chunk body.
	WeightPageBoost   = 50 // Chunk belongs to the visitor's current page.
	MaxKeywordMatches = 5  // Token matches counted per chunk.
	MinKeywordLength  = 3  // Tokens shorter than this are noise.
)

// Signal names recorded in ScoredChunk.MatchedSignals.
const (
	SignalTitle   = "title"
	SignalBody    = "body"
	SignalKeyword = "keyword"
	SignalPage    = "page"
)

// ScoredChunk pairs a chunk with its relevance score and the signals
// that produced it.
type ScoredChunk struct {
	Chunk          corpus.Chunk
	Score          int
	MatchedSignals []string
}

// PageContext carries the visitor's current location on the site.
type PageContext struct {
	Pathname string
}

// ScoreChunk computes the additive relevance score of a chunk for an
// already-normalized (trimmed, lower-cased) query. Pure and
// deterministic: identical inputs always produce identical output.
func ScoreChunk(query string, chunk corpus.Chunk, page *PageContext) (int, []string) {
	if query == "" {
		return 0, nil
	}

	score := 0
	var signals []string

	title := strings.ToLower(chunk.SourceTitle)
	body := strings.ToLower(chunk.Text)

	if strings.Contains(title, query) {
		score += WeightTitleMatch
		signals = append(signals, SignalTitle)
	}

	if strings.Contains(body, query) {
		score += WeightBodyMatch
		signals = append(signals, SignalBody)
	}

	matched := 0
	for _, token := range queryTokens(query) {
		if matched == MaxKeywordMatches {
			break
		}
		if strings.Contains(body, token) {
			score += WeightKeyword
			matched++
		}
	}
	if matched > 0 {
		signals = append(signals, SignalKeyword)
	}

	if page != nil && page.Pathname != "" && chunk.PathHint == page.Pathname {
		score += WeightPageBoost
		signals = append(signals, SignalPage)
	}

	return score, signals
}

// queryTokens splits a query into deduplicated keyword tokens:
// whitespace-delimited, punctuation-stripped, at least MinKeywordLength
// runes. The input is already lower-cased.
func queryTokens(query string) []string {
	fields := strings.Fields(query)
	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		token := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(token)) < MinKeywordLength || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	return tokens
}
