package retrieval

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
)

// TopK caps how many chunks a retrieval returns.
const TopK = 5

// ErrStoreUnavailable reports that the chunk store is missing or
// corrupt. The caller translates it to a generic apology rather than
// leaking internals.
var ErrStoreUnavailable = errors.New("chunk store unavailable")

// Retriever ranks corpus chunks against visitor queries.
type Retriever struct {
	store *corpus.Store
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store *corpus.Store) *Retriever {
	return &Retriever{store: store}
}

// RetrieveRelevantChunks scores every chunk against the query and
// returns the top TopK by descending score. Ties keep original store
// order, so identical corpora rank identically run to run. An empty
// query short-circuits to an empty result with no scoring work.
func (r *Retriever) RetrieveRelevantChunks(query string, page *PageContext) ([]ScoredChunk, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("retrieve: %w", ErrStoreUnavailable)
	}
	if r.store.Len() == 0 {
		return nil, fmt.Errorf("retrieve: empty corpus: %w", ErrStoreUnavailable)
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, nil
	}

	var results []ScoredChunk
	for _, chunk := range r.store.AllChunks() {
		score, signals := ScoreChunk(normalized, chunk, page)
		if score == 0 {
			continue
		}
		results = append(results, ScoredChunk{
			Chunk:          chunk,
			Score:          score,
			MatchedSignals: signals,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > TopK {
		results = results[:TopK]
	}
	return results, nil
}
