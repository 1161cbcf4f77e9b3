package corpus

import (
	"fmt"
	"strings"
)

// Store holds the corpus as a fixed, ordered collection of chunks.
// It is built once at startup and read-only afterwards, so concurrent
// readers need no locking.
type Store struct {
	chunks  []Chunk
	sources []Source
	byPath  map[string]int // PathHint -> index into sources
	dropped int
}

// Build constructs a Store from loaded sources. Each section becomes one
// or more chunks bounded by MaxChunkWords; chunks that are empty after
// trimming are dropped. Chunk IDs are stable across rebuilds of the same
// corpus ("services/chatbots#2"), which keeps ranking tie-breaks
// reproducible.
func Build(sources []Source) *Store {
	s := &Store{
		sources: sources,
		byPath:  make(map[string]int, len(sources)),
	}

	for i, src := range sources {
		s.byPath[src.PathHint] = i
		n := 0
		for _, sec := range src.Sections {
			pieces := splitByWords(sec.Body, MaxChunkWords)
			if len(pieces) == 0 {
				// Heading with no body, or blank preamble.
				s.dropped++
				continue
			}
			title := src.Title
			if sec.Heading != "" {
				title = sec.Heading
			}
			for _, piece := range pieces {
				s.chunks = append(s.chunks, Chunk{
					ID:          fmt.Sprintf("%s#%d", strings.TrimPrefix(src.PathHint, "/"), n),
					Text:        piece,
					SourceURL:   src.URL,
					SourceTitle: title,
					PathHint:    src.PathHint,
				})
				n++
			}
		}
	}

	return s
}

// AllChunks returns every chunk in store order. Callers must treat the
// slice as read-only.
func (s *Store) AllChunks() []Chunk {
	return s.chunks
}

// Len reports the number of chunks in the store.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Dropped reports how many empty sections were discarded at build time.
func (s *Store) Dropped() int {
	return s.dropped
}

// Sources returns the loaded pages in load order.
func (s *Store) Sources() []Source {
	return s.sources
}

// SourceByPath looks up a page by its path hint.
func (s *Store) SourceByPath(hint string) (Source, bool) {
	i, ok := s.byPath[hint]
	if !ok {
		return Source{}, false
	}
	return s.sources[i], true
}
