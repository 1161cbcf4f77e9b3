// Package corpus owns the site content as an in-memory collection of
// retrievable chunks.
package corpus

// Chunk is an immutable unit of retrievable text. Every chunk belongs to
// exactly one source page; SourceURL doubles as the citation token.
type Chunk struct {
	ID          string // Stable identifier, unique within the store ("services/chatbots#2").
	Text        string // Passage content.
	SourceURL   string // Canonical URL of the page this chunk came from.
	SourceTitle string // Human-readable page title.
	PathHint    string // Site path for page-aware boosting ("/services/chatbots").
}

// Source is one content page before chunking.
type Source struct {
	PathHint string
	URL      string
	Title    string
	Sections []Section
}

// Section is a heading-delimited region of a source page.
type Section struct {
	Heading string // Heading hierarchy ("Services > Pricing"); empty for headerless pages.
	Body    string
}

// MaxChunkWords bounds chunk size so a single match concentrates
// relevant text. Sections longer than this are split at paragraph
// boundaries.
const MaxChunkWords = 250
