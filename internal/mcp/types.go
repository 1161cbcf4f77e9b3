// Package mcp exposes the site content index over the Model Context Protocol.
package mcp

// SearchContentInput defines the input parameters for the search_content tool.
type SearchContentInput struct {
	// Query is the keyword search query.
	Query string `json:"query" jsonschema:"required,description=Keywords to search the site content for"`
	// Pathname optionally boosts results from the matching page.
	Pathname string `json:"pathname,omitempty" jsonschema:"description=Optional site path used to boost results from that page (e.g. /services/chatbots)"`
}

// SearchContentOutput contains the search results.
type SearchContentOutput struct {
	// Results is the list of matching content chunks.
	Results []SearchResult `json:"results"`
	// Message provides informational context (e.g., "No matching content found").
	Message string `json:"message,omitempty"`
}

// SearchResult represents a single chunk match from keyword search.
type SearchResult struct {
	// Path is the site path of the source page (e.g., "/services/chatbots").
	Path string `json:"path"`
	// Title is the source page title with section breadcrumb.
	Title string `json:"title"`
	// URL is the canonical URL of the source page.
	URL string `json:"url"`
	// Score is the additive keyword relevance score.
	Score int `json:"score"`
	// Signals names the match types that contributed to the score.
	Signals []string `json:"signals"`
	// Text is the chunk content.
	Text string `json:"text"`
}

// GetPageInput defines the input parameters for the get_page tool.
type GetPageInput struct {
	// Path is the site path to retrieve (e.g., "/services/chatbots").
	Path string `json:"path" jsonschema:"required,description=The site path to retrieve (e.g. /services/chatbots)"`
}

// GetPageOutput contains the retrieved page.
type GetPageOutput struct {
	// Content is the full page text, sections joined in order.
	Content string `json:"content"`
	// Path is the site path.
	Path string `json:"path"`
	// Title is the page title.
	Title string `json:"title"`
	// URL is the canonical URL of the page.
	URL string `json:"url"`
	// Found indicates whether the page exists.
	Found bool `json:"found"`
}

// ListPagesInput defines the input parameters for the list_pages tool.
// This tool takes no parameters and lists all indexed pages.
type ListPagesInput struct {
	// No input parameters required
}

// PageInfo describes one indexed page.
type PageInfo struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ListPagesOutput contains the list of all indexed pages.
type ListPagesOutput struct {
	// Pages is all indexed pages.
	Pages []PageInfo `json:"pages"`
	// Count is the total number of pages.
	Count int `json:"count"`
}
