package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aidenkiefer/site-assistant/internal/corpus"
	"github.com/aidenkiefer/site-assistant/internal/retrieval"
)

// makeSearchHandler creates the search_content tool handler.
// Search flow:
// 1. Score every chunk against the query (additive keyword scoring)
// 2. Boost chunks from the caller's current page, if given
// 3. Drop zero-score chunks, sort descending, keep the top results
func makeSearchHandler(retriever *retrieval.Retriever) func(
	context.Context, *mcp.CallToolRequest, SearchContentInput,
) (*mcp.CallToolResult, SearchContentOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchContentInput) (
		*mcp.CallToolResult, SearchContentOutput, error,
	) {
		var page *retrieval.PageContext
		if input.Pathname != "" {
			page = &retrieval.PageContext{Pathname: input.Pathname}
		}

		scored, err := retriever.RetrieveRelevantChunks(input.Query, page)
		if err != nil {
			return nil, SearchContentOutput{}, fmt.Errorf("search failed: %w", err)
		}

		results := make([]SearchResult, 0, len(scored))
		for _, sc := range scored {
			results = append(results, SearchResult{
				Path:    sc.Chunk.PathHint,
				Title:   sc.Chunk.SourceTitle,
				URL:     sc.Chunk.SourceURL,
				Score:   sc.Score,
				Signals: sc.MatchedSignals,
				Text:    sc.Chunk.Text,
			})
		}

		if len(results) == 0 {
			return nil, SearchContentOutput{
				Results: []SearchResult{},
				Message: "No matching content found. Try broader search terms.",
			}, nil
		}

		return nil, SearchContentOutput{Results: results}, nil
	}
}

// makeGetPageHandler creates the get_page tool handler.
// Retrieves a full page by site path, sections joined in document order.
func makeGetPageHandler(store *corpus.Store) func(
	context.Context, *mcp.CallToolRequest, GetPageInput,
) (*mcp.CallToolResult, GetPageOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetPageInput) (
		*mcp.CallToolResult, GetPageOutput, error,
	) {
		src, ok := store.SourceByPath(input.Path)
		if !ok {
			return nil, GetPageOutput{
				Found: false,
				Path:  input.Path,
			}, nil
		}

		var b strings.Builder
		for i, sec := range src.Sections {
			if i > 0 {
				b.WriteString("\n\n")
			}
			if sec.Heading != "" {
				b.WriteString(sec.Heading)
				b.WriteString("\n\n")
			}
			b.WriteString(sec.Body)
		}

		return nil, GetPageOutput{
			Content: b.String(),
			Path:    src.PathHint,
			Title:   src.Title,
			URL:     src.URL,
			Found:   true,
		}, nil
	}
}

// makeListPagesHandler creates the list_pages tool handler.
// Returns every indexed page with its path, title, and URL.
func makeListPagesHandler(store *corpus.Store) func(
	context.Context, *mcp.CallToolRequest, ListPagesInput,
) (*mcp.CallToolResult, ListPagesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListPagesInput) (
		*mcp.CallToolResult, ListPagesOutput, error,
	) {
		sources := store.Sources()
		pages := make([]PageInfo, 0, len(sources))
		for _, src := range sources {
			pages = append(pages, PageInfo{
				Path:  src.PathHint,
				Title: src.Title,
				URL:   src.URL,
			})
		}

		return nil, ListPagesOutput{
			Pages: pages,
			Count: len(pages),
		}, nil
	}
}
