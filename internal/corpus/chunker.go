package corpus

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// splitDepth is the deepest heading level that starts a new section.
// H3 and below stay inside their parent section.
const splitDepth = 2

// Chunker splits markdown pages into heading-delimited sections.
type Chunker struct {
	parser goldmark.Markdown
}

// NewChunker creates a markdown chunker backed by a goldmark parser.
func NewChunker() *Chunker {
	return &Chunker{
		parser: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Sections splits a markdown page at H1/H2 boundaries. Each section
// carries its heading hierarchy ("Services > Pricing") and the verbatim
// body between its heading and the next one. A page without headings
// yields a single section with an empty heading. Empty bodies are kept
// here; the store drops empty chunks at build time.
func (c *Chunker) Sections(source []byte) ([]Section, error) {
	doc := c.parser.Parser().Parse(text.NewReader(source))

	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(splitDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("inspect headings: %w", err)
	}

	if len(tree.Items) == 0 {
		return []Section{{Body: strings.TrimSpace(string(source))}}, nil
	}

	// Headings at or above splitDepth, in document order. The flattened
	// TOC items correspond 1:1 to these nodes, which gives us titles
	// without re-extracting heading text from the AST.
	headings := collectHeadings(doc)
	titles := flattenTitles(tree.Items, nil)
	if len(headings) != len(titles) {
		return nil, fmt.Errorf("heading walk found %d headings, toc found %d", len(headings), len(titles))
	}

	sections := make([]Section, 0, len(headings)+1)

	// Preamble before the first heading.
	if lead := strings.TrimSpace(string(source[:lineStart(source, headings[0])])); lead != "" {
		sections = append(sections, Section{Body: lead})
	}

	for i, h := range headings {
		start := bodyStart(h)
		end := len(source)
		if i+1 < len(headings) {
			end = lineStart(source, headings[i+1])
		}
		// start sits at the end of the heading's own line, so the body
		// is everything from there to the next split-level heading.
		sections = append(sections, Section{
			Heading: titles[i],
			Body:    strings.TrimSpace(string(source[start:end])),
		})
	}

	return sections, nil
}

// collectHeadings returns all H1..splitDepth heading nodes in document order.
func collectHeadings(doc ast.Node) []*ast.Heading {
	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindHeading {
			if h := n.(*ast.Heading); h.Level <= splitDepth {
				headings = append(headings, h)
			}
		}
		return ast.WalkContinue, nil
	})
	return headings
}

// flattenTitles walks TOC items depth-first, producing one hierarchy
// string per heading in document order ("Services > Pricing").
func flattenTitles(items toc.Items, ancestors []string) []string {
	var titles []string
	for _, item := range items {
		// A page that opens with an H2 makes toc insert a placeholder
		// parent with no title and no heading node behind it.
		if len(item.Title) == 0 {
			titles = append(titles, flattenTitles(item.Items, ancestors)...)
			continue
		}
		path := append(append([]string(nil), ancestors...), string(item.Title))
		titles = append(titles, strings.Join(path, " > "))
		if len(item.Items) > 0 {
			titles = append(titles, flattenTitles(item.Items, path)...)
		}
	}
	return titles
}

// lineStart returns the byte offset of the start of the heading's own
// line. The heading's text segment begins after the "#" markers, so the
// marker prefix has to be walked back over.
func lineStart(source []byte, h *ast.Heading) int {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0
	}
	start := lines.At(0).Start
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	return start
}

// bodyStart returns the byte offset where a heading's section body begins.
func bodyStart(h *ast.Heading) int {
	lines := h.Lines()
	if lines.Len() == 0 {
		return 0
	}
	return lines.At(lines.Len() - 1).Stop
}

// splitByWords breaks a section body into pieces of at most maxWords
// words, cutting only at paragraph boundaries. A single paragraph over
// the budget is kept whole rather than split mid-sentence.
func splitByWords(body string, maxWords int) []string {
	paragraphs := strings.Split(body, "\n\n")

	var pieces []string
	var current []string
	currentWords := 0

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		words := len(strings.Fields(p))
		if currentWords > 0 && currentWords+words > maxWords {
			pieces = append(pieces, strings.Join(current, "\n\n"))
			current = current[:0]
			currentWords = 0
		}
		current = append(current, p)
		currentWords += words
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, "\n\n"))
	}

	return pieces
}
