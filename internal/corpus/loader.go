package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads a directory of markdown content files and turns each one
// into a Source. Page identity is derived from the file layout: a file
// services/chatbots.md gets PathHint "/services/chatbots", its URL is
// the site base URL joined with that path, and its title is the first
// H1 (falling back to a prettified filename).
type Loader struct {
	chunker *Chunker
	baseURL string
}

// NewLoader creates a content loader for the given site base URL,
// e.g. "https://site.example".
func NewLoader(baseURL string) *Loader {
	return &Loader{
		chunker: NewChunker(),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// LoadDir walks dir recursively and loads every .md file as a Source.
// Files that fail to parse abort the load; an unreadable corpus should
// fail loudly at startup, not serve partial content.
func (l *Loader) LoadDir(dir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		src, err := l.LoadFile(p, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("load %s: %w", rel, err)
		}
		sources = append(sources, *src)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content dir: %w", err)
	}

	return sources, nil
}

// LoadFile parses a single markdown file into a Source. relPath is the
// slash-separated path relative to the content root ("services/chatbots.md").
func (l *Loader) LoadFile(fsPath, relPath string) (*Source, error) {
	raw, err := os.ReadFile(fsPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	sections, err := l.chunker.Sections(raw)
	if err != nil {
		return nil, fmt.Errorf("chunk markdown: %w", err)
	}

	hint := pathHint(relPath)
	return &Source{
		PathHint: hint,
		URL:      l.baseURL + hint,
		Title:    sourceTitle(sections, relPath),
		Sections: sections,
	}, nil
}

// pathHint converts a relative file path to a site path.
// "services/chatbots.md" -> "/services/chatbots"; index files map to
// their directory ("services/index.md" -> "/services").
func pathHint(relPath string) string {
	p := strings.TrimSuffix(filepath.ToSlash(relPath), ".md")
	if path.Base(p) == "index" {
		p = path.Dir(p)
		if p == "." {
			return "/"
		}
	}
	return "/" + p
}

// sourceTitle picks the page title: the first top-level heading, else a
// prettified filename ("ai-content.md" -> "Ai Content").
func sourceTitle(sections []Section, relPath string) string {
	for _, s := range sections {
		if s.Heading != "" {
			// The first heading of the page is the root of its hierarchy.
			root, _, _ := strings.Cut(s.Heading, " > ")
			return root
		}
	}

	name := strings.TrimSuffix(path.Base(filepath.ToSlash(relPath)), ".md")
	words := strings.Split(strings.ReplaceAll(name, "-", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
