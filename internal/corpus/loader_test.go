package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeContentFile(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// TestLoadDir verifies directory walking, path hints, and URLs.
func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "index.md", "# Home\n\nWelcome.\n")
	writeContentFile(t, dir, "services/chatbots.md", "# Chatbots\n\nWe build them.\n")
	writeContentFile(t, dir, "notes.txt", "not markdown")

	loader := NewLoader("https://site.example/")
	sources, err := loader.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(sources))
	}

	byPath := make(map[string]Source)
	for _, s := range sources {
		byPath[s.PathHint] = s
	}

	home, ok := byPath["/"]
	if !ok {
		t.Fatalf("index.md should map to path '/', have %v", byPath)
	}
	if home.URL != "https://site.example/" {
		t.Errorf("Home URL: got %q", home.URL)
	}
	if home.Title != "Home" {
		t.Errorf("Home title: expected 'Home', got %q", home.Title)
	}

	chatbots, ok := byPath["/services/chatbots"]
	if !ok {
		t.Fatalf("services/chatbots.md should map to '/services/chatbots'")
	}
	if chatbots.URL != "https://site.example/services/chatbots" {
		t.Errorf("Chatbots URL: got %q", chatbots.URL)
	}
}

// TestLoadDir_MissingDir verifies an absent content directory fails loudly.
func TestLoadDir_MissingDir(t *testing.T) {
	loader := NewLoader("https://site.example")
	if _, err := loader.LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}

// TestPathHint covers file-to-path mapping rules.
func TestPathHint(t *testing.T) {
	cases := []struct {
		rel  string
		want string
	}{
		{"index.md", "/"},
		{"about.md", "/about"},
		{"services/index.md", "/services"},
		{"services/ai-content.md", "/services/ai-content"},
	}
	for _, c := range cases {
		if got := pathHint(c.rel); got != c.want {
			t.Errorf("pathHint(%q): expected %q, got %q", c.rel, c.want, got)
		}
	}
}

// TestSourceTitle_Fallback verifies the prettified filename fallback when
// the page has no headings.
func TestSourceTitle_Fallback(t *testing.T) {
	got := sourceTitle([]Section{{Body: "no headings here"}}, "services/ai-content.md")
	if got != "Ai Content" {
		t.Errorf("Expected 'Ai Content', got %q", got)
	}
}
