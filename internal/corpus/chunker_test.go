package corpus

import (
	"strings"
	"testing"
)

// TestSections_BasicHeadings tests splitting with an H1 and multiple H2s.
func TestSections_BasicHeadings(t *testing.T) {
	input := `# Services

We build custom software.

## Chatbots

Site chatbots grounded in your content.

## Automation

Workflow automation for small teams.
`

	chunker := NewChunker()
	sections, err := chunker.Sections([]byte(input))
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}

	// Expect 3 sections: H1, H1>H2 Chatbots, H1>H2 Automation
	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(sections))
	}

	if sections[0].Heading != "Services" {
		t.Errorf("Section 0 heading: expected 'Services', got %q", sections[0].Heading)
	}
	if !strings.Contains(sections[0].Body, "We build custom software") {
		t.Errorf("Section 0 missing expected body")
	}

	if sections[1].Heading != "Services > Chatbots" {
		t.Errorf("Section 1 heading: expected 'Services > Chatbots', got %q", sections[1].Heading)
	}
	if !strings.Contains(sections[1].Body, "grounded in your content") {
		t.Errorf("Section 1 missing expected body")
	}

	if sections[2].Heading != "Services > Automation" {
		t.Errorf("Section 2 heading: expected 'Services > Automation', got %q", sections[2].Heading)
	}
}

// TestSections_Preamble tests that text before the first heading becomes
// its own section with an empty heading.
func TestSections_Preamble(t *testing.T) {
	input := `Welcome to the site.

# About

Our story.
`

	chunker := NewChunker()
	sections, err := chunker.Sections([]byte(input))
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if sections[0].Heading != "" {
		t.Errorf("Preamble heading: expected empty, got %q", sections[0].Heading)
	}
	if sections[0].Body != "Welcome to the site." {
		t.Errorf("Preamble body: got %q", sections[0].Body)
	}
	if sections[1].Heading != "About" {
		t.Errorf("Section 1 heading: expected 'About', got %q", sections[1].Heading)
	}
}

// TestSections_NoHeadings tests that a heading-free page yields one section.
func TestSections_NoHeadings(t *testing.T) {
	input := "Just some plain prose.\n\nAnother paragraph."

	chunker := NewChunker()
	sections, err := chunker.Sections([]byte(input))
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}

	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if sections[0].Heading != "" {
		t.Errorf("Heading: expected empty, got %q", sections[0].Heading)
	}
	if !strings.Contains(sections[0].Body, "Another paragraph") {
		t.Errorf("Body missing content")
	}
}

// TestSections_DeepHeadingsStayInParent tests that H3+ does not split.
func TestSections_DeepHeadingsStayInParent(t *testing.T) {
	input := `# Guide

## Setup

Intro.

### Details

Fine print stays in Setup.
`

	chunker := NewChunker()
	sections, err := chunker.Sections([]byte(input))
	if err != nil {
		t.Fatalf("Sections failed: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(sections))
	}
	if !strings.Contains(sections[1].Body, "Fine print stays in Setup") {
		t.Errorf("H3 content should remain in the parent H2 section, got %q", sections[1].Body)
	}
	if !strings.Contains(sections[1].Body, "### Details") {
		t.Errorf("H3 heading line should remain in the body, got %q", sections[1].Body)
	}
}

// TestSplitByWords verifies paragraph-boundary splitting under a word budget.
func TestSplitByWords(t *testing.T) {
	para := strings.Repeat("word ", 150)
	body := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	pieces := splitByWords(body, 250)
	if len(pieces) != 2 {
		t.Fatalf("Expected 2 pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		if n := len(strings.Fields(p)); n != 150 {
			t.Errorf("Piece %d: expected 150 words, got %d", i, n)
		}
	}
}

// TestSplitByWords_OversizeParagraph verifies a single paragraph over the
// budget is kept whole.
func TestSplitByWords_OversizeParagraph(t *testing.T) {
	body := strings.TrimSpace(strings.Repeat("word ", 400))

	pieces := splitByWords(body, 250)
	if len(pieces) != 1 {
		t.Fatalf("Expected 1 piece, got %d", len(pieces))
	}
	if n := len(strings.Fields(pieces[0])); n != 400 {
		t.Errorf("Expected 400 words preserved, got %d", n)
	}
}

// TestSplitByWords_Empty verifies blank bodies produce no pieces.
func TestSplitByWords_Empty(t *testing.T) {
	if pieces := splitByWords("   \n\n  ", 250); len(pieces) != 0 {
		t.Errorf("Expected no pieces for blank body, got %d", len(pieces))
	}
}
