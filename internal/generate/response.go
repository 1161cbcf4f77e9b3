// Package generate turns retrieval context and conversation history
// into a validated, citation-filtered structured answer.
package generate

import (
	"encoding/json"
	"strings"
)

// StructuredChatResponse is the JSON contract enforced on model output.
// Produced fresh per request and never mutated after validation.
type StructuredChatResponse struct {
	Answer              string   `json:"answer"`
	Citations           []string `json:"citations"`
	RecommendedServices string   `json:"recommended_services,omitempty"`
	CTA                 string   `json:"cta,omitempty"`
}

// outcome classifies a model reply after parse + validation.
type outcome int

const (
	outcomeValid      outcome = iota // Parsed and validated.
	outcomeUnparsable                // Not JSON at all; degrade to raw text, no repair.
	outcomeInvalid                   // Parsed but failed validation; eligible for repair.
)

// modelOutput is the untrusted wire shape. Citations stays raw so a
// wrong-typed field degrades to "absent" instead of failing the whole
// parse.
type modelOutput struct {
	Answer              string          `json:"answer"`
	Citations           json.RawMessage `json:"citations"`
	RecommendedServices string          `json:"recommended_services"`
	CTA                 string          `json:"cta"`
}

// parseAndValidate applies the full schema check to raw model output.
// Model output is untrusted input: no field presence or type is assumed.
// Hallucinated citations are silently dropped, never an error.
func parseAndValidate(raw string, allowed []string) (StructuredChatResponse, outcome) {
	var out modelOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return StructuredChatResponse{}, outcomeUnparsable
	}

	if strings.TrimSpace(out.Answer) == "" {
		return StructuredChatResponse{}, outcomeInvalid
	}

	return StructuredChatResponse{
		Answer:              out.Answer,
		Citations:           filterCitations(out.Citations, allowed),
		RecommendedServices: out.RecommendedServices,
		CTA:                 out.CTA,
	}, outcomeValid
}

// filterCitations keeps only model citations present in the allowed
// whitelist, preserving the model's order and dropping duplicates. A
// missing or wrong-typed citations field yields an empty list.
func filterCitations(raw json.RawMessage, allowed []string) []string {
	var cited []string
	if len(raw) > 0 {
		// A non-array here is a schema violation by the model; treat it
		// as no citations rather than failing the request.
		_ = json.Unmarshal(raw, &cited)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, url := range allowed {
		allowedSet[url] = true
	}

	kept := make([]string, 0, len(cited))
	seen := make(map[string]bool, len(cited))
	for _, url := range cited {
		if !allowedSet[url] || seen[url] {
			continue
		}
		seen[url] = true
		kept = append(kept, url)
	}
	return kept
}
