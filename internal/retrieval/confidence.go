package retrieval

import (
	"fmt"
	"strings"
)

// ConfidenceThreshold is the minimum top score for letting the language
// model answer. Equal to a single title or page-context match, so one
// title-level signal is enough.
const ConfidenceThreshold = 50

// CannedReply is a deterministic, non-LLM response used when retrieval
// signal is too weak to ground an answer.
type CannedReply struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	CTA       string   `json:"cta,omitempty"`
}

// HasHighConfidence reports whether the top retrieval score clears the
// threshold. Empty results are always low confidence.
func HasHighConfidence(results []ScoredChunk) bool {
	if len(results) == 0 {
		return false
	}
	// Results are sorted descending, the first is the best.
	return results[0].Score >= ConfidenceThreshold
}

// LowConfidenceResponse produces the canned clarifying reply for weak
// retrieval signal. It acknowledges uncertainty, points at the section
// the visitor is browsing when a page path is known, and never calls
// the language model.
func LowConfidenceResponse(query string, page *PageContext) CannedReply {
	answer := "I'm not fully sure based on the info on this site. " +
		"Want to tell me your business type and goals? I can help you find the best service approach."

	if page != nil && page.Pathname != "" && page.Pathname != "/" {
		if section := sectionName(page.Pathname); section != "" {
			answer = fmt.Sprintf(
				"I'm not fully sure based on the info on this site. Since you're browsing the %s section, "+
					"the details there may already cover what you're after. "+
					"Or tell me your business type and goals and I can point you to the right service.",
				section,
			)
		}
	}

	return CannedReply{
		Answer:    answer,
		Citations: []string{},
		CTA:       "Reach out via the contact form if you'd like to talk it through.",
	}
}

// sectionName derives a readable section name from the first path
// segment: "/services/bugfixes" -> "services".
func sectionName(pathname string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(pathname, "/"), "/")
	return strings.ReplaceAll(segment, "-", " ")
}
