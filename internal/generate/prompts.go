package generate

import (
	"fmt"
	"strings"

	"github.com/aidenkiefer/site-assistant/internal/retrieval"
)

// systemPrompt is the fixed persona and scope for the site assistant.
const systemPrompt = `You are a helpful assistant for a freelance software engineer's portfolio site. You help visitors learn about the services, projects, experience, and expertise on offer.

## Voice
- Friendly and direct: conversational but professional.
- No fluff: get straight to the point, no filler phrases.
- Confident about services, pricing, and timelines that appear in the provided context.
- One apology max, then move to the solution.

## Response shape
1. Direct answer (1-2 sentences) to the core question.
2. Key details as short bullets: pricing, timeline, options.
3. A recommendation when relevant.
4. One clear next step, such as booking a free consultation or using the contact form.

## Guidelines
- Answer only from the provided context; do not invent services, prices, or timelines.
- If the context does not cover the question, say so and ask one clarifying question with 2-3 specific options.
- When a visitor shows interest, suggest booking a free consultation or reaching out via the contact form.
- Keep responses brief and scannable, with blank lines between paragraphs and one list item per line.`

// repairInstruction is appended as a corrective turn when the first
// reply parsed as JSON but failed validation.
const repairInstruction = `Your previous reply did not follow the required format. Respond again with a single JSON object containing exactly these fields: "answer" (non-empty string in markdown), "citations" (array of URLs drawn only from the allowed list), and optionally "recommended_services" (string) and "cta" (string). No text outside the JSON object.`

// buildSystemInstruction composes the full system prompt: persona,
// optional page-context block, retrieval context, and the JSON response
// contract with the citation whitelist.
func buildSystemInstruction(contextBlock string, allowed []string, page *retrieval.PageContext) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	if page != nil && page.Pathname != "" {
		fmt.Fprintf(&b, "\n\nPAGE CONTEXT:\nThe visitor is currently on %s. Prioritise information relevant to that page and reference it naturally when helpful.", page.Pathname)
	}

	b.WriteString("\n\nCONTEXT INFORMATION:\n")
	b.WriteString(contextBlock)

	b.WriteString(`

RESPONSE FORMAT:
You must respond with a JSON object containing exactly these fields:
- "answer": your response in markdown format, based on the context provided
- "citations": array of URLs from the context that support your answer`)
	if len(allowed) > 0 {
		fmt.Fprintf(&b, " (use only URLs from: %s)", strings.Join(allowed, ", "))
	}
	b.WriteString(`
- "recommended_services": (optional) one specific service that would help, as a string
- "cta": (optional) a brief call-to-action, as a string

Only cite URLs that are actually relevant to your answer. If no context is relevant, use an empty citations array.`)

	return b.String()
}
