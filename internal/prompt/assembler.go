// Package prompt assembles the system prompt sent with every chat turn.
package prompt

import (
	"fmt"
	"strings"
)

// Config is the operator-supplied portion of the prompt.
type Config struct {
	SystemPrompt             string
	BusinessContext          string
	RestrictToBusinessTopics bool
	BrandingName             string
}

// Source is one piece of reference material, already extracted and capped.
type Source struct {
	Name    string
	Type    string
	Content string
}

// Build concatenates the non-empty fragments in a fixed order: operator
// instructions, business description, reference sources, then the
// guidance block. Sources keep their insertion order and are never
// re-truncated here. Build performs no I/O and cannot fail.
func Build(cfg Config, sources []Source) string {
	var b strings.Builder

	if cfg.SystemPrompt != "" {
		b.WriteString(cfg.SystemPrompt)
		b.WriteString("\n\n")
	}

	if cfg.BusinessContext != "" {
		fmt.Fprintf(&b, "## About the Business\n%s\n\n", cfg.BusinessContext)
	}

	hasContent := false
	for _, s := range sources {
		if s.Content != "" {
			hasContent = true
			break
		}
	}
	if hasContent {
		b.WriteString("## Reference Information\nUse the following sources to answer questions:\n\n")
		for _, s := range sources {
			if s.Content == "" {
				continue
			}
			fmt.Fprintf(&b, "### %s (%s)\n%s\n\n", s.Name, s.Type, s.Content)
		}
	}

	name := cfg.BrandingName
	if cfg.RestrictToBusinessTopics {
		if name == "" {
			name = "this business"
		}
		redirect := cfg.BrandingName
		if redirect == "" {
			redirect = "our business"
		}
		fmt.Fprintf(&b, `## Response Guidelines
- You are a helpful assistant for %s.
- Only answer questions that are relevant to the business, its products, services, or the information provided in the reference materials.
- If a user asks about something unrelated to the business or tries to use you for general purposes, politely redirect them. Say something like: "I'm here to help you with questions about %s. Is there something specific about our products or services I can help you with?"
- Be friendly, professional, and concise.
- If you don't have information to answer a question about the business, say so honestly and suggest they contact the business directly.
`, name, redirect)
	} else {
		if name == "" {
			name = "this business"
		}
		fmt.Fprintf(&b, `## Response Guidelines
- You are a helpful assistant for %s.
- Be friendly, professional, and concise.
- Prioritize information from the reference materials when answering questions about the business.
`, name)
	}

	return b.String()
}
