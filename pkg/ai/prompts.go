package ai

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/rewrite_prompt.md
var rewriteSystemPrompt string

//go:embed prompts/template_prompt.md
var templateSystemPrompt string

// RewritePrompt composes the full prompt for a selection rewrite. The
// surrounding section body is included as context but the model is told to
// output only the replacement for the selection.
func RewritePrompt(instruction, selected, sectionContext string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(rewriteSystemPrompt))
	b.WriteString("\n\n## Instruction\n\n")
	b.WriteString(instruction)
	if sectionContext != "" {
		b.WriteString("\n\n## Surrounding section (context only, do not output)\n\n")
		b.WriteString(sectionContext)
	}
	b.WriteString("\n\n## Selection to transform\n\n")
	b.WriteString(selected)
	return b.String()
}

// TemplatePrompt composes the prompt for drafting report sections from a
// free-form request plus mission details.
func TemplatePrompt(request, missionDetails string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(templateSystemPrompt))
	if missionDetails != "" {
		b.WriteString(fmt.Sprintf("\n\n## Mission details\n\n%s", missionDetails))
	}
	b.WriteString("\n\n## Request\n\n")
	b.WriteString(request)
	return b.String()
}
