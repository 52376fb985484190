package ai

import (
	"context"
)

// Provider defines the interface for different AI models. The system treats
// generation as an opaque text-completion service: prompt in, text out.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Rewriter turns a Provider into the rewrite pipeline's generator boundary,
// composing the rewrite prompt around the selected text.
type Rewriter struct {
	Provider Provider
}

func (r *Rewriter) Rewrite(ctx context.Context, instruction, selected, sectionContext string) (string, error) {
	return r.Provider.Generate(ctx, RewritePrompt(instruction, selected, sectionContext))
}
