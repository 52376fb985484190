package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewritePromptContainsParts(t *testing.T) {
	p := RewritePrompt("make it formal", "the selected bit", "the whole section")
	assert.Contains(t, p, "make it formal")
	assert.Contains(t, p, "the selected bit")
	assert.Contains(t, p, "the whole section")
	assert.Contains(t, p, "ONLY the provided selection")
}

func TestRewritePromptNoContext(t *testing.T) {
	p := RewritePrompt("shorten", "some text", "")
	assert.NotContains(t, p, "Surrounding section")
}

type echoProvider struct {
	prompt string
}

func (e *echoProvider) Generate(ctx context.Context, prompt string) (string, error) {
	e.prompt = prompt
	return "rewritten", nil
}

func (e *echoProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestRewriterComposesPrompt(t *testing.T) {
	ep := &echoProvider{}
	r := &Rewriter{Provider: ep}
	out, err := r.Rewrite(context.Background(), "fix grammar", "teh text", "section body")
	require.NoError(t, err)
	assert.Equal(t, "rewritten", out)
	assert.Contains(t, ep.prompt, "fix grammar")
	assert.Contains(t, ep.prompt, "teh text")
}

func TestFactoryUnknownProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), "nope", "key", "")
	assert.Error(t, err)
}
