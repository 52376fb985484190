package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/missions-helper/pkg/templates"
)

func TestParseTools(t *testing.T) {
	content := "[nmap]\nnmap -sV -p- TARGET\n\n[ffuf]\nffuf -w wordlist -u URL/FUZZ\n"
	got := ParseTools(content)

	require.Len(t, got, 2)
	assert.Equal(t, "nmap -sV -p- TARGET", got["nmap"])
	assert.Equal(t, "ffuf -w wordlist -u URL/FUZZ", got["ffuf"])
}

func TestParseToolsEmpty(t *testing.T) {
	assert.Empty(t, ParseTools(""))
	assert.Empty(t, ParseTools("no brackets here"))
}

func TestLoadPrefersOverride(t *testing.T) {
	r := templates.NewResolver(t.TempDir(), t.TempDir())
	require.NoError(t, r.Scaffold())

	writeTools := func(root, content string) {
		path := filepath.Join(root, "tools", "tools.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	writeTools(r.BundledRoot, "[bundled-tool]\nx\n")
	writeTools(r.OverrideRoot, "[user-tool]\ny\n")

	got, err := Load(r)
	require.NoError(t, err)
	assert.Contains(t, got, "user-tool")
	assert.NotContains(t, got, "bundled-tool")
}

func TestLoadMissingFile(t *testing.T) {
	r := templates.NewResolver(t.TempDir(), "")
	require.NoError(t, r.Scaffold())

	got, err := Load(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
