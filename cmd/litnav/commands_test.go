package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litnav/internal/config"
	"litnav/internal/nav"
	"litnav/internal/scaffold"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newSite(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "site")
	require.NoError(t, scaffold.CreateNewProject(root))
	return root
}

func TestResolveCommand_JSON(t *testing.T) {
	root := newSite(t)

	out, err := execute(t, "--config", filepath.Join(root, config.DefaultFile), "resolve", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"title": "Welcome", "target": "index.md"},
		{"title": "Guide", "children": [{"target": "guide/index.md"}, {"target": "guide/install.md"}]}
	]`, out)
}

func TestResolveCommand_OutputFile(t *testing.T) {
	root := newSite(t)
	target := filepath.Join(root, "nav.md")

	_, err := execute(t, "--config", filepath.Join(root, config.DefaultFile), "resolve", "-f", "markdown", "-o", target)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- [Welcome](index.md)\n")
}

func TestResolveCommand_ParseError(t *testing.T) {
	root := newSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "SUMMARY.md"), []byte("- Lonely\n"), 0644))

	_, err := execute(t, "--config", filepath.Join(root, config.DefaultFile), "resolve")
	var perr *nav.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "<li>Lonely</li>", perr.Item)
}

func TestResolveCommand_UnknownFormat(t *testing.T) {
	root := newSite(t)

	_, err := execute(t, "--config", filepath.Join(root, config.DefaultFile), "resolve", "-f", "toml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestResolveCommand_MissingExplicitConfig(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "resolve")
	assert.Error(t, err)
}

func TestPageCommand(t *testing.T) {
	root := newSite(t)
	cfgPath := filepath.Join(root, config.DefaultFile)

	_, err := execute(t, "--config", cfgPath, "new", "guide", "Upgrading")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "docs", "guide", "upgrading.md"))

	out, err := execute(t, "--config", cfgPath, "resolve", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "guide/upgrading.md")
}
