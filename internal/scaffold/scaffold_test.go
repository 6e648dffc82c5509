package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litnav/internal/builder"
	"litnav/internal/config"
	"litnav/internal/markdown"
	"litnav/internal/nav"
)

func newProject(t *testing.T) (string, config.Config) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "site")
	require.NoError(t, CreateNewProject(root))

	cfg, err := config.Load(filepath.Join(root, config.DefaultFile))
	require.NoError(t, err)
	return root, cfg
}

func buildProject(t *testing.T, root string, cfg config.Config) nav.Nav {
	t.Helper()
	n, _, err := builder.Build(os.DirFS(filepath.Join(root, cfg.DocsDir)), cfg, nil)
	require.NoError(t, err)
	return n
}

func TestCreateNewProject(t *testing.T) {
	root, cfg := newProject(t)

	assert.Equal(t, nav.Nav{
		nav.Page("Welcome", "index.md"),
		nav.Section("Guide", nav.Nav{
			nav.BarePage("guide/index.md"),
			nav.BarePage("guide/install.md"),
		}),
	}, buildProject(t, root, cfg))
}

func TestCreateNewPage_LinksFromNavDocument(t *testing.T) {
	root, cfg := newProject(t)

	path, err := CreateNewPage(root, cfg, ".", "Getting Started!")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docs", "getting-started.md"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Getting Started!")

	n := buildProject(t, root, cfg)
	require.Len(t, n, 3)
	assert.Equal(t, nav.Page("Getting Started!", "getting-started.md"), n[2])

	_, err = CreateNewPage(root, cfg, ".", "Getting started")
	assert.Error(t, err, "page already exists")
}

func TestCreateNewPage_WithoutNavDocument(t *testing.T) {
	root, cfg := newProject(t)

	path, err := CreateNewPage(root, cfg, "guide", "Upgrade")
	require.NoError(t, err)
	assert.FileExists(t, path)

	n := buildProject(t, root, cfg)
	assert.Equal(t, nav.Section("Guide", nav.Nav{
		nav.BarePage("guide/index.md"),
		nav.BarePage("guide/install.md"),
		nav.BarePage("guide/upgrade.md"),
	}), n[1])
}

func TestCreateNewPage_KeepsProseAfterList(t *testing.T) {
	root, cfg := newProject(t)
	navPath := filepath.Join(root, "docs", "guide", "SUMMARY.md")
	require.NoError(t, os.WriteFile(navPath, []byte("# Guide\n\n* [Install](install.md)\n\nSee also the FAQ.\n"), 0644))

	_, err := CreateNewPage(root, cfg, "guide", "Upgrade")
	require.NoError(t, err)

	content, err := os.ReadFile(navPath)
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n\n* [Install](install.md)\n* [Upgrade](upgrade.md)\n\nSee also the FAQ.\n", string(content))

	n := buildProject(t, root, cfg)
	assert.Equal(t, nav.Section("Guide", nav.Nav{
		nav.Page("Install", "guide/install.md"),
		nav.Page("Upgrade", "guide/upgrade.md"),
	}), n[1])
}

func TestCreateNewPage_NavDocumentWithoutList(t *testing.T) {
	root, cfg := newProject(t)
	navPath := filepath.Join(root, "docs", "guide", "SUMMARY.md")
	original := "# Guide\n\nNothing listed yet.\n"
	require.NoError(t, os.WriteFile(navPath, []byte(original), 0644))

	_, err := CreateNewPage(root, cfg, "guide", "Upgrade")
	require.NoError(t, err)

	content, err := os.ReadFile(navPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(content))
	assert.Contains(t, buildProject(t, root, cfg).Targets(), "guide/upgrade.md")
}

func TestInsertNavLink_OrderedListAndNestedItems(t *testing.T) {
	source := "1. [A](a.md)\n2. Section\n    - [B](b.md)\n"

	out, ok := insertNavLink([]byte(source), "C [x]", "c.md", markdown.Options{})
	require.True(t, ok)
	assert.Equal(t, source+"1. [C \\[x\\]](c.md)\n", string(out))
}

func TestCreateNewPage_EmptySlug(t *testing.T) {
	root, cfg := newProject(t)

	_, err := CreateNewPage(root, cfg, ".", "!!!")
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"  Leading  spaces ": "leading-spaces",
		"C++ & Go":           "c-go",
		"Ünïcode Título":     "ünïcode-título",
		"v1.2":               "v1-2",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
