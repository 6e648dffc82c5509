package filetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIndex() *Index {
	return New([]string{
		"index.md",
		"about.md",
		"posts/a.md",
		"posts/b.md",
		"posts/drafts/c.md",
		"guide/README.md",
		"guide/index.md",
		"guide/install.md",
	})
}

func TestIndex_IsDir(t *testing.T) {
	idx := sampleIndex()

	assert.True(t, idx.IsDir("."))
	assert.True(t, idx.IsDir(""))
	assert.True(t, idx.IsDir("posts"))
	assert.True(t, idx.IsDir("posts/"))
	assert.True(t, idx.IsDir("/posts/drafts"))
	assert.False(t, idx.IsDir("posts/a.md"))
	assert.False(t, idx.IsDir("missing"))
}

func TestIndex_IsFile(t *testing.T) {
	idx := sampleIndex()

	assert.True(t, idx.IsFile("posts/a.md"))
	assert.True(t, idx.IsFile("./posts/a.md"))
	assert.False(t, idx.IsFile("posts"))
}

func TestIndex_EmptyListingHasNoRoot(t *testing.T) {
	idx := New(nil)

	assert.False(t, idx.IsDir("."))
	assert.Empty(t, idx.Glob("*"))
}

func TestIndex_FindIndex(t *testing.T) {
	idx := sampleIndex()

	got, ok := idx.FindIndex(".")
	require.True(t, ok)
	assert.Equal(t, "index.md", got)

	got, ok = idx.FindIndex("guide")
	require.True(t, ok)
	assert.Equal(t, "guide/index.md", got, "index wins over README")

	_, ok = idx.FindIndex("posts")
	assert.False(t, ok)
}

func TestIndex_FindIndexFirstOfEqualPriority(t *testing.T) {
	idx := New([]string{"docs/index.markdown", "docs/index.md"})

	got, ok := idx.FindIndex("docs")
	require.True(t, ok)
	assert.Equal(t, "docs/index.markdown", got)
}

func TestIndex_FindIndexCustomNames(t *testing.T) {
	idx := New([]string{"a/home.md", "a/index.md"}, WithIndexNames("home"))

	got, ok := idx.FindIndex("a")
	require.True(t, ok)
	assert.Equal(t, "a/home.md", got)
}

func TestIndex_FindIndexIsCaseSensitive(t *testing.T) {
	idx := New([]string{"a/Index.md"})

	_, ok := idx.FindIndex("a")
	assert.False(t, ok)
}

func TestIndex_Glob(t *testing.T) {
	idx := sampleIndex()

	assert.Equal(t, []string{"posts/a.md", "posts/b.md", "posts/drafts"}, idx.Glob("posts/*"))
	assert.Equal(t, []string{"posts/a.md", "posts/b.md"}, idx.Glob("posts/*.md"))
	assert.Equal(t, []string{"index.md", "about.md", "posts", "guide"}, idx.Glob("*"))
	assert.Equal(t, []string{"posts/drafts/c.md"}, idx.Glob("*/*/*.md"))
	assert.Equal(t, []string{"posts/a.md"}, idx.Glob("posts/[a].md"))
	assert.Equal(t, []string{"posts/b.md"}, idx.Glob("posts/[!a].md"))
	assert.Equal(t, []string{"posts/a.md", "posts/b.md"}, idx.Glob("posts/?.md"))
	assert.Equal(t, []string{"guide/install.md"}, idx.Glob("guide/install.md"))
	assert.Equal(t, []string{"."}, idx.Glob("."))
	assert.Empty(t, idx.Glob("missing/*.md"))
}

func TestIndex_GlobDoesNotRecurse(t *testing.T) {
	idx := sampleIndex()

	assert.NotContains(t, idx.Glob("posts/*.md"), "posts/drafts/c.md")
	assert.Empty(t, idx.Glob("**/c.md"))
}

func TestIndex_GlobMalformedSegmentIsLiteral(t *testing.T) {
	idx := New([]string{"odd/[x.md"})

	assert.Equal(t, []string{"odd/[x.md"}, idx.Glob("odd/[x.md"))
}

func TestIndex_GlobBracesAreLiteral(t *testing.T) {
	idx := New([]string{"a.md", "b.md", "{a,b}.md", `back\slash.md`})

	assert.Equal(t, []string{"{a,b}.md"}, idx.Glob("{a,b}.md"))
	assert.Equal(t, []string{"{a,b}.md"}, idx.Glob("{*}.md"))
	assert.Equal(t, []string{`back\slash.md`}, idx.Glob(`back\*.md`))
	assert.Equal(t, []string{"a.md", "b.md"}, idx.Glob("[ab].md"))
}

func TestIndex_DuplicatesIgnored(t *testing.T) {
	idx := New([]string{"a.md", "./a.md", "/a.md"})

	assert.Equal(t, []string{"a.md"}, idx.Files())
	assert.Equal(t, []string{"."}, idx.Dirs())
}

func TestSortPaths(t *testing.T) {
	paths := []string{
		"z.md",
		"sub/b.md",
		"sub/index.md",
		"a.md",
		"README.md",
		"sub/deeper/x.md",
		"sub/a.md",
	}
	SortPaths(paths)

	assert.Equal(t, []string{
		"README.md",
		"a.md",
		"z.md",
		"sub/index.md",
		"sub/a.md",
		"sub/b.md",
		"sub/deeper/x.md",
	}, paths)
}
