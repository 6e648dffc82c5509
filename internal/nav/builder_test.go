package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseError(t *testing.T, source string) *ParseError {
	t.Helper()
	r, _ := newTestResolver(t, []string{"SUMMARY.md", "a.md", "b.md"}, docs(".", source))

	_, err := r.ResolveMarkdown()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	return perr
}

func TestListItem_TwoLinks(t *testing.T) {
	perr := parseError(t, "- [A](a.md) [B](b.md)\n")

	assert.Equal(t, "Expected no more elements, but got <a href=\"b.md\">B</a>.\n", perr.Reason)
	assert.Equal(t, `<li><a href="a.md">A</a> <a href="b.md">B</a></li>`, perr.Item)
}

func TestListItem_TextAfterLink(t *testing.T) {
	perr := parseError(t, "- [A](a.md) and more\n")

	assert.Equal(t, `Expected no text after <a href="a.md">A</a>, but got "and more".`, perr.Reason)
}

func TestListItem_MissingTitle(t *testing.T) {
	// An empty marker line ends the item; the indented list is its sibling.
	perr := parseError(t, "-\n  - [A](a.md)\n")

	assert.Equal(t, "Did not find any title specified."+examples, perr.Reason)
	assert.Equal(t, "<li />", perr.Item)
}

func TestListItem_MissingContent(t *testing.T) {
	perr := parseError(t, "- [A](a.md)\n- Section\n")

	assert.Equal(t, "Did not find any item/section content specified."+examples, perr.Reason)
	assert.Equal(t,
		"Did not find any item/section content specified."+examples+
			"\nThe problematic item:\n\n<li>Section</li>",
		perr.Error())
}

func TestListItem_ExtraBlockAfterSublist(t *testing.T) {
	perr := parseError(t, "- Section\n\n    - [A](a.md)\n\n    Trailing prose.\n")

	assert.Contains(t, perr.Reason, "Expected no more elements, but got <p>Trailing prose.</p>.")
	assert.NotContains(t, perr.Reason, "Did not find")
}

func TestListItem_EmptyHrefIsIgnored(t *testing.T) {
	perr := parseError(t, "- [A]()\n")

	assert.Contains(t, perr.Reason, "Did not find any title specified.")
}

func TestListItem_EscapedWildcard(t *testing.T) {
	r, _ := newTestResolver(t, []string{"SUMMARY.md", "a.md", "b.md"},
		docs(".", "- [A](a.md)\n- \\*.md\n"))

	got, err := r.ResolveMarkdown()
	require.NoError(t, err)
	requireNav(t, Nav{Page("A", "a.md"), BarePage("b.md")}, got)
}
