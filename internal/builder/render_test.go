package builder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"litnav/internal/nav"
)

func sampleNav() nav.Nav {
	return nav.Nav{
		nav.Page("Home", "index.md"),
		nav.Page("Ext", "https://example.com/x.md"),
		nav.Section("Guide", nav.Nav{
			nav.Page("Install", "guide/install.md#top"),
			nav.BarePage("guide/README.md"),
		}),
	}
}

func TestMarkdown(t *testing.T) {
	n := nav.Nav{
		nav.Page("Home", "index.md"),
		nav.BarePage("a b.md"),
		nav.Section("Guide_1", nav.Nav{nav.Page("[x]", "g/x.md")}),
	}

	assert.Equal(t,
		"- [Home](index.md)\n- [a b.md](<a b.md>)\n- Guide\\_1\n    - [\\[x\\]](g/x.md)\n",
		string(Markdown(n)))
}

func TestYAML(t *testing.T) {
	out, err := YAML(sampleNav())
	require.NoError(t, err)

	var back nav.Tree
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, nav.Tree{
		{Title: "Home", Titled: true, Target: "index.md"},
		{Title: "Ext", Titled: true, Target: "https://example.com/x.md"},
		{Title: "Guide", Titled: true, Children: nav.Tree{
			{Title: "Install", Titled: true, Target: "guide/install.md#top"},
			{Target: "guide/README.md"},
		}},
	}, back)

	empty, err := YAML(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestJSON(t *testing.T) {
	out, err := JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))

	out, err = JSON(nav.Nav{nav.BarePage("a.md")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"target":"a.md"}]`, string(out))
}

func TestHTML_Links(t *testing.T) {
	plain, err := HTML(sampleNav(), BuildOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(plain), `href="index.md"`)
	assert.Contains(t, string(plain), "<li>Guide")

	linked, err := HTML(sampleNav(), BuildOptions{HTMLLinks: true})
	require.NoError(t, err)
	assert.Contains(t, string(linked), `href="index.html"`)
	assert.Contains(t, string(linked), `href="guide/install.html#top"`)
	assert.Contains(t, string(linked), `href="https://example.com/x.md"`)
}

func TestHTML_Sanitized(t *testing.T) {
	n := nav.Nav{nav.Page("Click", "javascript:alert(1)")}

	safe, err := HTML(n, BuildOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(safe), "javascript:")
	assert.Contains(t, string(safe), "Click")

	unsafe, err := HTML(n, BuildOptions{Unsafe: true})
	require.NoError(t, err)
	assert.Contains(t, string(unsafe), "javascript:")
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleNav(), "toml", BuildOptions{})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestRender_Formats(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, sampleNav(), format, BuildOptions{}))
			assert.Contains(t, buf.String(), "index.md")
		})
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, "Docs", "_nav/index.html", sampleNav(), 3, BuildOptions{}))

	page := buf.String()
	assert.Contains(t, page, "<title>Docs</title>")
	assert.Contains(t, page, `<base href="../">`)
	assert.Contains(t, page, `href="index.md"`)
	assert.Contains(t, page, "3 pages")
}

func TestHTMLDestination(t *testing.T) {
	cases := map[string]string{
		"a.md":           "a.html",
		"guide/a.md#top": "guide/a.html#top",
		"https://x/a.md": "https://x/a.md",
		"a.txt":          "a.txt",
		"guide/":         "guide/",
	}
	for in, want := range cases {
		assert.Equal(t, want, string(htmlDestination([]byte(in))), in)
	}
}
