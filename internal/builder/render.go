// internal/builder/render.go
package builder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	"litnav/internal/nav"
	litutil "litnav/internal/util"
)

// Formats lists the names accepted by Render.
var Formats = []string{"yaml", "json", "markdown", "html"}

func newMarkdownRenderer(transformers ...util.PrioritizedValue) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithASTTransformers(transformers...)),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

var (
	markdownRenderer = newMarkdownRenderer()
	linkingRenderer  = newMarkdownRenderer(util.Prioritized(newMDLinkTransformer(), 100))
	htmlSanitizer    = bluemonday.UGCPolicy()
)

// Render writes n in the named format.
func Render(w io.Writer, n nav.Nav, format string, opts BuildOptions) error {
	var out []byte
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		out, err = YAML(n)
	case "json":
		out, err = JSON(n)
	case "markdown", "md":
		out = Markdown(n)
	case "html":
		out, err = HTML(n, opts)
	default:
		return fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// YAML renders n in the conventional nav format.
func YAML(n nav.Nav) ([]byte, error) {
	if len(n) == 0 {
		return []byte("[]\n"), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("failed to encode nav as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON renders n as an indented array of {title, target, children} objects.
func JSON(n nav.Nav) ([]byte, error) {
	if n == nil {
		n = nav.Nav{}
	}
	out, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode nav as JSON: %w", err)
	}
	return append(out, '\n'), nil
}

var (
	markdownTextEscaper = strings.NewReplacer(
		`\`, `\\`, "[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`, "`", "\\`", "<", `\<`,
	)
	markdownDestEscaper = strings.NewReplacer("<", `\<`, ">", `\>`)
)

// Markdown renders n as a nested Markdown list that reads back as a nav
// document. Bare pages use their target as the link text.
func Markdown(n nav.Nav) []byte {
	var buf bytes.Buffer
	writeMarkdown(&buf, n, 0)
	return buf.Bytes()
}

func writeMarkdown(buf *bytes.Buffer, n nav.Nav, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, e := range n {
		buf.WriteString(indent + "- ")
		if e.IsSection() {
			buf.WriteString(markdownTextEscaper.Replace(e.Title) + "\n")
			writeMarkdown(buf, e.Children, depth+1)
			continue
		}
		title := e.Title
		if !e.Titled {
			title = e.Target
		}
		fmt.Fprintf(buf, "[%s](%s)\n", markdownTextEscaper.Replace(title), markdownDestination(e.Target))
	}
}

func markdownDestination(target string) string {
	if strings.ContainsAny(target, " ()<>") {
		return "<" + markdownDestEscaper.Replace(target) + ">"
	}
	return target
}

// HTML renders n through Goldmark as a nested HTML list.
func HTML(n nav.Nav, opts BuildOptions) ([]byte, error) {
	md := markdownRenderer
	if opts.HTMLLinks {
		md = linkingRenderer
	}

	var htmlBuffer bytes.Buffer
	if err := md.Convert(Markdown(n), &htmlBuffer); err != nil {
		return nil, fmt.Errorf("failed to render nav with goldmark: %w", err)
	}

	if !opts.Unsafe {
		return htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes()), nil
	}
	return htmlBuffer.Bytes(), nil
}

const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  {{- if .BaseHref }}
  <base href="{{ .BaseHref }}">
  {{- end }}
</head>
<body>
  <nav>
{{ .Nav }}
  </nav>
  <footer>{{ .Pages }} pages</footer>
</body>
</html>
`

var pageTemplate = template.Must(template.New("main").Parse(pageLayout))

// RenderPage renders n as a standalone HTML page that will be served at
// relPath below the docs root, so nav links keep pointing at the docs.
func RenderPage(w io.Writer, title, relPath string, n nav.Nav, pages int, opts BuildOptions) error {
	body, err := HTML(n, opts)
	if err != nil {
		return err
	}
	data := PageData{
		Title:    title,
		BaseHref: litutil.ComputeBaseHref(relPath),
		Nav:      template.HTML(body),
		Pages:    pages,
	}
	return pageTemplate.ExecuteTemplate(w, "main", data)
}
