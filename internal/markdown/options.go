// internal/markdown/options.go
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultTabLength is the tab stop CommonMark assumes.
const DefaultTabLength = 4

// Options are the Markdown settings a nav document is parsed with.
type Options struct {
	Extensions []string `yaml:"extensions"`
	TabLength  int      `yaml:"tab_length"`
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// newParser builds a goldmark parser for opts. Unknown extension names are
// ignored.
func newParser(opts Options) parser.Parser {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range opts.Extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return goldmark.New(goldmark.WithExtensions(extenders...)).Parser()
}

// expandTabs rewrites the leading whitespace of every line using tab stops
// of the given width. CommonMark fixes tab stops at 4, so other widths are
// applied before parsing.
func expandTabs(source []byte, width int) []byte {
	if width <= 0 || width == DefaultTabLength || !bytes.Contains(source, []byte("\t")) {
		return source
	}

	var out bytes.Buffer
	out.Grow(len(source))
	for _, line := range bytes.SplitAfter(source, []byte("\n")) {
		col, i := 0, 0
	indent:
		for ; i < len(line); i++ {
			switch line[i] {
			case ' ':
				col++
			case '\t':
				col += width - col%width
			default:
				break indent
			}
		}
		out.WriteString(strings.Repeat(" ", col))
		out.Write(line[i:])
	}
	return out.Bytes()
}
