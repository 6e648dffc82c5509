// internal/builder/goldmark_extensions.go
package builder

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"litnav/internal/util"
)

// mdLinkTransformer rewrites links to Markdown pages so they point at the
// HTML pages a site generator produces from them.
type mdLinkTransformer struct {
}

func newMDLinkTransformer() parser.ASTTransformer {
	return &mdLinkTransformer{}
}

// Transform walks the AST and rewrites every local link ending in .md,
// keeping any #fragment.
func (t *mdLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		link.Destination = htmlDestination(link.Destination)
		return ast.WalkContinue, nil
	})
}

func htmlDestination(dest []byte) []byte {
	if util.IsExternalURL(string(dest)) {
		return dest
	}
	target, fragment := dest, []byte(nil)
	if i := bytes.IndexByte(dest, '#'); i >= 0 {
		target, fragment = dest[:i], dest[i:]
	}
	if !bytes.HasSuffix(target, []byte(".md")) {
		return dest
	}

	// Copy so the source buffer is left alone.
	out := make([]byte, 0, len(dest)+2)
	out = append(out, bytes.TrimSuffix(target, []byte(".md"))...)
	out = append(out, ".html"...)
	return append(out, fragment...)
}
