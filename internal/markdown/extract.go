// internal/markdown/extract.go

// Package markdown locates the navigation list inside a Markdown document and
// exposes it as a small element tree.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Marker designates the list that follows it as the navigation list.
const Marker = "<!--nav-->"

// Extract parses source and returns the navigation list: the first top-level
// list after the last Marker, or the last top-level list when the document has
// no marker. It returns nil when no list qualifies.
func Extract(source []byte, opts Options) *Element {
	source = expandTabs(source, opts.TabLength)
	doc := newParser(opts).Parse(text.NewReader(source))

	var found ast.Node
	marked := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if isMarker(n, source) {
			marked = true
			found = nil
			continue
		}
		if n.Kind() != ast.KindList {
			continue
		}
		if !marked || found == nil {
			found = n
		}
	}
	if found == nil {
		return nil
	}
	return convertList(found.(*ast.List), source)
}

func isMarker(n ast.Node, source []byte) bool {
	block, ok := n.(*ast.HTMLBlock)
	if !ok {
		return false
	}
	var raw bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		raw.Write(seg.Value(source))
	}
	if block.HasClosure() {
		raw.Write(block.ClosureLine.Value(source))
	}
	return strings.TrimSpace(raw.String()) == Marker
}

func convertList(list *ast.List, source []byte) *Element {
	el := &Element{Tag: "ul"}
	if list.IsOrdered() {
		el.Tag = "ol"
	}
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		el.Children = append(el.Children, convertItem(c, source))
	}
	return el
}

func convertItem(item ast.Node, source []byte) *Element {
	el := &Element{Tag: "li"}
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.Kind() {
		case ast.KindTextBlock, ast.KindParagraph:
			if c == item.FirstChild() {
				convertInline(el, c, source)
				continue
			}
		case ast.KindList:
			// "- *" reads as an item holding an empty "*" list.
			if c == item.FirstChild() && isBareStar(c.(*ast.List)) {
				el.Text = "*"
				continue
			}
		}
		el.Children = append(el.Children, convertBlock(c, source))
	}
	return el
}

func isBareStar(list *ast.List) bool {
	return list.Marker == '*' && list.ChildCount() == 1 && list.FirstChild().ChildCount() == 0
}

func convertBlock(n ast.Node, source []byte) *Element {
	switch node := n.(type) {
	case *ast.List:
		return convertList(node, source)
	case *ast.ListItem:
		return convertItem(node, source)
	}

	el := &Element{Tag: blockTag(n)}
	switch {
	case n.IsRaw():
		var raw bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			raw.Write(seg.Value(source))
		}
		el.Text = raw.String()
	case n.FirstChild() != nil && n.FirstChild().Type() == ast.TypeInline:
		convertInline(el, n, source)
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			el.Children = append(el.Children, convertBlock(c, source))
		}
	}
	return el
}

func blockTag(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return "p"
	case *ast.Heading:
		return fmt.Sprintf("h%d", node.Level)
	case *ast.CodeBlock, *ast.FencedCodeBlock:
		return "pre"
	case *ast.Blockquote:
		return "blockquote"
	case *ast.ThematicBreak:
		return "hr"
	case *ast.HTMLBlock:
		return "div"
	}
	return strings.ToLower(n.Kind().String())
}

// convertInline appends the inline children of n to parent. Text goes to
// parent.Text until the first child element, then to the tail of the most
// recent child.
func convertInline(parent *Element, n ast.Node, source []byte) {
	appendText := func(s string) {
		if len(parent.Children) == 0 {
			parent.Text += s
			return
		}
		last := parent.Children[len(parent.Children)-1]
		last.Tail += s
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text, *ast.String, *ast.RawHTML:
			appendText(plainText(node, source))
		case *ast.Link:
			parent.Children = append(parent.Children, &Element{
				Tag:  "a",
				Href: decode(node.Destination),
				Text: plainText(node, source),
			})
		case *ast.AutoLink:
			parent.Children = append(parent.Children, &Element{
				Tag:  "a",
				Href: string(node.URL(source)),
				Text: string(node.Label(source)),
			})
		case *ast.Image:
			parent.Children = append(parent.Children, &Element{
				Tag:  "img",
				Href: decode(node.Destination),
				Text: plainText(node, source),
			})
		case *ast.CodeSpan:
			parent.Children = append(parent.Children, &Element{Tag: "code", Text: plainText(node, source)})
		default:
			child := &Element{Tag: inlineTag(c)}
			convertInline(child, c, source)
			parent.Children = append(parent.Children, child)
		}
	}
}

func inlineTag(n ast.Node) string {
	if em, ok := n.(*ast.Emphasis); ok {
		if em.Level == 2 {
			return "strong"
		}
		return "em"
	}
	if n.Kind().String() == "Strikethrough" {
		return "del"
	}
	return strings.ToLower(n.Kind().String())
}

// plainText concatenates the text below n, with escapes and character
// references resolved outside of code spans.
func plainText(n ast.Node, source []byte) string {
	switch node := n.(type) {
	case *ast.Text:
		value := node.Segment.Value(source)
		s := string(value)
		if !node.IsRaw() {
			s = decode(value)
		}
		if node.SoftLineBreak() || node.HardLineBreak() {
			s += "\n"
		}
		return s
	case *ast.String:
		return string(node.Value)
	case *ast.RawHTML:
		var raw bytes.Buffer
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			raw.Write(seg.Value(source))
		}
		return raw.String()
	case *ast.AutoLink:
		return string(node.Label(source))
	}

	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(plainText(c, source))
	}
	return b.String()
}

func decode(value []byte) string {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return string(value)
}
