// internal/markdown/element.go
package markdown

import (
	"strings"
)

// Element is a simplified block or inline element of a parsed Markdown
// document. Text is the text before the first child, Tail the text that
// follows the element inside its parent.
type Element struct {
	Tag      string
	Text     string
	Tail     string
	Href     string
	Children []*Element
}

// IsList reports whether e is an ordered or unordered list.
func (e *Element) IsList() bool {
	return e != nil && (e.Tag == "ul" || e.Tag == "ol")
}

// String renders e and everything below it as HTML-like markup.
func (e *Element) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

// ShortString renders e with its grandchildren collapsed into "[...]" and
// without its tail, which keeps error messages readable.
func (e *Element) ShortString() string {
	short := &Element{Tag: e.Tag, Text: e.Text, Href: e.Href}
	for _, child := range e.Children {
		c := &Element{Tag: child.Tag, Text: child.Text, Tail: child.Tail, Href: child.Href}
		if len(child.Children) > 0 {
			c.Text = "[...]"
		}
		short.Children = append(short.Children, c)
	}
	return short.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func (e *Element) write(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.Tag)
	if e.Href != "" {
		attr := "href"
		if e.Tag == "img" {
			attr = "src"
		}
		b.WriteString(" " + attr + `="`)
		b.WriteString(attrEscaper.Replace(e.Href))
		b.WriteString(`"`)
	}
	if e.Text == "" && len(e.Children) == 0 {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
		b.WriteString(textEscaper.Replace(e.Text))
		for _, child := range e.Children {
			child.write(b)
		}
		b.WriteString("</" + e.Tag + ">")
	}
	b.WriteString(textEscaper.Replace(e.Tail))
}
