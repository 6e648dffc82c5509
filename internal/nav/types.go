// internal/nav/types.go

// Package nav turns Markdown nav documents, directly supplied nav trees and
// the docs file layout into one resolved navigation tree.
package nav

import (
	"strings"
)

// Nav is an ordered navigation tree.
type Nav []Entry

// Entry is either a page (Target set, Children nil) or a section (Children
// non-nil). Bare pages produced by wildcard expansion carry no title.
type Entry struct {
	Title    string `json:"title,omitempty"`
	Titled   bool   `json:"-"`
	Target   string `json:"target,omitempty"`
	Children Nav    `json:"children,omitempty"`
}

// Page returns a titled page entry.
func Page(title, target string) Entry {
	return Entry{Title: title, Titled: true, Target: target}
}

// BarePage returns a page entry without a title.
func BarePage(target string) Entry {
	return Entry{Target: target}
}

// Section returns a titled subtree.
func Section(title string, children Nav) Entry {
	if children == nil {
		children = Nav{}
	}
	return Entry{Title: title, Titled: true, Children: children}
}

// IsSection reports whether e holds a subtree.
func (e Entry) IsSection() bool {
	return e.Children != nil
}

// MarshalYAML writes the entry in the conventional nav format: a bare page
// is a plain string, a titled page maps its title to the target and a
// section maps its title to the list of children.
func (e Entry) MarshalYAML() (interface{}, error) {
	switch {
	case e.IsSection():
		return map[string]Nav{e.Title: e.Children}, nil
	case e.Titled:
		return map[string]string{e.Title: e.Target}, nil
	default:
		return e.Target, nil
	}
}

// Targets lists every page target of n in depth-first order.
func (n Nav) Targets() []string {
	var out []string
	for _, e := range n {
		if e.IsSection() {
			out = append(out, e.Children.Targets()...)
			continue
		}
		out = append(out, e.Target)
	}
	return out
}

// String renders n as an indented outline, mostly for logs and test
// failures.
func (n Nav) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n Nav) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range n {
		b.WriteString(indent)
		switch {
		case e.IsSection():
			b.WriteString(e.Title + ":\n")
			e.Children.write(b, depth+1)
			continue
		case e.Titled:
			b.WriteString(e.Title + ": " + e.Target)
		default:
			b.WriteString(e.Target)
		}
		b.WriteString("\n")
	}
}
