// internal/nav/builder.go
package nav

import (
	"fmt"
	"strings"

	"litnav/internal/markdown"
	"litnav/internal/util"
)

// listToItems converts the nav list el of the document in root into
// unresolved items. first, when set, becomes the leading bare item.
func (r *Resolver) listToItems(res *resolution, el *markdown.Element, root string, first value) ([]item, error) {
	var items []item
	if first != nil {
		if lit, ok := first.(literal); ok && !lit.external {
			res.markSeen(lit.path)
		}
		items = append(items, item{value: first})
	}
	for _, li := range el.Children {
		it, err := r.listItem(res, li, root)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

// children walks the child elements of a list item, rejecting any non-blank
// text that trails a consumed child.
type children struct {
	li  *markdown.Element
	pos int
}

func (c *children) next() (*markdown.Element, error) {
	if c.pos > 0 {
		prev := c.li.Children[c.pos-1]
		if tail := strings.TrimSpace(prev.Tail); tail != "" {
			return nil, tailError(prev, c.li, tail)
		}
	}
	if c.pos >= len(c.li.Children) {
		return nil, nil
	}
	child := c.li.Children[c.pos]
	c.pos++
	return child, nil
}

func (r *Resolver) listItem(res *resolution, li *markdown.Element, root string) (item, error) {
	title := strings.TrimSpace(li.Text)
	titled := title != ""
	var val value

	it := &children{li: li}
	child, err := it.next()
	if err != nil {
		return item{}, err
	}
	if child != nil && !titled && child.Tag == "a" {
		if child.Href != "" {
			val = r.resolveLink(res, root, child.Href)
			title, titled = child.Text, true
		}
		if child, err = it.next(); err != nil {
			return item{}, err
		}
	}
	if child.IsList() {
		first := val
		if w, ok := val.(*Wildcard); ok && w.Dir {
			first = nil
		}
		sub, err := r.listToItems(res, child, root, first)
		if err != nil {
			return item{}, err
		}
		val = list(sub)
		if child, err = it.next(); err != nil {
			return item{}, err
		}
	}

	var reason string
	if child != nil {
		reason = fmt.Sprintf("Expected no more elements, but got %s.\n", child.ShortString())
	}
	switch {
	case !titled:
		reason += "Did not find any title specified." + examples
	case val == nil && strings.Contains(title, "*"):
		val = newWildcard(root, title, true)
		title, titled = "", false
	case val == nil:
		reason += "Did not find any item/section content specified." + examples
	}
	if reason != "" {
		return item{}, newParseError(reason, li)
	}
	return item{title: title, titled: titled, value: val}, nil
}

// resolveLink interprets a link target found in the document in root. Local
// targets are marked as seen. A trailing slash on an existing directory
// yields a directory wildcard.
func (r *Resolver) resolveLink(res *resolution, root, link string) value {
	if util.IsExternalURL(link) {
		return literal{path: link, external: true}
	}
	abs := util.JoinPosix(root, link)
	res.markSeen(abs)
	if strings.HasSuffix(link, "/") && r.index.IsDir(abs) {
		return newDirectoryWildcard(root, link)
	}
	return literal{path: abs}
}
