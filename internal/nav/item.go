// internal/nav/item.go
package nav

import (
	"strings"

	"litnav/internal/util"
)

// value is the content of an unresolved nav item: a literal, a nested list
// or a wildcard.
type value interface {
	isValue()
}

// literal is a path within the docs tree or an external URL.
type literal struct {
	path     string
	external bool
}

type list []item

// Wildcard is a glob pattern waiting to be expanded against the file index.
// A directory wildcard (Dir) instead names one directory whose own
// navigation replaces it.
type Wildcard struct {
	Pattern     string
	Fallback    string
	HasFallback bool
	Dir         bool
}

func (literal) isValue()   {}
func (list) isValue()      {}
func (*Wildcard) isValue() {}

// item is one entry of the intermediate tree built from a nav document or a
// supplied tree, before wildcards are resolved.
type item struct {
	title  string
	titled bool
	value  value
}

// newWildcard anchors pattern at root. A trailing slash is kept so that the
// expansion only yields directories. The raw pattern is the fallback.
func newWildcard(root, pattern string, withFallback bool) *Wildcard {
	w := &Wildcard{Pattern: anchor(root, pattern)}
	if strings.HasSuffix(pattern, "/") {
		w.Pattern += "/"
	}
	if withFallback {
		w.Fallback = pattern
		w.HasFallback = true
	}
	return w
}

// newDirectoryWildcard refers to the directory link points at, relative to
// root. The raw link is the fallback.
func newDirectoryWildcard(root, link string) *Wildcard {
	return &Wildcard{
		Pattern:     anchor(root, link),
		Fallback:    link,
		HasFallback: true,
		Dir:         true,
	}
}

// glob returns the pattern to match and whether only directories qualify.
func (w *Wildcard) glob() (string, bool) {
	return strings.TrimSuffix(w.Pattern, "/"), strings.HasSuffix(w.Pattern, "/")
}

func anchor(root, p string) string {
	joined := util.JoinPosix(root, p)
	return util.JoinPosix("", strings.TrimLeft(joined, "/"))
}
