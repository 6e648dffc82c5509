// internal/filetree/filetree.go

// Package filetree indexes a flat listing of documentation files so that the
// nav resolver can ask about directories, index documents and glob matches
// without touching the filesystem.
package filetree

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Root is the path of the docs root directory.
const Root = "."

// DefaultIndexNames are the base names (without extension) recognised as a
// directory's index document, highest priority first.
var DefaultIndexNames = []string{"index", "README"}

// Index is an immutable view over a set of documentation file paths.
type Index struct {
	files      []string
	fileSet    map[string]struct{}
	dirs       []string
	dirSet     map[string]struct{}
	indexes    map[string]indexEntry
	indexNames []string
}

type indexEntry struct {
	path     string
	priority int
}

// Option configures an Index.
type Option func(*Index)

// WithIndexNames overrides the names recognised as index documents.
func WithIndexNames(names ...string) Option {
	return func(idx *Index) {
		idx.indexNames = append([]string(nil), names...)
	}
}

// New builds an index from posix paths relative to the docs root. Input
// order is kept; it decides glob result order and index tie-breaks.
func New(paths []string, opts ...Option) *Index {
	idx := &Index{
		fileSet:    make(map[string]struct{}, len(paths)),
		dirSet:     make(map[string]struct{}),
		indexes:    make(map[string]indexEntry),
		indexNames: DefaultIndexNames,
	}
	for _, opt := range opts {
		opt(idx)
	}

	for _, p := range paths {
		p = Clean(p)
		if p == Root {
			continue
		}
		if _, ok := idx.fileSet[p]; ok {
			continue
		}
		idx.fileSet[p] = struct{}{}
		idx.files = append(idx.files, p)

		dir := path.Dir(p)
		if priority, ok := idx.indexPriority(path.Base(p)); ok {
			current, exists := idx.indexes[dir]
			if !exists || priority < current.priority {
				idx.indexes[dir] = indexEntry{path: p, priority: priority}
			}
		}
		for {
			if _, ok := idx.dirSet[dir]; !ok {
				idx.dirSet[dir] = struct{}{}
				idx.dirs = append(idx.dirs, dir)
			}
			if dir == Root {
				break
			}
			dir = path.Dir(dir)
		}
	}
	return idx
}

// Clean normalises p into the form used as index keys: posix, cleaned, no
// leading slash, "." for the root.
func Clean(p string) string {
	return path.Clean(strings.TrimLeft(p, "/"))
}

func (idx *Index) indexPriority(base string) (int, bool) {
	stem := strings.TrimSuffix(base, path.Ext(base))
	for i, name := range idx.indexNames {
		if stem == name {
			return i, true
		}
	}
	return 0, false
}

// IsFile reports whether p is an indexed file.
func (idx *Index) IsFile(p string) bool {
	_, ok := idx.fileSet[Clean(p)]
	return ok
}

// IsDir reports whether p is the root or an ancestor of an indexed file.
func (idx *Index) IsDir(p string) bool {
	_, ok := idx.dirSet[Clean(p)]
	return ok
}

// FindIndex returns the index document of dir, if it has one.
func (idx *Index) FindIndex(dir string) (string, bool) {
	entry, ok := idx.indexes[Clean(dir)]
	return entry.path, ok
}

// Files returns the indexed files in insertion order.
func (idx *Index) Files() []string {
	return append([]string(nil), idx.files...)
}

// Dirs returns the known directories in discovery order.
func (idx *Index) Dirs() []string {
	return append([]string(nil), idx.dirs...)
}

// Glob matches pattern against the indexed files, then the directories.
// Each "/" separated segment is matched on its own, so "*" never crosses a
// directory boundary and the number of segments must be equal.
func (idx *Index) Glob(pattern string) []string {
	matchers := compileSegments(splitSegments(Clean(pattern)))

	var matches []string
	for _, collection := range [][]string{idx.files, idx.dirs} {
		for _, p := range collection {
			if segmentsMatch(splitSegments(p), matchers) {
				matches = append(matches, p)
			}
		}
	}
	return matches
}

func splitSegments(p string) []string {
	if p == Root {
		return nil
	}
	return strings.Split(p, "/")
}

type segmentMatcher func(string) bool

func compileSegments(segments []string) []segmentMatcher {
	matchers := make([]segmentMatcher, len(segments))
	for i, segment := range segments {
		g, err := glob.Compile(escapeSegment(segment))
		if err != nil {
			literal := segment
			matchers[i] = func(s string) bool { return s == literal }
			continue
		}
		matchers[i] = g.Match
	}
	return matchers
}

// escapeSegment quotes braces and backslashes outside character classes.
// Only shell wildcards (*, ? and [...]) are special in a pattern.
func escapeSegment(segment string) string {
	if !strings.ContainsAny(segment, `{}\`) {
		return segment
	}
	var b strings.Builder
	inClass := false
	for _, r := range segment {
		switch {
		case inClass:
			inClass = r != ']'
		case r == '[':
			inClass = true
		case r == '{' || r == '}' || r == '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func segmentsMatch(segments []string, matchers []segmentMatcher) bool {
	if len(segments) != len(matchers) {
		return false
	}
	for i, match := range matchers {
		if !match(segments[i]) {
			return false
		}
	}
	return true
}
