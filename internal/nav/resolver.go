// internal/nav/resolver.go
package nav

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"litnav/internal/markdown"
	"litnav/internal/util"
)

const rootDir = "."

// Document is a nav document found in a directory.
type Document struct {
	Name   string
	Source []byte
}

// ContentProvider supplies the nav document of a directory, if it has one.
type ContentProvider interface {
	NavDocument(dir string) (Document, bool, error)
}

// FileIndex answers questions about the docs file layout.
type FileIndex interface {
	IsDir(p string) bool
	Glob(pattern string) []string
	FindIndex(dir string) (string, bool)
}

// Resolver builds navigation trees for one docs tree.
type Resolver struct {
	provider      ContentProvider
	index         FileIndex
	implicitIndex bool
	markdown      markdown.Options
	logger        *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithImplicitIndex makes every directory's index page the first entry of
// its navigation.
func WithImplicitIndex(on bool) Option {
	return func(r *Resolver) { r.implicitIndex = on }
}

// WithMarkdownOptions sets the options nav documents are parsed with.
func WithMarkdownOptions(opts markdown.Options) Option {
	return func(r *Resolver) { r.markdown = opts }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Resolver reading nav documents from provider and the file
// layout from index.
func New(provider ContentProvider, index FileIndex, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		index:    index,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RootStack lists the directories whose navigation is being built, innermost
// first.
type RootStack []string

func (s RootStack) push(dir string) RootStack {
	return append(RootStack{dir}, s...)
}

func (s RootStack) contains(dir string) bool {
	for _, d := range s {
		if d == dir {
			return true
		}
	}
	return false
}

// chain renders the stack outermost first, ending with next.
func (s RootStack) chain(next string) string {
	parts := make([]string, 0, len(s)+1)
	for i := len(s) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("'%s'", s[i]))
	}
	parts = append(parts, fmt.Sprintf("'%s'", next))
	return strings.Join(parts, " -> ")
}

// resolution carries the state of one top-level call.
type resolution struct {
	seen   map[string]struct{}
	warned map[string]struct{}
}

func newResolution() *resolution {
	return &resolution{
		seen:   make(map[string]struct{}),
		warned: make(map[string]struct{}),
	}
}

func (res *resolution) markSeen(p string) {
	res.seen[p] = struct{}{}
}

func (res *resolution) isSeen(p string) bool {
	_, ok := res.seen[p]
	return ok
}

// ResolveMarkdown builds the navigation from the nav documents, starting at
// the docs root.
func (r *Resolver) ResolveMarkdown() (Nav, error) {
	return r.navForDir(newResolution(), RootStack{rootDir})
}

// ResolveTree resolves the wildcards and directory links of a supplied tree.
// A nil tree resolves to nil.
func (r *Resolver) ResolveTree(tree Tree) (Nav, error) {
	return r.resolveTree(newResolution(), tree)
}

// Resolve combines both sources: the nav documents win when no tree is
// supplied or the docs root has its own nav document. If that produces
// nothing, the tree is resolved instead. The result is never nil.
func (r *Resolver) Resolve(tree Tree) (Nav, error) {
	res := newResolution()
	var result Nav

	useMarkdown := len(tree) == 0
	if !useMarkdown {
		_, ok, err := r.provider.NavDocument(rootDir)
		if err != nil {
			return nil, fmt.Errorf("read nav document of %q: %w", rootDir, err)
		}
		useMarkdown = ok
	}
	if useMarkdown {
		var err error
		if result, err = r.navForDir(res, RootStack{rootDir}); err != nil {
			return nil, err
		}
	}
	if len(result) == 0 {
		var err error
		if result, err = r.resolveTree(res, tree); err != nil {
			return nil, err
		}
	}
	if result == nil {
		result = Nav{}
	}
	return result, nil
}

func (r *Resolver) resolveTree(res *resolution, tree Tree) (Nav, error) {
	if tree == nil {
		return nil, nil
	}
	items, err := r.normalize(res, tree)
	if err != nil {
		return nil, err
	}
	return r.resolveWildcards(res, items, RootStack{rootDir})
}

// navForDir builds the navigation of roots[0] from its nav document, or
// infers it from the directory listing.
func (r *Resolver) navForDir(res *resolution, roots RootStack) (Nav, error) {
	root := roots[0]
	doc, ok, err := r.provider.NavDocument(root)
	if err != nil {
		return nil, fmt.Errorf("read nav document of %q: %w", root, err)
	}

	var el *markdown.Element
	if ok {
		el = markdown.Extract(doc.Source, r.markdown)
	}
	if el == nil {
		r.logger.Debug("Navigation for directory will be inferred", zap.String("dir", root))
		return r.resolveWildcards(res, []item{{value: newWildcard(root, "*", false)}}, roots)
	}

	self := util.JoinPosix(root, doc.Name)
	index, hasIndex := r.index.FindIndex(root)
	if !(r.implicitIndex && hasIndex && self == index) {
		res.markSeen(self)
	}

	var first value
	if r.implicitIndex && hasIndex {
		first = newWildcard(root, "/"+index, false)
	}
	items, err := r.listToItems(res, el, root, first)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Navigation for directory based on nav document",
		zap.String("dir", root), zap.String("document", self))
	return r.resolveWildcards(res, items, roots)
}

// resolveWildcards replaces wildcards and directory links in items by what
// they refer to. Every literal path in items counts as seen beforehand, so a
// wildcard never repeats a page listed next to it.
func (r *Resolver) resolveWildcards(res *resolution, items []item, roots RootStack) (Nav, error) {
	for _, it := range items {
		if lit, ok := it.value.(literal); ok && !lit.external {
			res.markSeen(lit.path)
		}
	}

	var out Nav
	for _, it := range items {
		switch v := it.value.(type) {
		case literal:
			if it.titled {
				out = append(out, Page(it.title, v.path))
			} else {
				out = append(out, BarePage(v.path))
			}

		case list:
			sub, err := r.resolveWildcards(res, v, roots)
			if err != nil {
				return nil, err
			}
			if !it.titled {
				out = append(out, sub...)
			} else if len(sub) > 0 {
				out = append(out, Section(it.title, sub))
			}

		case *Wildcard:
			if v.Dir {
				title := it.title
				if !it.titled {
					title = util.DirnameToTitle(path.Base(v.Pattern))
				}
				entry, ok, err := r.resolveDirectory(res, v, title, roots)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, entry)
				}
				continue
			}

			sub, matched, err := r.expand(res, v, roots)
			if err != nil {
				return nil, err
			}
			switch {
			case !it.titled:
				out = append(out, sub...)
				if matched == 0 && v.HasFallback {
					out = append(out, BarePage(v.Fallback))
				}
			case len(sub) > 0:
				out = append(out, Section(it.title, sub))
			case v.HasFallback:
				out = append(out, Page(it.title, v.Fallback))
			}
		}
	}
	return out, nil
}

// resolveDirectory replaces a directory link by that directory's navigation.
// When the directory is already being resolved or yields nothing, the link
// stays as a page pointing at its raw target.
func (r *Resolver) resolveDirectory(res *resolution, w *Wildcard, title string, roots RootStack) (Entry, bool, error) {
	if roots.contains(w.Pattern) {
		r.warnRecursion(res, roots, w.Pattern)
	} else {
		sub, err := r.navForDir(res, roots.push(w.Pattern))
		if err != nil {
			return Entry{}, false, err
		}
		if len(sub) > 0 {
			return Section(title, sub), true, nil
		}
	}
	if w.HasFallback {
		return Page(title, w.Fallback), true, nil
	}
	return Entry{}, false, nil
}

// expand lists the unseen matches of w: files become bare pages and
// directories become sections holding their own navigation. It also returns
// the number of matches before filtering.
func (r *Resolver) expand(res *resolution, w *Wildcard, roots RootStack) (Nav, int, error) {
	pattern, dirsOnly := w.glob()
	matches := r.index.Glob(pattern)

	var out Nav
	for _, m := range matches {
		if res.isSeen(m) {
			continue
		}
		if r.index.IsDir(m) {
			if roots.contains(m) {
				r.warnRecursion(res, roots, m)
			} else {
				sub, err := r.navForDir(res, roots.push(m))
				if err != nil {
					return nil, 0, err
				}
				if len(sub) > 0 {
					out = append(out, Section(util.DirnameToTitle(path.Base(m)), sub))
				}
			}
		} else if !dirsOnly {
			out = append(out, BarePage(m))
		}
		res.markSeen(m)
	}

	if len(matches) == 0 {
		r.logger.Debug("Wildcard matched nothing", zap.String("pattern", w.Pattern))
	}
	return out, len(matches), nil
}

func (r *Resolver) warnRecursion(res *resolution, roots RootStack, dir string) {
	msg := "Disallowing recursion " + roots.chain(dir)
	if _, ok := res.warned[msg]; ok {
		return
	}
	res.warned[msg] = struct{}{}
	r.logger.Warn(msg)
}
