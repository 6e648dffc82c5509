// internal/builder/builder.go
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"litnav/internal/config"
	"litnav/internal/filetree"
	"litnav/internal/nav"
)

// BuildOptions control how a resolved nav is rendered to HTML.
type BuildOptions struct {
	Unsafe    bool // Skip HTML sanitization
	HTMLLinks bool // Point .md links at the generated .html pages
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Only YAML front matter is recognised on nav documents.
var navFrontMatter = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
}

// Scan walks the docs tree and returns the documentation pages it holds,
// ordered index first, then files, then subdirectories. Hidden files and
// directories are skipped.
func Scan(fsys fs.FS, exts []string, indexNames []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = true
	}

	var pages []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if len(allowed) > 0 && !allowed[strings.ToLower(path.Ext(p))] {
			return nil
		}
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan docs: %w", err)
	}

	filetree.SortPaths(pages, indexNames...)
	return pages, nil
}

// Provider reads nav documents named NavFile out of FS.
type Provider struct {
	FS      fs.FS
	NavFile string
	Logger  *zap.Logger
}

// NavDocument implements nav.ContentProvider. A missing nav document is not
// an error. The byte order mark and any YAML front matter are removed.
// Front matter that fails to decode is left in place.
func (p *Provider) NavDocument(dir string) (nav.Document, bool, error) {
	name := path.Join(dir, p.NavFile)
	data, err := fs.ReadFile(p.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nav.Document{}, false, nil
	}
	if err != nil {
		return nav.Document{}, false, fmt.Errorf("failed to read nav document %s: %w", name, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nav.Document{}, false, fmt.Errorf("nav document is not valid UTF-8: %s", name)
	}

	// A list between two thematic breaks looks like front matter too; if it
	// does not decode, the document is used as it is.
	var meta NavMeta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta, navFrontMatter...)
	if err != nil {
		p.logger().Debug("Nav document has no usable front matter", zap.String("path", name), zap.Error(err))
		meta, body = NavMeta{}, data
	}

	p.logger().Debug("Read nav document", zap.String("path", name), zap.String("title", meta.Title))
	return nav.Document{Name: p.NavFile, Source: body}, true, nil
}

func (p *Provider) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// Build scans fsys, which is rooted at the docs directory, and resolves its
// navigation according to cfg. It also returns the number of pages found.
func Build(fsys fs.FS, cfg config.Config, logger *zap.Logger) (nav.Nav, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pages, err := Scan(fsys, cfg.DocExtensions, cfg.IndexNames)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("Scanned docs", zap.Int("pages", len(pages)))

	index := filetree.New(pages, filetree.WithIndexNames(cfg.IndexNames...))
	provider := &Provider{FS: fsys, NavFile: cfg.NavFile, Logger: logger}
	resolver := nav.New(provider, index,
		nav.WithImplicitIndex(cfg.ImplicitIndex),
		nav.WithMarkdownOptions(cfg.Markdown),
		nav.WithLogger(logger),
	)

	result, err := resolver.Resolve(cfg.Nav)
	if err != nil {
		return nil, 0, err
	}
	return result, len(pages), nil
}
