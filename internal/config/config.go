// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"litnav/internal/filetree"
	"litnav/internal/markdown"
	"litnav/internal/nav"
)

// DefaultFile is the config file looked up in the project root.
const DefaultFile = "litnav.yaml"

// Config holds the configuration from the litnav.yaml file.
type Config struct {
	DocsDir       string           `yaml:"docs_dir"`
	NavFile       string           `yaml:"nav_file"`
	ImplicitIndex bool             `yaml:"implicit_index"`
	IndexNames    []string         `yaml:"index_names"`
	DocExtensions []string         `yaml:"doc_extensions"`
	Markdown      markdown.Options `yaml:"markdown"`
	Nav           nav.Tree         `yaml:"nav"`
}

var (
	ErrNoDocsDir    = errors.New("config: docs_dir must not be empty")
	ErrBadNavFile   = errors.New("config: nav_file must be a plain file name")
	ErrBadExtension = errors.New("config: doc_extensions entries must start with a dot")
	ErrBadTabLength = errors.New("config: markdown.tab_length must not be negative")
	ErrNoIndexNames = errors.New("config: index_names must not be empty")
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DocsDir:       "docs",
		NavFile:       "SUMMARY.md",
		IndexNames:    append([]string(nil), filetree.DefaultIndexNames...),
		DocExtensions: []string{".md", ".markdown"},
		Markdown:      markdown.Options{TabLength: markdown.DefaultTabLength},
	}
}

// Load reads path on top of the defaults. A missing file is reported with an
// error wrapping fs.ErrNotExist so callers can fall back to Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a Load or a caller produced.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return ErrNoDocsDir
	}
	if c.NavFile == "" || strings.ContainsAny(c.NavFile, `/\`) {
		return fmt.Errorf("%w: %q", ErrBadNavFile, c.NavFile)
	}
	if len(c.IndexNames) == 0 {
		return ErrNoIndexNames
	}
	for _, ext := range c.DocExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: %q", ErrBadExtension, ext)
		}
	}
	if c.Markdown.TabLength < 0 {
		return ErrBadTabLength
	}
	return nil
}
