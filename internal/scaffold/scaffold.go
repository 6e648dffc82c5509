// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"litnav/internal/config"
	"litnav/internal/markdown"
)

// CreateNewProject lays out a docs project with a config file, a root nav
// document and one sample section.
func CreateNewProject(name string) error {
	fmt.Println("Scaffolding new docs project in:", name)
	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(name, path), 0755) }
	writeFile := func(path, content string) error {
		return os.WriteFile(filepath.Join(name, path), []byte(content), 0644)
	}
	dirs := []string{"docs/guide", "archetypes"}
	for _, dir := range dirs {
		if err := mkdir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string]string{
		config.DefaultFile:      configContent,
		"docs/index.md":         indexContent,
		"docs/SUMMARY.md":       summaryContent,
		"docs/guide/index.md":   guideIndexContent,
		"docs/guide/install.md": guideInstallContent,
		"archetypes/default.md": archetypeDefaultMdContent,
	}
	for path, content := range files {
		if err := writeFile(path, content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}
	fmt.Println("Project scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  litnav resolve")
	fmt.Println("  litnav serve")
	return nil
}

// CreateNewPage writes a page titled title into dir below the docs
// directory of the project at root. When that directory has a nav document,
// a link to the page becomes the last item of its nav list. It returns the
// page path.
func CreateNewPage(root string, cfg config.Config, dir, title string) (string, error) {
	slug := Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a file name", title)
	}

	docsDir := filepath.Join(root, cfg.DocsDir, filepath.FromSlash(dir))
	path := filepath.Join(docsDir, slug+".md")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("page already exists: %s", path)
	}
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		return "", err
	}

	archetype := archetypeDefaultMdContent
	archetypePath := filepath.Join(root, "archetypes", "default.md")
	if tmplBytes, err := os.ReadFile(archetypePath); err == nil {
		archetype = string(tmplBytes)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
	}

	tmpl, err := template.New("archetype").Parse(archetype)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype file %s: %w", archetypePath, err)
	}

	data := struct{ Title string }{Title: title}
	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}
	if err := os.WriteFile(path, output.Bytes(), 0644); err != nil {
		return "", err
	}
	fmt.Println("Created:", path)

	navPath := filepath.Join(docsDir, cfg.NavFile)
	if err := appendNavLink(navPath, title, slug+".md", cfg.Markdown); err != nil {
		return path, err
	}
	return path, nil
}

// appendNavLink adds a link as the last item of the nav list in navPath. A
// missing nav document, or one without a list, is left alone.
func appendNavLink(navPath, title, target string, opts markdown.Options) error {
	existing, err := os.ReadFile(navPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read nav document %s: %w", navPath, err)
	}

	updated, ok := insertNavLink(existing, title, target, opts)
	if !ok {
		fmt.Println("No nav list to extend in", navPath, "- link the page by hand")
		return nil
	}
	if err := os.WriteFile(navPath, updated, 0644); err != nil {
		return err
	}
	fmt.Println("Linked from:", navPath)
	return nil
}

var linkTextEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

// insertNavLink finds the line after which a new item joins the end of the
// nav list, trying each marker that continues a list of that kind. The
// result is checked by extracting the list again.
func insertNavLink(source []byte, title, target string, opts markdown.Options) ([]byte, bool) {
	list := markdown.Extract(source, opts)
	if list == nil {
		return nil, false
	}
	want := list.String()

	text := string(source)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	lines := strings.SplitAfter(text, "\n")
	lines = lines[:len(lines)-1]

	markers := []string{"-", "*", "+"}
	if list.Tag == "ol" {
		markers = []string{"1.", "1)"}
	}
	for i := 0; i <= len(lines); i++ {
		for _, marker := range markers {
			item := fmt.Sprintf("%s [%s](%s)\n", marker, linkTextEscaper.Replace(title), target)
			candidate := strings.Join(lines[:i], "") + item + strings.Join(lines[i:], "")

			got := markdown.Extract([]byte(candidate), opts)
			if got == nil || len(got.Children) != len(list.Children)+1 {
				continue
			}
			last := got.Children[len(got.Children)-1]
			got.Children = got.Children[:len(got.Children)-1]
			if got.String() == want && isLinkItem(last, target) {
				return []byte(candidate), true
			}
		}
	}
	return nil, false
}

func isLinkItem(li *markdown.Element, target string) bool {
	return strings.TrimSpace(li.Text) == "" &&
		len(li.Children) == 1 &&
		li.Children[0].Tag == "a" &&
		li.Children[0].Href == target
}

// Slugify lowercases title and keeps letters, digits and single dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// Constants for default file contents
const configContent = `docs_dir: docs
nav_file: SUMMARY.md
implicit_index: false
markdown:
  extensions: [gfm]
  tab_length: 4
`

const indexContent = `# Welcome

Start writing your documentation here.
`

const summaryContent = `# Site map

<!--nav-->
- [Welcome](index.md)
- [Guide](guide/)
- *
`

const guideIndexContent = `# Guide

Pages in this directory are listed automatically.
`

const guideInstallContent = `# Installation

Describe how to install the project.
`

const archetypeDefaultMdContent = `---
title: {{.Title}}
---

# {{.Title}}

Write something meaningful here.
`
