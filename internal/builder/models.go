// internal/builder/models.go
package builder

import (
	"html/template"
)

// NavMeta holds the front matter of a nav document. Everything besides the
// title ends up in Params.
type NavMeta struct {
	Title  string                 `yaml:"title"`
	Params map[string]interface{} `yaml:",inline"`
}

// PageData is the struct passed to the preview page template.
type PageData struct {
	Title    string
	BaseHref string
	Nav      template.HTML // Rendered and, unless unsafe, sanitized nav list
	Pages    int
}
