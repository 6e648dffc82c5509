// internal/nav/errors.go
package nav

import (
	"errors"
	"fmt"

	"litnav/internal/markdown"
)

// ErrInvalidTree is returned for a supplied nav tree whose shape cannot be
// normalised.
var ErrInvalidTree = errors.New("invalid nav tree")

const examples = `
Examples:
    * [Item title](item_content.md)
    * Section title
        * [Sub content](sub/content.md)
        * *.md
`

// ParseError reports a nav list item that cannot be understood. Item holds
// the condensed markup of the offending list item.
type ParseError struct {
	Reason string
	Item   string
}

func (e *ParseError) Error() string {
	return e.Reason + "\nThe problematic item:\n\n" + e.Item
}

func newParseError(reason string, li *markdown.Element) *ParseError {
	return &ParseError{Reason: reason, Item: li.ShortString()}
}

func tailError(prev, li *markdown.Element, tail string) *ParseError {
	return newParseError(fmt.Sprintf("Expected no text after %s, but got %q.", prev.ShortString(), tail), li)
}
