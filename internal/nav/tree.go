// internal/nav/tree.go
package nav

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"litnav/internal/util"
)

// Tree is a navigation tree supplied directly, usually from the nav key of
// the config file.
type Tree []TreeItem

// UnmarshalYAML decodes a sequence of items. Empty entries are rejected
// rather than skipped.
func (t *Tree) UnmarshalYAML(node *yaml.Node) error {
	node = dealias(node)
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: line %d: expected a list", ErrInvalidTree, node.Line)
	}
	tree := make(Tree, 0, len(node.Content))
	for _, n := range node.Content {
		var ti TreeItem
		if err := ti.UnmarshalYAML(n); err != nil {
			return err
		}
		tree = append(tree, ti)
	}
	*t = tree
	return nil
}

// TreeItem is a bare target, a titled target or a titled subtree.
type TreeItem struct {
	Title    string
	Titled   bool
	Target   string
	Children Tree
}

// UnmarshalYAML accepts a scalar, or a mapping with exactly one key whose
// value is a scalar or a sequence.
func (t *TreeItem) UnmarshalYAML(node *yaml.Node) error {
	node = dealias(node)
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return fmt.Errorf("%w: line %d: empty entry", ErrInvalidTree, node.Line)
		}
		*t = TreeItem{Target: node.Value}
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("%w: line %d: expected a mapping with exactly one key, got %d",
				ErrInvalidTree, node.Line, len(node.Content)/2)
		}
	default:
		return fmt.Errorf("%w: line %d: expected a string or a single-key mapping", ErrInvalidTree, node.Line)
	}

	key, val := dealias(node.Content[0]), dealias(node.Content[1])
	item := TreeItem{Title: key.Value, Titled: true}
	switch {
	case val.Kind == yaml.ScalarNode && val.ShortTag() != "!!null":
		item.Target = val.Value
	case val.Kind == yaml.SequenceNode:
		var children Tree
		if err := children.UnmarshalYAML(val); err != nil {
			return err
		}
		item.Children = children
	default:
		return fmt.Errorf("%w: line %d: %q must map to a string or a list", ErrInvalidTree, val.Line, key.Value)
	}
	*t = item
	return nil
}

// MarshalYAML writes the item back in the form UnmarshalYAML reads.
func (t TreeItem) MarshalYAML() (interface{}, error) {
	switch {
	case t.Children != nil:
		return map[string]Tree{t.Title: t.Children}, nil
	case t.Titled:
		return map[string]string{t.Title: t.Target}, nil
	default:
		return t.Target, nil
	}
}

func dealias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// normalize converts a supplied tree into unresolved items. Titled targets
// are resolved like links of a nav document at the docs root; bare targets
// are kept as they are.
func (r *Resolver) normalize(res *resolution, tree Tree) ([]item, error) {
	items := make([]item, 0, len(tree))
	for _, ti := range tree {
		switch {
		case ti.Children != nil:
			if !ti.Titled {
				return nil, fmt.Errorf("%w: untitled section", ErrInvalidTree)
			}
			sub, err := r.normalize(res, ti.Children)
			if err != nil {
				return nil, err
			}
			items = append(items, item{title: ti.Title, titled: true, value: list(sub)})
		case strings.Contains(ti.Target, "*"):
			items = append(items, item{title: ti.Title, titled: ti.Titled, value: newWildcard("", ti.Target, true)})
		case ti.Titled:
			items = append(items, item{title: ti.Title, titled: true, value: r.resolveLink(res, "", ti.Target)})
		default:
			items = append(items, item{value: literal{path: ti.Target, external: util.IsExternalURL(ti.Target)}})
		}
	}
	return items, nil
}
