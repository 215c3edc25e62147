// Package datasource loads raw trees for arbor from JSON documents and
// SQLite databases, and validates them before they reach the engine.
package datasource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/arbor/pkg/tree"
)

// SourceType identifies the kind of tree source.
type SourceType string

const (
	// SourceTypeJSON is a nested JSON document.
	SourceTypeJSON SourceType = "json"
	// SourceTypeSQLite is a SQLite database with a nodes table.
	SourceTypeSQLite SourceType = "sqlite"
)

// Common errors.
var (
	ErrEmptyTree   = errors.New("source contains no nodes")
	ErrEmptyID     = errors.New("node with empty id")
	ErrDuplicateID = errors.New("duplicate node id")
)

// RawNode is the wire form of a tree node. Children is nil for leaves.
type RawNode struct {
	ID       string     `json:"id"`
	Label    string     `json:"label,omitempty"`
	Children []*RawNode `json:"children,omitempty"`
}

// DisplayLabel returns the label, falling back to the id.
func (n *RawNode) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Accessors returns tree accessors over RawNode for the reconciliation
// engine.
func Accessors() tree.Accessors[*RawNode] {
	return tree.Accessors[*RawNode]{
		ID: func(n *RawNode) string { return n.ID },
		Children: func(n *RawNode) []*RawNode {
			return n.Children
		},
	}
}

// DetectType guesses the source type from the file extension.
func DetectType(path string) SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite
	default:
		return SourceTypeJSON
	}
}

// Load reads a tree from the given path, dispatching on DetectType.
func Load(path string) (*RawNode, error) {
	switch DetectType(path) {
	case SourceTypeSQLite:
		return LoadSQLite(path)
	default:
		return LoadJSON(path)
	}
}

// Validate checks structural soundness: a non-nil root, no empty ids, and
// no duplicate ids anywhere in the tree.
func Validate(root *RawNode) error {
	if root == nil {
		return ErrEmptyTree
	}

	seen := make(map[string]bool)
	var walk func(n *RawNode) error
	walk = func(n *RawNode) error {
		if n.ID == "" {
			return ErrEmptyID
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
		}
		seen[n.ID] = true
		for _, c := range n.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

// CountNodes returns the total number of nodes in a raw tree.
func CountNodes(root *RawNode) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, c := range root.Children {
		count += CountNodes(c)
	}
	return count
}
