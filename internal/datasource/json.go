package datasource

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// LoadJSON reads a nested JSON tree document from path.
//
// The document is either a single root object or an array of top-level
// objects; arrays are wrapped under a synthetic "root" node so the engine
// always sees one root.
func LoadJSON(path string) (*RawNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree source: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON decodes a tree document from raw bytes. See LoadJSON.
func ParseJSON(data []byte) (*RawNode, error) {
	trimmed := firstNonSpace(data)

	var root *RawNode
	if trimmed == '[' {
		var tops []*RawNode
		if err := json.Unmarshal(data, &tops); err != nil {
			return nil, fmt.Errorf("parsing tree source: %w", err)
		}
		if len(tops) == 1 {
			root = tops[0]
		} else {
			root = &RawNode{ID: "root", Children: tops}
		}
	} else {
		root = &RawNode{}
		if err := json.Unmarshal(data, root); err != nil {
			return nil, fmt.Errorf("parsing tree source: %w", err)
		}
	}

	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// MarshalTree renders a raw tree back to indented JSON, for dumps.
func MarshalTree(root *RawNode) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}
