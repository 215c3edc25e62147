package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads a tree from a SQLite database.
//
// The expected schema is a nodes table with id, parent_id, and label
// columns; a NULL or empty parent_id marks a top-level node. Multiple
// top-level nodes are wrapped under a synthetic "root" node.
func LoadSQLite(path string) (*RawNode, error) {
	// Read-only with a busy timeout so a writer rewriting the db does not
	// fail the reload.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, parent_id, label FROM nodes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	type row struct {
		id     string
		parent string
	}

	byID := make(map[string]*RawNode)
	var order []row

	for rows.Next() {
		var id string
		var parent, label sql.NullString
		if err := rows.Scan(&id, &parent, &label); err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}
		if byID[id] != nil {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		byID[id] = &RawNode{ID: id, Label: label.String}
		order = append(order, row{id: id, parent: parent.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	if len(order) == 0 {
		return nil, ErrEmptyTree
	}

	// Link children in row order so sibling order is stable across loads.
	var tops []*RawNode
	for _, r := range order {
		n := byID[r.id]
		if r.parent == "" {
			tops = append(tops, n)
			continue
		}
		p := byID[r.parent]
		if p == nil {
			return nil, fmt.Errorf("node %s references unknown parent %s", r.id, r.parent)
		}
		p.Children = append(p.Children, n)
	}
	if len(tops) == 0 {
		return nil, fmt.Errorf("no top-level nodes: every row has a parent")
	}

	root := tops[0]
	expected := len(order)
	if len(tops) > 1 {
		root = &RawNode{ID: "root", Children: tops}
		expected++
	}

	if err := Validate(root); err != nil {
		return nil, err
	}
	// A parent_id cycle leaves nodes unreachable from the root.
	if got := CountNodes(root); got != expected {
		return nil, fmt.Errorf("%d of %d nodes unreachable from the root (parent cycle?)", expected-got, expected)
	}
	return root, nil
}
