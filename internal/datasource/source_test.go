package datasource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		path string
		want SourceType
	}{
		{"tree.json", SourceTypeJSON},
		{"tree.JSON", SourceTypeJSON},
		{"tree", SourceTypeJSON},
		{"tree.db", SourceTypeSQLite},
		{"tree.sqlite", SourceTypeSQLite},
		{"tree.sqlite3", SourceTypeSQLite},
		{"/some/dir/catalog.DB", SourceTypeSQLite},
	}
	for _, tt := range tests {
		if got := DetectType(tt.path); got != tt.want {
			t.Errorf("DetectType(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseJSONObject(t *testing.T) {
	root, err := ParseJSON([]byte(`{
		"id": "root",
		"label": "Everything",
		"children": [
			{"id": "a", "children": [{"id": "a1"}, {"id": "a2"}]},
			{"id": "b"}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}

	if root.ID != "root" || root.Label != "Everything" {
		t.Errorf("unexpected root: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if got := CountNodes(root); got != 5 {
		t.Errorf("CountNodes = %d, want 5", got)
	}
	if root.Children[1].DisplayLabel() != "b" {
		t.Errorf("DisplayLabel should fall back to id, got %q", root.Children[1].DisplayLabel())
	}
}

func TestParseJSONArrayWrapped(t *testing.T) {
	root, err := ParseJSON([]byte(`[{"id": "a"}, {"id": "b"}]`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if root.ID != "root" {
		t.Errorf("expected synthetic root, got %q", root.ID)
	}
	if len(root.Children) != 2 {
		t.Errorf("expected 2 children, got %d", len(root.Children))
	}

	// A single-element array is unwrapped.
	lone, err := ParseJSON([]byte(`[{"id": "only"}]`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if lone.ID != "only" {
		t.Errorf("single-element array should unwrap, got %q", lone.ID)
	}
}

func TestParseJSONRejectsDuplicates(t *testing.T) {
	_, err := ParseJSON([]byte(`{"id": "a", "children": [{"id": "a"}]}`))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestParseJSONRejectsEmptyID(t *testing.T) {
	_, err := ParseJSON([]byte(`{"id": "a", "children": [{"label": "no id"}]}`))
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
}

func TestParseJSONMalformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"id": "a"`)); err == nil {
		t.Error("expected error for truncated document")
	}
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(`{"id":"r","children":[{"id":"x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	root, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if root.ID != "r" || len(root.Children) != 1 {
		t.Errorf("unexpected tree: %+v", root)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/tree.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected ErrEmptyTree, got %v", err)
	}
}

func TestAccessorsOverRawNodes(t *testing.T) {
	root, err := ParseJSON([]byte(`{"id":"r","children":[{"id":"a","children":[{"id":"a1"}]},{"id":"b"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	acc := Accessors()
	if got := acc.LeafIDs(root); len(got) != 2 || got[0] != "a1" || got[1] != "b" {
		t.Errorf("LeafIDs = %v, want [a1 b]", got)
	}
	if got := acc.BranchIDs(root); len(got) != 2 || got[0] != "r" || got[1] != "a" {
		t.Errorf("BranchIDs = %v, want [r a]", got)
	}
}

func TestMarshalTreeRoundTrip(t *testing.T) {
	root := &RawNode{ID: "r", Label: "Root", Children: []*RawNode{{ID: "a"}}}

	data, err := MarshalTree(root)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	back, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if back.ID != "r" || back.Label != "Root" || len(back.Children) != 1 {
		t.Errorf("round trip lost data: %+v", back)
	}
}
