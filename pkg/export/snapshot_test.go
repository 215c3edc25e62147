package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/arbor/pkg/testutil"
	"github.com/vanderheijden86/arbor/pkg/tree"
)

func snapshotTree(t *testing.T) (tree.Accessors[*testutil.Node], *tree.StatefulNode[*testutil.Node]) {
	t.Helper()
	acc := testutil.Accessors()
	raw := &testutil.Node{ID: "root", Label: "Root", Kids: []*testutil.Node{
		{ID: "A", Label: "Alpha", Kids: []*testutil.Node{
			{ID: "a1", Label: "First"},
			{ID: "a2", Label: "Second"},
		}},
		{ID: "B", Label: "Beta", Kids: []*testutil.Node{
			{ID: "b1", Label: "Third"},
		}},
	}}

	flags := tree.Flags{Selectable: true, MultiPick: true, Searchable: true}
	in := tree.Input{Selected: []string{"a1"}, Expanded: []string{"root", "A"}}
	res := tree.Reconcile(tree.Annotate(acc, raw), acc, flags, in, nil)
	return acc, res.Root
}

func TestWriteSVGContainsRows(t *testing.T) {
	acc, root := snapshotTree(t)

	var buf bytes.Buffer
	err := WriteSVG(&buf, SnapshotOptions[*testutil.Node]{
		Title: "Demo",
		Root:  root,
		Acc:   acc,
		Label: func(n *testutil.Node) string { return n.Label },
	})
	if err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an SVG document")
	}
	if !strings.Contains(out, "Demo") {
		t.Error("missing title")
	}
	// a1 is selected, A becomes indeterminate.
	if !strings.Contains(out, "[x] First") {
		t.Error("missing selected leaf row")
	}
	if !strings.Contains(out, "[-] Alpha") {
		t.Error("missing indeterminate branch row")
	}
	// B is collapsed: its row shows a hidden-leaf count and b1 has no row.
	if !strings.Contains(out, "[ ] Beta (+1)") {
		t.Error("missing collapsed branch row with hidden count")
	}
	if strings.Contains(out, "Third") {
		t.Error("collapsed branch leaked a child row")
	}
	if !strings.Contains(out, "selected: 1 / 3 leaves") {
		t.Error("missing selection summary")
	}
}

func TestWriteSVGNilRoot(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSVG(&buf, SnapshotOptions[*testutil.Node]{Acc: testutil.Accessors()})
	if err == nil {
		t.Error("expected error for nil root")
	}
}

func TestSaveSnapshotInfersFormat(t *testing.T) {
	acc, root := snapshotTree(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "snap.svg")
	err := SaveSnapshot(SnapshotOptions[*testutil.Node]{
		Path: path,
		Root: root,
		Acc:  acc,
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("expected SVG content")
	}

	// Extension-less paths get .svg appended.
	bare := filepath.Join(dir, "noext")
	err = SaveSnapshot(SnapshotOptions[*testutil.Node]{
		Path: bare,
		Root: root,
		Acc:  acc,
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if _, err := os.Stat(bare + ".svg"); err != nil {
		t.Errorf("expected %s.svg to exist: %v", bare, err)
	}
}

func TestSaveSnapshotPNG(t *testing.T) {
	acc, root := snapshotTree(t)
	path := filepath.Join(t.TempDir(), "snap.png")

	err := SaveSnapshot(SnapshotOptions[*testutil.Node]{
		Path: path,
		Root: root,
		Acc:  acc,
	})
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	if len(data) < 8 || data[1] != 'P' || data[2] != 'N' || data[3] != 'G' {
		t.Error("output is not a PNG")
	}
}

func TestSaveSnapshotRejectsUnknownFormat(t *testing.T) {
	acc, root := snapshotTree(t)
	err := SaveSnapshot(SnapshotOptions[*testutil.Node]{
		Path:   filepath.Join(t.TempDir(), "snap.bmp"),
		Format: "bmp",
		Root:   root,
		Acc:    acc,
	})
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a longer label that overflows", 10, "a longe..."},
		{"abc", 2, "ab"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
