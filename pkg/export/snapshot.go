// Package export renders static snapshots of an annotated tree, so the
// current selection state can be shared outside the terminal.
package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/arbor/pkg/tree"
)

// SnapshotOptions controls snapshot export behaviour.
type SnapshotOptions[T any] struct {
	Path   string                // Output path; format inferred from extension when Format empty
	Format string                // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title  string                // Optional title rendered in the summary block
	Preset string                // Layout preset: "compact" (default) or "roomy"
	Root   *tree.StatefulNode[T] // Annotated tree to render
	Acc    tree.Accessors[T]
	Label  func(T) string // Optional; falls back to the node id
}

// SaveSnapshot renders a static snapshot (SVG or PNG) of the annotated
// tree: one row per visible node, indented by depth, tinted by selection
// state. Collapsed branches render as a single row with a hidden-leaf
// count.
func SaveSnapshot[T any](opts SnapshotOptions[T]) error {
	if opts.Root == nil {
		return fmt.Errorf("no tree to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	layout := buildLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, layout)
	case "png":
		return renderPNG(opts.Path, layout)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

// WriteSVG renders the snapshot as SVG to an arbitrary writer.
func WriteSVG[T any](w io.Writer, opts SnapshotOptions[T]) error {
	if opts.Root == nil {
		return fmt.Errorf("no tree to export")
	}
	return renderSVGToWriter(w, buildLayout(opts))
}

// --- layout computation ----------------------------------------------------

type rowState int

const (
	rowUnselected rowState = iota
	rowSelected
	rowIndeterminate
)

type layoutRow struct {
	ID     string
	Label  string
	State  rowState
	Leaf   bool
	Depth  int
	Hidden int // leaves hidden under a collapsed branch
	X, Y   float64
	W, H   float64
}

type layoutResult struct {
	Rows    []layoutRow
	Width   int
	Height  int
	Header  float64
	Summary summaryInfo
}

type summaryInfo struct {
	Title         string
	VisibleNodes  int
	SelectedLeafs int
	TotalLeafs    int
}

func buildLayout[T any](opts SnapshotOptions[T]) layoutResult {
	const (
		rowWCompact   = 300.0
		rowHCompact   = 26.0
		rowWRoomy     = 360.0
		rowHRoomy     = 32.0
		rowGapCompact = 6.0
		rowGapRoomy   = 10.0
		indent        = 24.0
		padding       = 36.0
		headerHeight  = 96.0
	)

	roomy := strings.EqualFold(opts.Preset, "roomy")
	rowW := rowWCompact
	rowH := rowHCompact
	rowGap := rowGapCompact
	if roomy {
		rowW = rowWRoomy
		rowH = rowHRoomy
		rowGap = rowGapRoomy
	}

	label := opts.Label
	if label == nil {
		label = opts.Acc.ID
	}

	var (
		rows          []layoutRow
		maxDepth      int
		selectedLeafs int
		totalLeafs    int
	)

	countLeaves := func(n *tree.StatefulNode[T]) int {
		count := 0
		tree.Walk(n, func(c *tree.StatefulNode[T], _ int) bool {
			if c.IsLeaf() {
				count++
			}
			return true
		})
		return count
	}

	var visit func(n *tree.StatefulNode[T], depth int)
	visit = func(n *tree.StatefulNode[T], depth int) {
		if n.IsLeaf() {
			totalLeafs++
			if n.Selected {
				selectedLeafs++
			}
		}
		if !n.Visible {
			// Selection totals still count the whole tree.
			for _, c := range n.Children {
				visit(c, depth+1)
			}
			return
		}

		row := layoutRow{
			ID:    opts.Acc.ID(n.Node),
			Label: truncate(label(n.Node), 40),
			Leaf:  n.IsLeaf(),
			Depth: depth,
			W:     rowW,
			H:     rowH,
		}
		switch {
		case n.Selected:
			row.State = rowSelected
		case n.Indeterminate:
			row.State = rowIndeterminate
		}
		if !n.IsLeaf() && !n.Expanded {
			row.Hidden = countLeaves(n)
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		rows = append(rows, row)

		if n.IsLeaf() || n.Expanded {
			for _, c := range n.Children {
				visit(c, depth+1)
			}
			return
		}
		// Collapsed: children are not rendered but still counted.
		for _, c := range n.Children {
			tree.Walk(c, func(d *tree.StatefulNode[T], _ int) bool {
				if d.IsLeaf() {
					totalLeafs++
					if d.Selected {
						selectedLeafs++
					}
				}
				return true
			})
		}
	}
	visit(opts.Root, 0)

	for i := range rows {
		rows[i].X = padding + float64(rows[i].Depth)*indent
		rows[i].Y = padding + headerHeight + float64(i)*(rowH+rowGap)
	}

	width := int(padding*2 + float64(maxDepth)*indent + rowW)
	if width < 560 {
		width = 560
	}
	height := int(padding*2 + headerHeight + float64(len(rows))*(rowH+rowGap))
	if height < 360 {
		height = 360
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = "Tree Snapshot"
	}

	return layoutResult{
		Rows:   rows,
		Width:  width,
		Height: height,
		Header: headerHeight,
		Summary: summaryInfo{
			Title:         title,
			VisibleNodes:  len(rows),
			SelectedLeafs: selectedLeafs,
			TotalLeafs:    totalLeafs,
		},
	}
}

// --- rendering -------------------------------------------------------------

var (
	colorSelected = color.RGBA{0xc8, 0xe6, 0xc9, 0xff}
	colorIndet    = color.RGBA{0xff, 0xf3, 0xe0, 0xff}
	colorUnsel    = color.RGBA{0xf0, 0xf0, 0xf2, 0xff}
	colorStroke   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorLegendBG = color.RGBA{0xee, 0xee, 0xee, 0xff}
)

func stateColor(s rowState) color.RGBA {
	switch s {
	case rowSelected:
		return colorSelected
	case rowIndeterminate:
		return colorIndet
	default:
		return colorUnsel
	}
}

func stateGlyph(r layoutRow) string {
	switch r.State {
	case rowSelected:
		return "[x]"
	case rowIndeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func rowText(r layoutRow) string {
	text := fmt.Sprintf("%s %s", stateGlyph(r), r.Label)
	if r.Hidden > 0 {
		text = fmt.Sprintf("%s (+%d)", text, r.Hidden)
	}
	return text
}

func renderPNG(path string, layout layoutResult) error {
	dc := gg.NewContext(layout.Width, layout.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(layout.Width)-32, layout.Header-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	drawSummaryBlock(dc, layout)
	drawLegend(dc, layout)

	for _, r := range layout.Rows {
		dc.SetColor(stateColor(r.State))
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 5)
		dc.Fill()
		dc.SetColor(colorStroke)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 5)
		dc.Stroke()

		dc.SetColor(colorText)
		dc.DrawStringAnchored(rowText(r), r.X+8, r.Y+r.H/2, 0, 0.5)
	}

	return dc.SavePNG(path)
}

func renderSVG(path string, layout layoutResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, layout)
}

func renderSVGToWriter(w io.Writer, layout layoutResult) error {
	canvas := svg.New(w)
	canvas.Start(layout.Width, layout.Height)
	canvas.Rect(0, 0, layout.Width, layout.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Roundrect(16, 16, layout.Width-32, int(layout.Header-24), 10, 10, fmt.Sprintf("fill:%s", css(colorHeaderBG)))

	drawSummaryBlockSVG(canvas, layout)
	drawLegendSVG(canvas, layout)

	for _, r := range layout.Rows {
		x := int(r.X)
		y := int(r.Y)
		canvas.Roundrect(x, y, int(r.W), int(r.H), 5, 5,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(stateColor(r.State)), css(colorStroke)))
		canvas.Text(x+8, y+int(r.H/2)+4, rowText(r),
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorText)))
	}

	canvas.End()
	return nil
}

func drawSummaryBlock(dc *gg.Context, layout layoutResult) {
	dc.SetColor(colorText)
	dc.DrawStringAnchored(layout.Summary.Title, 32, 40, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(fmt.Sprintf("visible rows: %d", layout.Summary.VisibleNodes), 32, 60, 0, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("selected: %d / %d leaves", layout.Summary.SelectedLeafs, layout.Summary.TotalLeafs), 32, 80, 0, 0.5)
}

func drawLegend(dc *gg.Context, layout layoutResult) {
	boxW := 180.0
	boxH := 80.0
	x := float64(layout.Width) - boxW - 20
	y := 24.0
	dc.SetColor(colorLegendBG)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, 10)
	dc.Stroke()

	dc.SetColor(colorText)
	dc.DrawStringAnchored("Legend", x+12, y+16, 0, 0.5)
	drawLegendRow(dc, x+12, y+34, colorSelected, "Selected")
	drawLegendRow(dc, x+12, y+50, colorIndet, "Partially selected")
	drawLegendRow(dc, x+12, y+66, colorUnsel, "Unselected")
}

func drawLegendRow(dc *gg.Context, x, y float64, c color.RGBA, label string) {
	dc.SetColor(c)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Fill()
	dc.SetColor(colorStroke)
	dc.DrawRoundedRectangle(x, y-8, 14, 14, 3)
	dc.Stroke()
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(label, x+20, y, 0, 0.5)
}

func drawSummaryBlockSVG(canvas *svg.SVG, layout layoutResult) {
	canvas.Text(32, 44, layout.Summary.Title, fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(32, 64, fmt.Sprintf("visible rows: %d", layout.Summary.VisibleNodes), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
	canvas.Text(32, 84, fmt.Sprintf("selected: %d / %d leaves", layout.Summary.SelectedLeafs, layout.Summary.TotalLeafs), fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", css(colorSubtle)))
}

func drawLegendSVG(canvas *svg.SVG, layout layoutResult) {
	boxW := 180
	boxH := 80
	x := layout.Width - boxW - 20
	y := 24
	canvas.Roundrect(x, y, boxW, boxH, 10, 10, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(colorLegendBG), css(colorStroke)))
	canvas.Text(x+12, y+18, "Legend", fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace;font-weight:bold", css(colorText)))
	drawLegendRowSVG(canvas, x+12, y+36, colorSelected, "Selected")
	drawLegendRowSVG(canvas, x+12, y+52, colorIndet, "Partially selected")
	drawLegendRowSVG(canvas, x+12, y+68, colorUnsel, "Unselected")
}

func drawLegendRowSVG(canvas *svg.SVG, x, y int, c color.RGBA, label string) {
	canvas.Roundrect(x, y-8, 14, 14, 3, 3, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(c), css(colorStroke)))
	canvas.Text(x+20, y, label, fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))
}

// --- helpers ---------------------------------------------------------------

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
