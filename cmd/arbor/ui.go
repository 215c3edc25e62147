package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/arbor/internal/datasource"
	"github.com/vanderheijden86/arbor/pkg/export"
	"github.com/vanderheijden86/arbor/pkg/tree"
)

// refreshMsg asks the model to re-read the controller's tree. It is sent
// from the recomputation callback and from the file watcher.
type refreshMsg struct{}

// labelPredicate matches a node when every search token occurs in its label
// or id.
func labelPredicate(n *datasource.RawNode, tokens []string) bool {
	hay := strings.ToLower(n.DisplayLabel() + " " + n.ID)
	for _, tok := range tokens {
		if !strings.Contains(hay, tok) {
			return false
		}
	}
	return true
}

type viewRow struct {
	node  *tree.StatefulNode[*datasource.RawNode]
	depth int
}

type modelConfig struct {
	sourcePath string
	showCounts bool
	exportDir  string
	exportFmt  string
}

// Model is the bubbletea model for the tree viewer.
type Model struct {
	ctrl *tree.Controller[*datasource.RawNode]
	acc  tree.Accessors[*datasource.RawNode]
	cfg  modelConfig

	rows   []viewRow
	cursor int
	offset int // first visible row for scrolling

	width  int
	height int

	searchInput textinput.Model
	searching   bool

	showHelp bool
	helpView string

	status string

	styles styles
}

type styles struct {
	header   lipgloss.Style
	cursor   lipgloss.Style
	selected lipgloss.Style
	indet    lipgloss.Style
	branch   lipgloss.Style
	dim      lipgloss.Style
	status   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		cursor:   lipgloss.NewStyle().Background(lipgloss.Color("237")).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		indet:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		branch:   lipgloss.NewStyle().Bold(true),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func newModel(ctrl *tree.Controller[*datasource.RawNode], cfg modelConfig) Model {
	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 80
	ti.Width = 32

	m := Model{
		ctrl:        ctrl,
		acc:         datasource.Accessors(),
		cfg:         cfg,
		searchInput: ti,
		styles:      defaultStyles(),
	}
	m.rebuildRows()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.rebuildRows()
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.searching {
			return m.updateSearching(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.ctrl.SetSearchTerm("")
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.ctrl.SetSearchTerm(m.searchInput.Value())
		return m, cmd
	}
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case " ":
		if r := m.currentRow(); r != nil && r.node.IsLeaf() {
			m.ctrl.ToggleSelect(m.acc.ID(r.node.Node))
			m.rebuildRows()
		}

	case "enter", "tab", "l", "h":
		if r := m.currentRow(); r != nil && !r.node.IsLeaf() {
			m.ctrl.ToggleExpand(m.acc.ID(r.node.Node))
			m.rebuildRows()
		}

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, textinput.Blink

	case "a":
		m.ctrl.SelectAll()
		m.rebuildRows()

	case "n":
		m.ctrl.SelectNone()
		m.rebuildRows()

	case "E":
		m.ctrl.ExpandAll()
		m.rebuildRows()

	case "C":
		m.ctrl.CollapseAll()
		m.rebuildRows()

	case "y":
		sel := m.ctrl.Selected()
		if len(sel) == 0 {
			m.status = "nothing selected"
		} else if err := clipboard.WriteAll(strings.Join(sel, "\n")); err != nil {
			m.status = "clipboard unavailable"
		} else {
			m.status = fmt.Sprintf("copied %d ids", len(sel))
		}

	case "s":
		m.status = m.saveSnapshot()

	case "?":
		m.showHelp = true
		if m.helpView == "" {
			m.helpView = renderHelp(m.width)
		}
	}

	m.clampCursor()
	return m, nil
}

func (m *Model) currentRow() *viewRow {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return &m.rows[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// rebuildRows flattens the controller's annotated tree into the visible,
// expanded row list the view renders.
func (m *Model) rebuildRows() {
	m.rows = flattenRows(m.ctrl.Tree())
	m.clampCursor()
}

func flattenRows(root *tree.StatefulNode[*datasource.RawNode]) []viewRow {
	if root == nil {
		return nil
	}
	var rows []viewRow
	var visit func(n *tree.StatefulNode[*datasource.RawNode], depth int)
	visit = func(n *tree.StatefulNode[*datasource.RawNode], depth int) {
		if !n.Visible {
			return
		}
		rows = append(rows, viewRow{node: n, depth: depth})
		if n.IsLeaf() || !n.Expanded {
			return
		}
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
	return rows
}

// checkbox returns the tri-state selection glyph for a node.
func checkbox(n *tree.StatefulNode[*datasource.RawNode]) string {
	switch {
	case n.Selected:
		return "[x]"
	case n.Indeterminate:
		return "[~]"
	default:
		return "[ ]"
	}
}

// arrow returns the expansion glyph for a branch row.
func arrow(n *tree.StatefulNode[*datasource.RawNode]) string {
	if n.IsLeaf() {
		return " "
	}
	if n.Expanded {
		return "▾"
	}
	return "▸"
}

func countLeaves(n *tree.StatefulNode[*datasource.RawNode]) (selected, total int) {
	tree.Walk(n, func(c *tree.StatefulNode[*datasource.RawNode], _ int) bool {
		if c.IsLeaf() {
			total++
			if c.Selected {
				selected++
			}
		}
		return true
	})
	return selected, total
}

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return m.helpView
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteByte('\n')

	visible := m.height - 3 // header, footer, spare
	if visible < 1 {
		visible = 1
	}
	offset := m.offset
	if m.cursor < offset {
		offset = m.cursor
	}
	if m.cursor >= offset+visible {
		offset = m.cursor - visible + 1
	}

	for i := offset; i < len(m.rows) && i < offset+visible; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteByte('\n')
	}

	b.WriteString(m.footerLine())
	return b.String()
}

func (m Model) headerLine() string {
	name := "arbor"
	if m.cfg.sourcePath != "" {
		name = filepath.Base(m.cfg.sourcePath)
	}
	sel, total := 0, 0
	if root := m.ctrl.Tree(); root != nil {
		sel, total = countLeaves(root)
	}
	line := fmt.Sprintf(" %s — %d/%d selected", name, sel, total)
	if term := m.ctrl.SearchTerm(); term != "" {
		line += fmt.Sprintf("  search: %q", term)
	}
	return m.styles.header.Render(line)
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]
	n := r.node

	indent := strings.Repeat("  ", r.depth)
	label := n.Node.DisplayLabel()
	if m.cfg.showCounts && !n.IsLeaf() {
		sel, total := countLeaves(n)
		label = fmt.Sprintf("%s (%d/%d)", label, sel, total)
	}

	line := fmt.Sprintf("%s%s %s %s", indent, arrow(n), checkbox(n), label)
	if m.width > 0 {
		line = runewidth.Truncate(line, m.width-1, "…")
	}

	switch {
	case i == m.cursor:
		return m.styles.cursor.Render(line)
	case n.Selected:
		return m.styles.selected.Render(line)
	case n.Indeterminate:
		return m.styles.indet.Render(line)
	case !n.IsLeaf():
		return m.styles.branch.Render(line)
	default:
		return line
	}
}

func (m Model) footerLine() string {
	if m.searching {
		return " / " + m.searchInput.View()
	}
	if m.status != "" {
		return m.styles.status.Render(" " + m.status)
	}
	return m.styles.dim.Render(" space select · enter expand · / search · a/n all/none · y yank · s snapshot · ? help · q quit")
}

// saveSnapshot writes an SVG/PNG snapshot of the current view state.
func (m Model) saveSnapshot() string {
	root := m.ctrl.Tree()
	if root == nil {
		return "no tree loaded"
	}

	format := m.cfg.exportFmt
	if format == "" {
		format = "svg"
	}
	dir := m.cfg.exportDir
	if dir == "" {
		dir = "."
	}
	name := fmt.Sprintf("arbor-%s.%s", time.Now().Format("20060102-150405"), format)
	path := filepath.Join(dir, name)

	title := "Tree Snapshot"
	if m.cfg.sourcePath != "" {
		title = filepath.Base(m.cfg.sourcePath)
	}
	err := export.SaveSnapshot(export.SnapshotOptions[*datasource.RawNode]{
		Path:  path,
		Title: title,
		Root:  root,
		Acc:   m.acc,
		Label: (*datasource.RawNode).DisplayLabel,
	})
	if err != nil {
		return fmt.Sprintf("snapshot failed: %v", err)
	}
	return fmt.Sprintf("snapshot written to %s", path)
}
