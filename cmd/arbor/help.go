package main

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# arbor

Interactive tree selection viewer.

## Navigation

| Key | Action |
|-----|--------|
| up/k, down/j | Move the cursor |
| g / G | Jump to top / bottom |
| enter, tab | Expand or collapse the branch under the cursor |
| E / C | Expand / collapse every branch |

## Selection

| Key | Action |
|-----|--------|
| space | Toggle the leaf under the cursor |
| a | Select every visible leaf |
| n | Clear the selection |

## Search

Press / and type. Matching leaves stay visible together with their
ancestors, and matching branches keep their whole subtree. Branch
expansion follows the search; manual expand is suspended until the
search is cleared with esc.

## Other

| Key | Action |
|-----|--------|
| y | Copy the selected ids to the clipboard |
| s | Write an SVG/PNG snapshot of the current view |
| ? | This help (any key closes it) |
| q | Quit |
`

// renderHelp renders the help overlay with glamour, falling back to the raw
// markdown when the renderer cannot be built.
func renderHelp(width int) string {
	wrap := width - 4
	if wrap < 40 {
		wrap = 72
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
