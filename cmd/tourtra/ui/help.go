package ui

import "github.com/charmbracelet/glamour"

const helpText = `# TOURTRA Admin Console

Terminal front-end for the TOURTRA back office. All data lives server-side;
this console fetches, filters and edits it over the REST API.

## Navigation

| Key | Action |
| --- | ------ |
| up/down | move between sections or rows |
| enter | open a section / edit the selected record |
| esc | back to the section menu |
| / | focus the list filter |
| n | new record |
| d | delete the selected record (asks to confirm) |
| r | refresh the current list |
| left/right | previous / next page |
| ? | toggle this help |
| L | log out |
| q, ctrl+c | quit |

## Forms

Required fields are marked with *. Fields with < angle brackets > cycle their
options with left/right. Attachments and multi-selects take comma-separated
values. Ctrl+S saves from any field; Esc cancels without saving.

Records only change after the server confirms: a failed save keeps the form
open with the server's messages next to the matching fields.
`

// RenderHelp renders the help overlay with glamour, falling back to the raw
// markdown when the renderer cannot be built.
func RenderHelp(width int, dark bool) string {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(min(width, 100)),
	)
	if err != nil {
		return helpText
	}
	out, err := r.Render(helpText)
	if err != nil {
		return helpText
	}
	return out
}
