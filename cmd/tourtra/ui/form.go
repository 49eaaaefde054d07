package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tourtra/internal/api"
	"tourtra/internal/resources"
	"tourtra/internal/store"
)

// FormSubmitMsg is emitted when a form passes local validation. An empty ID
// means create, otherwise update.
type FormSubmitMsg struct {
	PageName string
	ID       string
	Values   map[string]any
	Files    []api.FormFile
}

// FormCancelMsg is emitted when the operator closes the form without saving.
type FormCancelMsg struct{ PageName string }

// FormModel is the modal create/edit form. It owns only draft state: the
// page's store reports the submission outcome back via SetStatus, and the
// page closes the form when the store signals success.
type FormModel struct {
	styles Styles
	page   string
	title  string
	fields []resources.FormField

	inputs    []textinput.Model
	optionIdx []int
	focus     int
	editID    string
	preview   func(values map[string]string) string

	localErr  map[string]string
	serverErr *api.Error
	success   bool
	pending   bool
}

// NewForm builds a form seeded from initial values. For a create (editID
// empty) date fields default to today. Secret values must already be blank in
// initial; resources.Seed guarantees that for edits.
func NewForm(styles Styles, page, title string, fields []resources.FormField, initial map[string]string, editID string) FormModel {
	f := FormModel{
		styles:    styles,
		page:      page,
		title:     title,
		fields:    fields,
		inputs:    make([]textinput.Model, len(fields)),
		optionIdx: make([]int, len(fields)),
		editID:    editID,
		localErr:  map[string]string{},
	}
	today := time.Now().Format("2006-01-02")
	for i, field := range fields {
		ti := textinput.New()
		ti.CharLimit = 120
		ti.Width = 38
		ti.Prompt = ""
		value := initial[field.Key]
		switch field.Kind {
		case resources.Secret:
			ti.EchoMode = textinput.EchoPassword
			value = ""
		case resources.Date:
			if value == "" && editID == "" {
				value = today
			}
			ti.Placeholder = "YYYY-MM-DD"
		case resources.Number:
			ti.Placeholder = "0.00"
		case resources.Select:
			// With no declared options the select is a reference field: a
			// free-text id the server resolves.
			if len(field.Options) == 0 {
				ti.Placeholder = "record id"
			}
			for idx, opt := range field.Options {
				if opt == value {
					f.optionIdx[i] = idx
				}
			}
		case resources.MultiSelect:
			ti.Placeholder = "comma-separated ids"
		case resources.File:
			ti.Placeholder = "comma-separated paths"
		}
		ti.SetValue(value)
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

// EditID returns the id being edited, empty for a create.
func (f FormModel) EditID() string { return f.editID }

// SetStatus feeds the store's current outcome into the form. The page calls
// this after every store change so the form renders pending/success/error
// without owning any of it.
func (f *FormModel) SetStatus(st store.Status) {
	f.pending = st.Creating || st.Updating
	f.serverErr = st.Err
	f.success = st.Success
}

func (f *FormModel) setFocus(i int) {
	n := len(f.inputs)
	if n == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = ((i % n) + n) % n
	f.inputs[f.focus].Focus()
}

// Update handles form input. It never closes itself on success; the page owns
// the auto-close delay.
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}
	switch key.String() {
	case "esc":
		return f, func() tea.Msg { return FormCancelMsg{PageName: f.page} }
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	case "left", "right":
		if n := len(f.fields[f.focus].Options); f.fields[f.focus].Kind == resources.Select && n > 0 {
			delta := 1
			if key.String() == "left" {
				delta = -1
			}
			f.optionIdx[f.focus] = ((f.optionIdx[f.focus]+delta)%n + n) % n
			return f, nil
		}
	case "enter":
		if f.focus == len(f.inputs)-1 {
			return f, f.submit()
		}
		f.setFocus(f.focus + 1)
		return f, nil
	case "ctrl+s":
		return f, f.submit()
	}

	if f.fields[f.focus].Kind == resources.Select && len(f.fields[f.focus].Options) > 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f FormModel) fieldValue(i int) string {
	field := f.fields[i]
	if field.Kind == resources.Select {
		if len(field.Options) == 0 {
			return strings.TrimSpace(f.inputs[i].Value())
		}
		return field.Options[f.optionIdx[i]]
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// submit validates presence of required fields, then emits a FormSubmitMsg.
// While the store reports a pending write, submission is ignored: that is the
// double-fire guard.
func (f *FormModel) submit() tea.Cmd {
	if f.pending {
		return nil
	}
	f.localErr = map[string]string{}
	for i, field := range f.fields {
		if field.Required && f.fieldValue(i) == "" {
			f.localErr[field.Key] = "This field is required"
		}
	}
	if len(f.localErr) > 0 {
		return nil
	}

	values := make(map[string]any, len(f.fields))
	var files []api.FormFile
	for i, field := range f.fields {
		val := f.fieldValue(i)
		switch field.Kind {
		case resources.File:
			for _, path := range splitList(val) {
				files = append(files, api.FormFile{Field: field.Key, Name: filepath.Base(path), Path: path})
			}
		case resources.MultiSelect:
			values[field.Key] = splitList(val)
		case resources.Secret:
			// Blank secrets are omitted on update so the server keeps the
			// stored one.
			if val != "" || f.editID == "" {
				values[field.Key] = val
			}
		default:
			values[field.Key] = val
		}
	}

	msg := FormSubmitMsg{PageName: f.page, ID: f.editID, Values: values, Files: files}
	return func() tea.Msg { return msg }
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// fieldError returns the inline message for a field: local presence errors
// first, then the server's validation message when the key matches.
func (f FormModel) fieldError(key string) string {
	if msg, ok := f.localErr[key]; ok {
		return msg
	}
	return f.serverErr.FieldError(key)
}

// View renders the modal.
func (f FormModel) View() string {
	var sb strings.Builder
	verb := "New"
	if f.editID != "" {
		verb = "Edit"
	}
	sb.WriteString(f.styles.Title.Render(fmt.Sprintf("%s %s", verb, f.title)))
	sb.WriteString("\n")

	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		sb.WriteString(f.styles.FieldLabel.Render(label))
		sb.WriteString("\n")

		box := f.styles.InputBox
		if i == f.focus {
			box = f.styles.FocusedBox
		}
		if field.Kind == resources.Select && len(field.Options) > 0 {
			sb.WriteString(box.Render("< " + field.Options[f.optionIdx[i]] + " >"))
		} else {
			sb.WriteString(box.Render(f.inputs[i].View()))
		}
		sb.WriteString("\n")

		if msg := f.fieldError(field.Key); msg != "" {
			sb.WriteString(f.styles.FieldError.Render("  " + msg))
			sb.WriteString("\n")
		}
	}

	if f.preview != nil {
		values := make(map[string]string, len(f.fields))
		for i, field := range f.fields {
			values[field.Key] = f.fieldValue(i)
		}
		if line := f.preview(values); line != "" {
			sb.WriteString("\n" + f.styles.Muted.Render(line) + "\n")
		}
	}

	switch {
	case f.success:
		sb.WriteString("\n" + f.styles.Success.Render("Saved"))
	case f.pending:
		sb.WriteString("\n" + f.styles.Muted.Render("Saving..."))
	case f.serverErr != nil && f.serverErr.Kind == api.Flat:
		sb.WriteString("\n" + f.styles.Error.Render(f.serverErr.Message))
	}

	sb.WriteString("\n\n" + f.styles.Muted.Render("[Tab] Next  [←/→] Option  [Ctrl+S] Save  [Esc] Cancel"))
	return f.styles.Modal.Render(sb.String())
}
