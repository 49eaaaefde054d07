package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tourtra/internal/api"
	"tourtra/internal/resources"
	"tourtra/internal/store"
)

const (
	requestTimeout = 30 * time.Second
	// How long the "Saved" affordance stays visible before the form closes.
	successCloseDelay = 900 * time.Millisecond
)

// ResourcePage is the generic list-plus-modal page: one instance per entity,
// fully driven by its descriptor. It owns the entity's store and is its
// single writer.
type ResourcePage[T store.Record] struct {
	desc   resources.Descriptor[T]
	client *resources.ResourceClient[T]
	st     *store.Store[T]
	styles Styles

	table         table.Model
	filter        textinput.Model
	filterFocused bool
	pag           paginator.Model
	spin          spinner.Model

	// visible caches the filtered, paginated slice backing the table rows, so
	// the cursor maps back to a record.
	visible []T

	form      *FormModel
	confirmID string

	width  int
	height int
}

// NewResourcePage wires a page from its descriptor.
func NewResourcePage[T store.Record](desc resources.Descriptor[T], client *resources.ResourceClient[T], styles Styles) *ResourcePage[T] {
	columns := make([]table.Column, len(desc.Columns))
	for i, col := range desc.Columns {
		columns[i] = table.Column{Title: col.Title, Width: col.Width}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(desc.PageSize+1),
	)

	fi := textinput.New()
	fi.Placeholder = "Filter..."
	fi.CharLimit = 60
	fi.Width = 32

	pg := paginator.New()
	pg.PerPage = desc.PageSize
	pg.Type = paginator.Dots

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &ResourcePage[T]{
		desc:   desc,
		client: client,
		st:     store.New[T](desc.Insert),
		styles: styles,
		table:  t,
		filter: fi,
		pag:    pg,
		spin:   sp,
	}
}

// Name returns the routing key for PageMsg delivery.
func (p *ResourcePage[T]) Name() string { return p.desc.Name }

// Store exposes the page's store for the console's logout sweep.
func (p *ResourcePage[T]) Store() *store.Store[T] { return p.st }

// Init triggers the initial fetch.
func (p *ResourcePage[T]) Init() tea.Cmd {
	p.st.Begin(store.OpFetch)
	return tea.Batch(p.spin.Tick, p.fetchCmd())
}

func (p *ResourcePage[T]) fetchCmd() tea.Cmd {
	client, name := p.client, p.desc.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		list, err := client.List(ctx)
		if err != nil {
			return failureMsg(name, store.OpFetch, err)
		}
		return ListLoadedMsg[T]{PageName: name, Records: list}
	}
}

func (p *ResourcePage[T]) createCmd(in resources.Input) tea.Cmd {
	client, name := p.client, p.desc.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rec, err := client.Create(ctx, in)
		if err != nil {
			return failureMsg(name, store.OpCreate, err)
		}
		return CreatedMsg[T]{PageName: name, Record: rec}
	}
}

func (p *ResourcePage[T]) updateCmd(id string, in resources.Input) tea.Cmd {
	client, name := p.client, p.desc.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		rec, err := client.Update(ctx, id, in)
		if err != nil {
			return failureMsg(name, store.OpUpdate, err)
		}
		return UpdatedMsg[T]{PageName: name, Record: rec}
	}
}

func (p *ResourcePage[T]) deleteCmd(id string) tea.Cmd {
	client, name := p.client, p.desc.Name
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := client.Delete(ctx, id); err != nil {
			return failureMsg(name, store.OpDelete, err)
		}
		return RemovedMsg{PageName: name, ID: id}
	}
}

// failureMsg converts an error into the page-routed failure message, special
// casing a dead session so the console can log out.
func failureMsg(name string, op store.Op, err error) tea.Msg {
	if errors.Is(err, api.ErrSessionExpired) {
		return SessionExpiredMsg{}
	}
	return OpFailedMsg{PageName: name, Op: op, Err: wrapErr(err)}
}

// Update implements tea.Model.
func (p *ResourcePage[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		return p, nil

	case spinner.TickMsg:
		if !p.st.Status().Pending() {
			return p, nil
		}
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd

	case ListLoadedMsg[T]:
		p.st.ApplyFetched(msg.Records)
		p.pag.Page = 0
		p.rebuildRows()
		return p, nil

	case CreatedMsg[T]:
		p.st.ApplyCreated(msg.Record)
		p.rebuildRows()
		return p, p.afterWriteSuccess()

	case UpdatedMsg[T]:
		p.st.ApplyUpdated(msg.Record)
		p.rebuildRows()
		return p, p.afterWriteSuccess()

	case RemovedMsg:
		p.st.ApplyRemoved(msg.ID)
		p.rebuildRows()
		return p, nil

	case OpFailedMsg:
		p.st.Fail(msg.Op, msg.Err)
		if p.form != nil {
			p.form.SetStatus(p.st.Status())
		}
		return p, nil

	case CloseFormMsg:
		p.form = nil
		p.st.ResetStatus()
		return p, nil

	case FormSubmitMsg:
		if msg.ID == "" {
			p.st.Begin(store.OpCreate)
		} else {
			p.st.Begin(store.OpUpdate)
		}
		if p.form != nil {
			p.form.SetStatus(p.st.Status())
		}
		in := resources.Input{Values: msg.Values, Files: msg.Files}
		if msg.ID == "" {
			return p, tea.Batch(p.spin.Tick, p.createCmd(in))
		}
		return p, tea.Batch(p.spin.Tick, p.updateCmd(msg.ID, in))

	case FormCancelMsg:
		p.form = nil
		p.st.ResetStatus()
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return p, nil
}

// afterWriteSuccess lets the form show its success affordance briefly before
// closing. Without an open form (inline ops) the status is cleared at once.
func (p *ResourcePage[T]) afterWriteSuccess() tea.Cmd {
	if p.form == nil {
		p.st.ResetStatus()
		return nil
	}
	p.form.SetStatus(p.st.Status())
	name := p.desc.Name
	return tea.Tick(successCloseDelay, func(time.Time) tea.Msg {
		return CloseFormMsg{PageName: name}
	})
}

func (p *ResourcePage[T]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal form swallows all keys.
	if p.form != nil {
		form, cmd := p.form.Update(msg)
		p.form = &form
		return p, cmd
	}

	// Delete confirmation prompt.
	if p.confirmID != "" {
		switch msg.String() {
		case "y", "Y":
			id := p.confirmID
			p.confirmID = ""
			p.st.Begin(store.OpDelete)
			return p, tea.Batch(p.spin.Tick, p.deleteCmd(id))
		case "n", "N", "esc":
			p.confirmID = ""
		}
		return p, nil
	}

	if p.filterFocused {
		switch msg.String() {
		case "enter", "esc":
			p.filterFocused = false
			p.filter.Blur()
			return p, nil
		}
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		p.pag.Page = 0
		p.rebuildRows()
		return p, cmd
	}

	switch msg.String() {
	case "/":
		p.filterFocused = true
		p.filter.Focus()
		return p, nil
	case "r":
		p.st.Begin(store.OpFetch)
		return p, tea.Batch(p.spin.Tick, p.fetchCmd())
	case "n":
		p.st.ResetStatus()
		form := NewForm(p.styles, p.desc.Name, p.desc.Title, p.desc.Form, map[string]string{}, "")
		form.preview = p.desc.Preview
		p.form = &form
		return p, nil
	case "enter":
		if rec, ok := p.selected(); ok {
			p.st.ResetStatus()
			initial := resources.Seed(rec, p.desc.Form)
			form := NewForm(p.styles, p.desc.Name, p.desc.Title, p.desc.Form, initial, rec.RecordID())
			form.preview = p.desc.Preview
			p.form = &form
		}
		return p, nil
	case "d":
		if rec, ok := p.selected(); ok {
			p.confirmID = rec.RecordID()
		}
		return p, nil
	case "left", "h":
		if p.pag.Page > 0 {
			p.pag.Page--
			p.rebuildRows()
		}
		return p, nil
	case "right", "l":
		if p.pag.Page < p.pag.TotalPages-1 {
			p.pag.Page++
			p.rebuildRows()
		}
		return p, nil
	case "esc":
		if p.filter.Value() != "" {
			p.filter.SetValue("")
			p.pag.Page = 0
			p.rebuildRows()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p *ResourcePage[T]) selected() (T, bool) {
	idx := p.table.Cursor()
	if idx < 0 || idx >= len(p.visible) {
		var zero T
		return zero, false
	}
	return p.visible[idx], true
}

// rebuildRows recomputes the filtered view and the current page slice. Purely
// derived from the store's collection and the query; never mutates either.
func (p *ResourcePage[T]) rebuildRows() {
	filtered := resources.Filter(p.st.Records(), p.filter.Value(), p.desc.SearchText)
	p.pag.SetTotalPages(max(len(filtered), 1))
	if p.pag.Page >= p.pag.TotalPages {
		p.pag.Page = p.pag.TotalPages - 1
	}
	p.visible = resources.Paginate(filtered, p.pag.Page, p.desc.PageSize)

	rows := make([]table.Row, len(p.visible))
	for i, rec := range p.visible {
		row := make(table.Row, len(p.desc.Columns))
		for j, col := range p.desc.Columns {
			row[j] = col.Value(rec)
		}
		rows[i] = row
	}
	p.table.SetRows(rows)
	if p.table.Cursor() >= len(rows) && len(rows) > 0 {
		p.table.SetCursor(len(rows) - 1)
	}
}

// Busy reports whether the page is in a modal state (form, confirm prompt or
// focused filter) and should keep receiving Esc instead of the console
// treating it as "back to menu".
func (p *ResourcePage[T]) Busy() bool {
	return p.form != nil || p.confirmID != "" || p.filterFocused || p.filter.Value() != ""
}

// FilteredCount returns how many records match the current query.
func (p *ResourcePage[T]) FilteredCount() int {
	return len(resources.Filter(p.st.Records(), p.filter.Value(), p.desc.SearchText))
}

// View implements tea.Model.
func (p *ResourcePage[T]) View() string {
	if p.form != nil {
		return p.styles.Content.Render(p.form.View())
	}

	var sb strings.Builder
	sb.WriteString(p.styles.Header.Render(" " + p.desc.Title + " "))
	sb.WriteString("\n\n")

	st := p.st.Status()

	// Filter bar
	box := p.styles.InputBox
	if p.filterFocused {
		box = p.styles.FocusedBox
	}
	sb.WriteString(box.Render(p.filter.View()))
	if st.Pending() {
		sb.WriteString("  " + p.spin.View())
	}
	sb.WriteString("\n")

	if st.Loading && !p.st.Fetched() {
		sb.WriteString("\n" + p.styles.Muted.Render("Loading "+p.desc.Title+"...") + "\n")
	} else {
		sb.WriteString(p.styles.Content.Render(p.table.View()))
		sb.WriteString("\n  " + p.pag.View() + "\n")
		total, shown := p.st.Len(), p.FilteredCount()
		if shown != total {
			sb.WriteString(p.styles.Muted.Render(fmt.Sprintf("  %d of %d match", shown, total)) + "\n")
		}
	}

	if st.Err != nil {
		// No form is open here, so field-keyed errors (a rejected delete)
		// flatten into the banner rather than vanishing.
		msg := st.Err.Message
		if st.Err.Kind == api.Fielded {
			msg = st.Err.Error()
		}
		sb.WriteString("\n" + p.styles.Error.Render(msg) + "\n")
	}

	if p.confirmID != "" {
		sb.WriteString("\n" + p.styles.Warning.Render(fmt.Sprintf("Delete record %s? [y/n]", p.confirmID)) + "\n")
	}

	sb.WriteString("\n" + p.styles.Footer.Render("[/] Filter  [n] New  [Enter] Edit  [d] Delete  [r] Refresh  [←/→] Page  [Esc] Back"))
	return sb.String()
}
