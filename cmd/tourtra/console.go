package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tourtra/cmd/tourtra/ui"
	"tourtra/internal/api"
	"tourtra/internal/config"
	"tourtra/internal/resources"
	"tourtra/internal/session"
	"tourtra/internal/store"
)

// silentRefreshMsg carries the settled session state after the one-time
// refresh attempt at startup.
type silentRefreshMsg session.State

// pageEntry is one protected section of the console. Pages are created on
// authentication and dropped wholesale on logout, so no record from a
// previous session can remain visible.
type pageEntry struct {
	name   string
	title  string
	model  tea.Model
	inited bool
}

type busyPage interface{ Busy() bool }

// consoleModel is the root bubbletea model: it owns the session guard state
// machine and routes messages to the page models.
type consoleModel struct {
	cfg       *config.Config
	styles    ui.Styles
	manager   *session.Manager
	transport *api.Client
	log       *zap.Logger

	state    session.State
	login    *ui.LoginPage
	pages    []pageEntry
	menuIdx  int
	active   int // -1 = section menu
	resumeTo int // page to restore after a forced re-login
	showHelp bool
	spin     spinner.Model

	width  int
	height int
}

func newConsoleModel(cfg *config.Config, manager *session.Manager, transport *api.Client, log *zap.Logger) *consoleModel {
	styles := ui.NewStyles(ui.ResolveTheme(cfg.Theme))
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return &consoleModel{
		cfg:       cfg,
		styles:    styles,
		manager:   manager,
		transport: transport,
		log:       log,
		state:     manager.State(),
		login:     ui.NewLoginPage(manager, styles),
		active:    -1,
		resumeTo:  -1,
		spin:      sp,
	}
}

// buildPages instantiates every protected section with fresh stores.
func (m *consoleModel) buildPages() {
	t, s := m.transport, m.styles
	m.pages = []pageEntry{
		page(resources.Departments(), t, s),
		page(resources.Admins(), t, s),
		page(resources.Employees(), t, s),
		page(resources.Clients(), t, s),
		page(resources.Chantiers(), t, s),
		page(resources.Items(), t, s),
		page(resources.Invoices(), t, s),
		page(resources.Quotes(), t, s),
		page(resources.PurchaseOrders(), t, s),
		page(resources.Expenses(), t, s),
		page(resources.FixedCharges(), t, s),
		page(resources.EOSBs(), t, s),
		page(resources.Attendances(), t, s),
	}
	m.menuIdx = 0
	m.active = -1
}

func page[T store.Record](desc resources.Descriptor[T], transport *api.Client, styles ui.Styles) pageEntry {
	client := resources.NewClient[T](transport, desc.Path)
	return pageEntry{
		name:  desc.Name,
		title: desc.Title,
		model: ui.NewResourcePage(desc, client, styles),
	}
}

// Init implements tea.Model.
func (m *consoleModel) Init() tea.Cmd {
	if m.state == session.StateUnknown {
		return tea.Batch(m.spin.Tick, m.silentRefreshCmd())
	}
	return nil
}

func (m *consoleModel) silentRefreshCmd() tea.Cmd {
	manager := m.manager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return silentRefreshMsg(manager.SilentRefresh(ctx))
	}
}

// logout drops every page (and with them every store) and returns to the
// login screen.
func (m *consoleModel) logout() {
	m.manager.Logout()
	m.pages = nil
	m.state = session.StateAnonymous
	m.active = -1
	m.login = ui.NewLoginPage(m.manager, m.styles)
}

// Update implements tea.Model.
func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		var cmds []tea.Cmd
		for i := range m.pages {
			model, cmd := m.pages[i].model.Update(msg)
			m.pages[i].model = model
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state == session.StateUnknown {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m.routeToActive(msg)

	case silentRefreshMsg:
		m.state = session.State(msg)
		m.log.Info("silent refresh settled", zap.String("state", m.state.String()))
		if m.state == session.StateAuthenticated {
			m.buildPages()
		}
		return m, nil

	case ui.LoginResultMsg:
		model, cmd := m.login.Update(msg)
		m.login = model.(*ui.LoginPage)
		if msg.Err == nil {
			m.state = session.StateAuthenticated
			m.buildPages()
			// A forced re-login returns the operator where they were.
			if m.resumeTo >= 0 && m.resumeTo < len(m.pages) {
				return m, m.openPage(m.resumeTo)
			}
			m.resumeTo = -1
		}
		return m, cmd

	case ui.SessionExpiredMsg:
		m.log.Info("session expired, forcing logout")
		m.resumeTo = m.active
		m.logout()
		return m, nil

	case ui.PageMsg:
		// Async results are routed to the owning page even when it is not
		// the visible one; a store update on a background page is harmless.
		for i := range m.pages {
			if m.pages[i].name == msg.Page() {
				model, cmd := m.pages[i].model.Update(msg)
				m.pages[i].model = model
				return m, cmd
			}
		}
		return m, nil
	}
	return m.routeToActive(msg)
}

func (m *consoleModel) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state != session.StateAuthenticated {
		model, cmd := m.login.Update(msg)
		m.login = model.(*ui.LoginPage)
		return m, cmd
	}
	if m.active >= 0 && m.active < len(m.pages) {
		model, cmd := m.pages[m.active].model.Update(msg)
		m.pages[m.active].model = model
		return m, cmd
	}
	return m, nil
}

func (m *consoleModel) openPage(i int) tea.Cmd {
	m.active = i
	m.resumeTo = -1
	if !m.pages[i].inited {
		m.pages[i].inited = true
		return m.pages[i].model.Init()
	}
	return nil
}

func (m *consoleModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case session.StateUnknown:
		// Neither protected content nor a login prompt while the silent
		// refresh is pending.
		return m, nil
	case session.StateAnonymous:
		return m.routeToActive(msg)
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	// Section menu.
	if m.active < 0 {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "L":
			m.logout()
			return m, nil
		case "up", "k":
			if m.menuIdx > 0 {
				m.menuIdx--
			}
			return m, nil
		case "down", "j":
			if m.menuIdx < len(m.pages)-1 {
				m.menuIdx++
			}
			return m, nil
		case "enter":
			return m, m.openPage(m.menuIdx)
		}
		return m, nil
	}

	// Inside a page: Esc returns to the menu unless the page is mid-form,
	// mid-confirm or filtering.
	if msg.String() == "esc" {
		if bp, ok := m.pages[m.active].model.(busyPage); !ok || !bp.Busy() {
			m.active = -1
			return m, nil
		}
	}
	return m.routeToActive(msg)
}

// View implements tea.Model.
func (m *consoleModel) View() string {
	switch m.state {
	case session.StateUnknown:
		return m.styles.Content.Render(m.spin.View() + m.styles.Muted.Render(" Restoring session..."))
	case session.StateAnonymous:
		return m.login.View()
	}

	var sb strings.Builder
	sess := m.manager.Snapshot()
	header := " TOURTRA "
	if sess.User != nil {
		header = fmt.Sprintf(" TOURTRA — %s (%s) ", sess.User.FullName, sess.User.Role)
	}
	sb.WriteString(m.styles.Header.Render(header))
	sb.WriteString("\n\n")

	switch {
	case m.showHelp:
		sb.WriteString(ui.RenderHelp(m.width, m.styles.Theme.IsDark))
	case m.active >= 0 && m.active < len(m.pages):
		sb.WriteString(m.pages[m.active].model.View())
	default:
		sb.WriteString(m.styles.Title.Render("Sections"))
		sb.WriteString("\n")
		for i, p := range m.pages {
			cursor := "  "
			line := m.styles.Body.Render(p.title)
			if i == m.menuIdx {
				cursor = m.styles.Bold.Render("> ")
				line = m.styles.Bold.Render(p.title)
			}
			sb.WriteString(cursor + line + "\n")
		}
		sb.WriteString("\n" + m.styles.Footer.Render("[Enter] Open  [?] Help  [L] Log out  [q] Quit"))
	}
	return sb.String()
}
