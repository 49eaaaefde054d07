package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tourtra/internal/session"
)

// LoginResultMsg reports a completed login attempt.
type LoginResultMsg struct {
	Session session.Session
	Err     error
}

// LoginPage is the public area of the console. The console only shows it to
// anonymous sessions; an authenticated session never sees it.
type LoginPage struct {
	styles  Styles
	manager *session.Manager

	email    textinput.Model
	password textinput.Model
	focus    int
	spin     spinner.Model
	pending  bool
	errMsg   string
}

// NewLoginPage builds the login form.
func NewLoginPage(manager *session.Manager, styles Styles) *LoginPage {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 80
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 80
	password.Width = 36

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &LoginPage{styles: styles, manager: manager, email: email, password: password, spin: sp}
}

// Init implements tea.Model.
func (p *LoginPage) Init() tea.Cmd { return nil }

func (p *LoginPage) loginCmd(email, password string) tea.Cmd {
	manager := p.manager
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sess, err := manager.Login(ctx, email, password)
		return LoginResultMsg{Session: sess, Err: err}
	}
}

// Update implements tea.Model.
func (p *LoginPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.pending {
			return p, nil
		}
		var cmd tea.Cmd
		p.spin, cmd = p.spin.Update(msg)
		return p, cmd

	case LoginResultMsg:
		p.pending = false
		if msg.Err != nil {
			// One flat message, never field-level detail.
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		p.errMsg = ""
		return p, nil

	case tea.KeyMsg:
		if p.pending {
			return p, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			p.focus = 1 - p.focus
			if p.focus == 0 {
				p.email.Focus()
				p.password.Blur()
			} else {
				p.password.Focus()
				p.email.Blur()
			}
			return p, nil
		case "enter":
			if p.focus == 0 {
				p.focus = 1
				p.email.Blur()
				p.password.Focus()
				return p, nil
			}
			email := strings.TrimSpace(p.email.Value())
			password := p.password.Value()
			if email == "" || password == "" {
				p.errMsg = "email and password are required"
				return p, nil
			}
			p.pending = true
			p.errMsg = ""
			return p, tea.Batch(p.spin.Tick, p.loginCmd(email, password))
		}
		var cmd tea.Cmd
		if p.focus == 0 {
			p.email, cmd = p.email.Update(msg)
		} else {
			p.password, cmd = p.password.Update(msg)
		}
		return p, cmd
	}
	return p, nil
}

// View implements tea.Model.
func (p *LoginPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("TOURTRA Admin Console"))
	sb.WriteString("\n")
	sb.WriteString(p.styles.Subtitle.Render("Sign in to continue"))
	sb.WriteString("\n\n")

	emailBox, passwordBox := p.styles.InputBox, p.styles.InputBox
	if p.focus == 0 {
		emailBox = p.styles.FocusedBox
	} else {
		passwordBox = p.styles.FocusedBox
	}
	sb.WriteString(p.styles.FieldLabel.Render("Email") + "\n")
	sb.WriteString(emailBox.Render(p.email.View()) + "\n")
	sb.WriteString(p.styles.FieldLabel.Render("Password") + "\n")
	sb.WriteString(passwordBox.Render(p.password.View()) + "\n")

	if p.pending {
		sb.WriteString("\n" + p.spin.View() + p.styles.Muted.Render(" Signing in..."))
	}
	if p.errMsg != "" {
		sb.WriteString("\n" + p.styles.Error.Render(p.errMsg))
	}
	sb.WriteString("\n\n" + p.styles.Footer.Render("[Enter] Sign in  [Ctrl+C] Quit"))
	return p.styles.Content.Render(p.styles.Modal.Render(sb.String()))
}
