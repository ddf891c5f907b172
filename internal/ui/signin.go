package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/config"
)

// signInState holds the sign-in form.
type signInState struct {
	email          textinput.Model
	password       textinput.Model
	focusIdx       int // 0 = email, 1 = password
	errMsg         string
	busy           bool
	allowAnonymous bool
}

func newSignInState(cfg *config.Config) signInState {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 100

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	s := signInState{
		email:          email,
		password:       password,
		allowAnonymous: true,
	}

	if cfg != nil {
		s.allowAnonymous = cfg.AllowAnonymous
		s.email.SetValue(cfg.Email)
	}

	// Land on the first empty field.
	if s.email.Value() != "" {
		s.focusIdx = 1
		s.password.Focus()
	} else {
		s.email.Focus()
	}

	return s
}

// focusCmd returns the cursor blink command for the focused field.
func (s signInState) focusCmd() tea.Cmd {
	return textinput.Blink
}

// toggleFocus moves focus between the two fields.
func (s *signInState) toggleFocus() {
	s.focusIdx = (s.focusIdx + 1) % 2
	if s.focusIdx == 0 {
		s.email.Focus()
		s.password.Blur()
	} else {
		s.password.Focus()
		s.email.Blur()
	}
}

// Messages

type signInMsg struct {
	session bangtin.Session
	err     error
}

type signOutMsg struct {
	err error
}

// Commands

func signInCmd(ctx context.Context, auth bangtin.Authenticator, email, password string) tea.Cmd {
	return func() tea.Msg {
		session, err := auth.SignIn(ctx, email, password)
		return signInMsg{session: session, err: err}
	}
}

func signOutCmd(ctx context.Context, auth bangtin.Authenticator, session bangtin.Session) tea.Cmd {
	return func() tea.Msg {
		return signOutMsg{err: auth.SignOut(ctx, session)}
	}
}

// handleSignInKey processes keyboard input for the sign-in form.
func (m Model) handleSignInKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab", "shift+tab", "up", "down":
		m.signIn.toggleFocus()
		return m, nil

	case "esc":
		if m.signIn.allowAnonymous {
			return m.startAnonymous()
		}
		return m, nil

	case "enter":
		if m.signIn.busy {
			return m, nil
		}
		if m.signIn.focusIdx == 0 {
			// Enter on the email field moves on instead of submitting.
			m.signIn.toggleFocus()
			return m, nil
		}
		email := strings.TrimSpace(m.signIn.email.Value())
		password := m.signIn.password.Value()
		if email == "" || password == "" {
			m.signIn.errMsg = "email and password are required"
			return m, nil
		}
		if m.auth == nil {
			m.signIn.errMsg = "no identity service configured"
			return m, nil
		}
		m.signIn.errMsg = ""
		m.signIn.busy = true
		return m, signInCmd(m.ctx, m.auth, email, password)
	}

	// Route remaining keys to the focused field.
	var cmd tea.Cmd
	if m.signIn.focusIdx == 0 {
		m.signIn.email, cmd = m.signIn.email.Update(msg)
	} else {
		m.signIn.password, cmd = m.signIn.password.Update(msg)
	}
	if m.signIn.errMsg != "" && msg.Type == tea.KeyRunes {
		m.signIn.errMsg = ""
	}
	return m, cmd
}

// handleSignInMsg applies the outcome of a sign-in attempt.
func (m Model) handleSignInMsg(msg signInMsg) (tea.Model, tea.Cmd) {
	if m.currentView != ViewSignIn {
		// The user already moved on, e.g. into anonymous browsing.
		return m, nil
	}

	m.signIn.busy = false
	if msg.err != nil {
		m.signIn.errMsg = msg.err.Error()
		m.logger.Warn("sign-in failed", "error", msg.err)
		return m, nil
	}

	m.logger.Info("signed in", "user", msg.session.User.Email)
	m.session = msg.session
	m.currentView = ViewPosts
	return m, m.issueFetch()
}

// startAnonymous enters the grid without credentials.
func (m Model) startAnonymous() (tea.Model, tea.Cmd) {
	m.logger.Info("browsing anonymously")
	m.session = bangtin.AnonymousSession()
	m.currentView = ViewPosts
	return m, m.issueFetch()
}

// renderSignIn renders the sign-in form as a centered modal.
func (m Model) renderSignIn() string {
	styles := m.theme.Styles()

	label := func(text string, focused bool) string {
		if focused {
			return styles.AccentText.Bold(true).Render(text)
		}
		return styles.MutedText.Render(text)
	}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("rao vặt"))
	b.WriteString(styles.MutedText.Render(" · sign in"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 48)))
	b.WriteString("\n\n")
	b.WriteString(label("Email", m.signIn.focusIdx == 0))
	b.WriteString("\n")
	b.WriteString(m.signIn.email.View())
	b.WriteString("\n\n")
	b.WriteString(label("Password", m.signIn.focusIdx == 1))
	b.WriteString("\n")
	b.WriteString(m.signIn.password.View())
	b.WriteString("\n\n")

	switch {
	case m.signIn.busy:
		b.WriteString(styles.WarningText.Render("Signing in..."))
	case m.signIn.errMsg != "":
		b.WriteString(styles.DangerText.Render(truncate(m.signIn.errMsg, 44)))
	default:
		b.WriteString(styles.FaintText.Render("enter: Sign in · tab: Switch field"))
	}
	b.WriteString("\n")

	if m.signIn.allowAnonymous {
		b.WriteString(styles.FaintText.Render("esc: Browse without signing in"))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("ctrl+c: Quit"))

	return m.renderModal("", b.String(), 52)
}
