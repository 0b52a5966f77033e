package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/tui/styles"
)

// Login screen texts
const (
	loginIntro       = "Welcome to Kartel's 2026 Strategic Planning. Set your WhyGOs and align with company priorities."
	loginPlaceholder = "your.name@kartel.ai"
	loginButton      = "Continue"
	loginBusy        = "Logging in..."
	loginFailed      = "Login failed"
)

// loginView is the email form.
type loginView struct {
	email   textinput.Model
	loading bool
	err     string
	// notice explains why the person is back on this screen.
	notice string
}

func newLoginView(notice string) *loginView {
	ti := textinput.New()
	ti.Placeholder = loginPlaceholder
	ti.Prompt = ""
	ti.CharLimit = 254
	ti.Width = 40
	ti.Focus()

	return &loginView{email: ti, notice: notice}
}

// value returns the trimmed email.
func (v *loginView) value() string {
	return strings.TrimSpace(v.email.Value())
}

// fail records a sign-in error. Server messages are shown as sent; anything
// without one falls back to a generic line.
func (v *loginView) fail(err error) {
	v.loading = false
	msg := errors.UserMessage(err)
	if !errors.IsUserFacing(err) || msg == "" {
		msg = loginFailed
	}
	v.err = msg
}

// render draws the form. spin is the shared spinner frame shown while
// signing in.
func (v *loginView) render(s *styles.Styles, spin string) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(loginIntro))
	b.WriteString("\n\n")
	if v.notice != "" {
		b.WriteString(s.WarningMsg.Render(v.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(s.FieldLabel.Render("Email"))
	b.WriteString("\n")
	b.WriteString(s.Panel.Render(v.email.View()))
	b.WriteString("\n")
	if v.err != "" {
		b.WriteString(s.ErrorMsg.Render(v.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if v.loading {
		b.WriteString(spin + " " + s.Muted.Render(loginBusy))
	} else {
		b.WriteString(s.Primary.Bold(true).Render("[ " + loginButton + " ]"))
	}
	return b.String()
}
