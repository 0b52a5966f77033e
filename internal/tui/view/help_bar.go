package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartel/whygo/internal/tui/keymap"
	"github.com/kartel/whygo/internal/tui/styles"
)

// AppTitle is shown at the left of the header.
const AppTitle = "WhyGO 2026"

// RenderHeader renders the title line with the signed-in person on the
// right. An empty name renders the title alone.
func RenderHeader(s *styles.Styles, subtitle, personName string, width int) string {
	left := AppTitle
	if subtitle != "" {
		left += s.Muted.Render(" · " + subtitle)
	}
	if personName == "" {
		return s.Header.Width(width).Render(left)
	}
	right := s.Muted.Render(personName)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return s.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderHelp renders the key hints of a mode on one line.
func RenderHelp(s *styles.Styles, entries []keymap.HelpEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = s.HelpKey.Render("["+e.Key+"]") + " " + e.Description
	}
	return s.HelpBar.Render(strings.Join(parts, "  "))
}

// NoticeKind selects the style of a status line.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// RenderNotice renders a one-line status message. Empty text renders
// nothing.
func RenderNotice(s *styles.Styles, kind NoticeKind, text string) string {
	if text == "" {
		return ""
	}
	switch kind {
	case NoticeSuccess:
		return s.SuccessMsg.Render(text)
	case NoticeError:
		return s.ErrorMsg.Render(text)
	case NoticeInfo:
		return s.WarningMsg.Render(text)
	}
	return text
}
