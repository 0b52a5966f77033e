package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartel/whygo/internal/progress"
)

// Layout constants shared by every screen.
const (
	// HeaderLines is the header text plus PaddingBottom, BorderBottom and
	// MarginBottom.
	HeaderLines = 4
	// HelpBarLines is MarginTop plus the help text.
	HelpBarLines = 2
	// HeaderFooterReserved is the height no screen body may use.
	HeaderFooterReserved = HeaderLines + HelpBarLines
)

// Styles contains every lipgloss style built from a color palette.
type Styles struct {
	Palette *ColorPalette

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Header   lipgloss.Style

	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	Panel        lipgloss.Style
	PanelTitle   lipgloss.Style
	SectionTitle lipgloss.Style
	Selected     lipgloss.Style

	ErrorMsg   lipgloss.Style
	SuccessMsg lipgloss.Style
	WarningMsg lipgloss.Style

	// Wizard step indicator
	StepActive  lipgloss.Style
	StepDone    lipgloss.Style
	StepPending lipgloss.Style

	Badge       lipgloss.Style
	FieldLabel  lipgloss.Style
	FieldActive lipgloss.Style
	CounterOver lipgloss.Style
}

// New builds the styles for a palette.
func New(p *ColorPalette) *Styles {
	s := &Styles{Palette: p}

	s.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	s.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Foreground(p.Error)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Text = lipgloss.NewStyle().Foreground(p.Text)

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)

	s.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		MarginBottom(1).
		PaddingBottom(1)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)

	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	s.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)

	s.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Muted)

	s.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary)

	s.ErrorMsg = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	s.SuccessMsg = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	s.WarningMsg = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	s.StepActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary).
		Padding(0, 1)

	s.StepDone = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Padding(0, 1)

	s.StepPending = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)

	s.Badge = lipgloss.NewStyle().
		Foreground(p.Surface).
		Background(p.Secondary).
		Padding(0, 1)

	s.FieldLabel = lipgloss.NewStyle().
		Foreground(p.Muted)

	s.FieldActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary)

	s.CounterOver = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	return s
}

// Default returns the styles of the default theme.
func Default() *Styles {
	return New(DefaultPalette())
}

// StatusColor returns the palette color for a goal status.
func (s *Styles) StatusColor(status progress.Status) lipgloss.Color {
	switch status {
	case progress.StatusOnTrack:
		return s.Palette.OnTrack
	case progress.StatusSlightlyBehind:
		return s.Palette.SlightlyBehind
	case progress.StatusOffTrack:
		return s.Palette.OffTrack
	case progress.StatusNotStarted:
		return s.Palette.NotStarted
	}
	return s.Palette.Muted
}

// StatusIcon returns an icon for a goal status.
func StatusIcon(status progress.Status) string {
	switch status {
	case progress.StatusOnTrack:
		return "●"
	case progress.StatusSlightlyBehind:
		return "◐"
	case progress.StatusOffTrack:
		return "✗"
	case progress.StatusNotStarted:
		return "○"
	}
	return "○"
}

// StatusDot renders the colored icon for a status.
func (s *Styles) StatusDot(status progress.Status) string {
	return lipgloss.NewStyle().Foreground(s.StatusColor(status)).Render(StatusIcon(status))
}

// StatusLabel renders the colored icon and label for a status.
func (s *Styles) StatusLabel(status progress.Status) string {
	return lipgloss.NewStyle().
		Foreground(s.StatusColor(status)).
		Render(StatusIcon(status) + " " + status.Label())
}

// ProgressBar renders a bar width cells wide filled to pct, clamped to
// 0..100. A nil pct renders empty.
func (s *Styles) ProgressBar(status progress.Status, pct *float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(progress.Clamp(pct) / 100 * float64(width))
	fill := lipgloss.NewStyle().Foreground(s.StatusColor(status)).Render(strings.Repeat("█", filled))
	return fill + s.Muted.Render(strings.Repeat("░", width-filled))
}
