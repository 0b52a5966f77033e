package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeDracula ThemeName = "dracula"
	ThemeNord    ThemeName = "nord" // Cool blue-gray
	ThemeMono    ThemeName = "mono" // Grayscale for limited terminals
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeDracula),
		string(ThemeNord),
		string(ThemeMono),
	}
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (used for emphasis, active elements)
	Primary lipgloss.Color
	// Secondary accent color (used for success states and key hints)
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Muted color (used for de-emphasized text)
	Muted   lipgloss.Color
	Surface lipgloss.Color
	Text    lipgloss.Color
	Border  lipgloss.Color

	// Goal status colors
	OnTrack        lipgloss.Color
	SlightlyBehind lipgloss.Color
	OffTrack       lipgloss.Color
	NotStarted     lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		OnTrack:        lipgloss.Color("#10B981"), // Green
		SlightlyBehind: lipgloss.Color("#FBBF24"), // Yellow
		OffTrack:       lipgloss.Color("#F87171"), // Red
		NotStarted:     lipgloss.Color("#9CA3AF"), // Gray
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		OnTrack:        lipgloss.Color("#50FA7B"),
		SlightlyBehind: lipgloss.Color("#F1FA8C"),
		OffTrack:       lipgloss.Color("#FF5555"),
		NotStarted:     lipgloss.Color("#6272A4"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Frost cyan
		Secondary: lipgloss.Color("#A3BE8C"), // Aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Aurora red
		Muted:     lipgloss.Color("#7B88A1"), // Polar night, lightened
		Surface:   lipgloss.Color("#3B4252"),
		Text:      lipgloss.Color("#ECEFF4"), // Snow storm
		Border:    lipgloss.Color("#4C566A"),

		OnTrack:        lipgloss.Color("#A3BE8C"),
		SlightlyBehind: lipgloss.Color("#EBCB8B"),
		OffTrack:       lipgloss.Color("#BF616A"),
		NotStarted:     lipgloss.Color("#7B88A1"),
	}
}

// MonoPalette returns a grayscale palette. Status is still told apart by
// icon.
func MonoPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#D4D4D4"),
		Warning:   lipgloss.Color("#D4D4D4"),
		Error:     lipgloss.Color("#FFFFFF"),
		Muted:     lipgloss.Color("#8A8A8A"),
		Surface:   lipgloss.Color("#262626"),
		Text:      lipgloss.Color("#EEEEEE"),
		Border:    lipgloss.Color("#6C6C6C"),

		OnTrack:        lipgloss.Color("#FFFFFF"),
		SlightlyBehind: lipgloss.Color("#BCBCBC"),
		OffTrack:       lipgloss.Color("#8A8A8A"),
		NotStarted:     lipgloss.Color("#6C6C6C"),
	}
}

// GetPalette returns the color palette for the given theme name.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	case ThemeMono:
		return MonoPalette()
	case ThemeDefault:
		return DefaultPalette()
	default:
		return DefaultPalette()
	}
}
