package styles

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile represents a custom theme definition loaded from YAML.
// Colors left empty fall back to the default palette.
type ThemeFile struct {
	// Name is the theme's display name
	Name string `yaml:"name"`
	// Author is the theme creator's name (optional)
	Author string `yaml:"author,omitempty"`
	// Version is the theme file format version; empty means "1"
	Version string      `yaml:"version,omitempty"`
	Colors  ThemeColors `yaml:"colors"`
}

// ThemeColors contains the color definitions for a theme.
// All colors should be hex format (#RRGGBB or #RGB).
type ThemeColors struct {
	Primary   string `yaml:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty"`
	Warning   string `yaml:"warning,omitempty"`
	Error     string `yaml:"error,omitempty"`
	Muted     string `yaml:"muted,omitempty"`
	Surface   string `yaml:"surface,omitempty"`
	Text      string `yaml:"text,omitempty"`
	Border    string `yaml:"border,omitempty"`

	Status ThemeStatusColors `yaml:"status,omitempty"`
}

// ThemeStatusColors defines colors for goal statuses.
type ThemeStatusColors struct {
	OnTrack        string `yaml:"on_track,omitempty"`
	SlightlyBehind string `yaml:"slightly_behind,omitempty"`
	OffTrack       string `yaml:"off_track,omitempty"`
	NotStarted     string `yaml:"not_started,omitempty"`
}

// hexColorRegex validates hex color format.
var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}
	if t.Version != "" && t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	for _, c := range t.colorFields() {
		if c.value != "" && !isValidHexColor(c.value) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.value)
		}
	}
	return nil
}

type namedColor struct {
	name  string
	value string
}

func (t *ThemeFile) colorFields() []namedColor {
	c := t.Colors
	return []namedColor{
		{"primary", c.Primary},
		{"secondary", c.Secondary},
		{"warning", c.Warning},
		{"error", c.Error},
		{"muted", c.Muted},
		{"surface", c.Surface},
		{"text", c.Text},
		{"border", c.Border},
		{"status.on_track", c.Status.OnTrack},
		{"status.slightly_behind", c.Status.SlightlyBehind},
		{"status.off_track", c.Status.OffTrack},
		{"status.not_started", c.Status.NotStarted},
	}
}

// isValidHexColor checks if a string is a valid hex color.
func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette overlays the theme's colors on the default palette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	p := DefaultPalette()
	c := t.Colors
	overlay(&p.Primary, c.Primary)
	overlay(&p.Secondary, c.Secondary)
	overlay(&p.Warning, c.Warning)
	overlay(&p.Error, c.Error)
	overlay(&p.Muted, c.Muted)
	overlay(&p.Surface, c.Surface)
	overlay(&p.Text, c.Text)
	overlay(&p.Border, c.Border)
	overlay(&p.OnTrack, c.Status.OnTrack)
	overlay(&p.SlightlyBehind, c.Status.SlightlyBehind)
	overlay(&p.OffTrack, c.Status.OffTrack)
	overlay(&p.NotStarted, c.Status.NotStarted)
	return p
}

func overlay(dst *lipgloss.Color, color string) {
	if color != "" {
		*dst = lipgloss.Color(color)
	}
}

// ResolvePalette returns the palette for a built-in theme name or a YAML
// theme file path.
func ResolvePalette(theme string) (*ColorPalette, error) {
	if theme == "" || IsBuiltinTheme(theme) {
		return GetPalette(ThemeName(theme)), nil
	}
	file, err := LoadThemeFile(theme)
	if err != nil {
		return nil, err
	}
	return file.ToPalette(), nil
}

// ExportTheme renders a built-in theme as a YAML theme file, a starting
// point for customization.
func ExportTheme(name ThemeName) ([]byte, error) {
	p := GetPalette(name)
	file := &ThemeFile{
		Name:    string(name),
		Version: "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Status: ThemeStatusColors{
				OnTrack:        string(p.OnTrack),
				SlightlyBehind: string(p.SlightlyBehind),
				OffTrack:       string(p.OffTrack),
				NotStarted:     string(p.NotStarted),
			},
		},
	}
	return yaml.Marshal(file)
}
