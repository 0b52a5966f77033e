// Package tui provides the terminal user interface for WhyGO.
// This file contains layout-related constants and dimension calculation functions.
package tui

import "github.com/kartel/whygo/internal/tui/styles"

// Sidebar dimensions
const (
	// SidebarWidth is the default width of the dashboard's goals context sidebar.
	SidebarWidth = 34

	// SidebarMinWidth is the minimum sidebar width used on narrow terminals (< 80 cols).
	SidebarMinWidth = 24

	// NarrowTerminalThreshold is the terminal width below which the sidebar uses minimum width.
	NarrowTerminalThreshold = 80
)

// Layout offsets
const (
	// PanelGap is the gap between the sidebar and the main column.
	PanelGap = 2

	// FormFieldWidth is the width of the goal form's text areas.
	FormFieldWidth = 72

	// DefaultWidth is assumed until the first tea.WindowSizeMsg arrives.
	DefaultWidth = 100
)

// SidebarWidthFor returns the sidebar width for a terminal width.
func SidebarWidthFor(termWidth int) int {
	if termWidth < NarrowTerminalThreshold {
		return SidebarMinWidth
	}
	return SidebarWidth
}

// MainWidthFor returns the width left for the dashboard's main column.
func MainWidthFor(termWidth int) int {
	w := termWidth - SidebarWidthFor(termWidth) - PanelGap
	if w < 20 {
		return 20
	}
	return w
}

// BodyHeightFor returns the rows available between the header and the help bar.
func BodyHeightFor(termHeight int) int {
	h := termHeight - styles.HeaderFooterReserved
	if h < 1 {
		return 1
	}
	return h
}
