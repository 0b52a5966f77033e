// Package util provides text and number formatting shared by the CLI and TUI.
package util

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// TruncateString shortens s to maxLen runes, ending in "..." if truncated.
// It does not account for ANSI escape codes; use TruncateANSI for styled text.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// TruncateANSI shortens s to maxWidth visual columns, preserving escape
// sequences and wide characters.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, "...")
}

// Preview returns the first n runes of s followed by "..." when s is longer
// than n. Shorter text is returned unchanged.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}

// FormatAmount renders a target or actual with thousands separators and at
// most two decimals, e.g. 1250 -> "1,250" and 12.5 -> "12.5".
func FormatAmount(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

// Percent renders a percentage rounded to a whole number, e.g. "85%".
func Percent(v float64) string {
	return humanize.Ftoa(math.Round(v)) + "%"
}

// Plural returns "1 goal" or "3 goals".
func Plural(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return humanize.Comma(int64(n)) + " " + singular + "s"
}
