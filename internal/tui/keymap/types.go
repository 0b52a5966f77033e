// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per mode so each screen resolves keys to commands
// without its own switch over key strings.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
type Mode string

const (
	ModeLogin     Mode = "login"     // Email entry
	ModeWizard    Mode = "wizard"    // Read-only wizard steps
	ModeForm      Mode = "form"      // Goals step form, keys go to inputs
	ModeSelect    Mode = "select"    // A selector field of the form is focused
	ModeDashboard Mode = "dashboard" // Goal dashboard
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Global commands
const (
	CmdQuit   Command = "quit"
	CmdLogout Command = "logout"
)

// Login and wizard commands
const (
	CmdSubmit        Command = "submit"
	CmdContinue      Command = "continue"
	CmdBack          Command = "back"
	CmdOpenDashboard Command = "open_dashboard"
	CmdScrollUp      Command = "scroll_up"
	CmdScrollDown    Command = "scroll_down"
)

// Form commands
const (
	CmdNextField     Command = "next_field"
	CmdPrevField     Command = "prev_field"
	CmdAddOutcome    Command = "add_outcome"
	CmdRemoveOutcome Command = "remove_outcome"
	CmdCycleNext     Command = "cycle_next"
	CmdCyclePrev     Command = "cycle_prev"
)

// Dashboard commands
const (
	CmdSelectNext Command = "select_next"
	CmdSelectPrev Command = "select_prev"
	CmdApprove    Command = "approve"
	CmdNewGoal    Command = "new_goal"
	CmdRefresh    Command = "refresh"
)

// Modifier represents keyboard modifiers. Ctrl combinations are their own
// tea.KeyType, so only Alt needs a flag.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m&ModAlt != 0 {
		return "alt+"
	}
	return ""
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType
	Rune    rune

	Modifiers Modifier

	Command Command

	// Description is a short label for the help bar. Bindings without one
	// are not shown.
	Description string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// HelpEntry is one "key description" pair of the help bar.
type HelpEntry struct {
	Key         string
	Description string
}

// Help lists the described bindings of a mode, one entry per command, in
// declaration order.
func (km *Keymap) Help(mode Mode) []HelpEntry {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	seen := make(map[Command]bool)
	var entries []HelpEntry
	for _, b := range mb.Bindings {
		if b.Description == "" || seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		entries = append(entries, HelpEntry{Key: b.String(), Description: b.Description})
	}
	return entries
}
