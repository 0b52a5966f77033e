package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
)

func TestKeyBindingMatches(t *testing.T) {
	tests := []struct {
		name     string
		binding  KeyBinding
		msg      tea.KeyMsg
		expected bool
	}{
		{
			name:     "simple rune match",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}},
			expected: true,
		},
		{
			name:     "simple rune mismatch",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'a'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}},
			expected: false,
		},
		{
			name:     "special key match",
			binding:  KeyBinding{KeyType: tea.KeyCtrlL},
			msg:      tea.KeyMsg{Type: tea.KeyCtrlL},
			expected: true,
		},
		{
			name:     "special key mismatch",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEsc},
			expected: false,
		},
		{
			name:     "alt modifier required",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x', Modifiers: ModAlt},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}},
			expected: false,
		},
		{
			name:     "alt press does not match plain binding",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true},
			expected: false,
		},
		{
			name:     "rune binding ignores special keys",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'q'},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.msg); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultKeymap_Lookup(t *testing.T) {
	km := DefaultKeymap()
	tests := []struct {
		mode Mode
		msg  tea.KeyMsg
		want Command
	}{
		{ModeLogin, tea.KeyMsg{Type: tea.KeyEnter}, CmdSubmit},
		{ModeWizard, tea.KeyMsg{Type: tea.KeyEnter}, CmdContinue},
		{ModeWizard, tea.KeyMsg{Type: tea.KeyCtrlL}, CmdLogout},
		{ModeForm, tea.KeyMsg{Type: tea.KeyCtrlS}, CmdSubmit},
		{ModeForm, tea.KeyMsg{Type: tea.KeyCtrlL}, CmdLogout},
		{ModeSelect, tea.KeyMsg{Type: tea.KeyRight}, CmdCycleNext},
		{ModeDashboard, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, CmdApprove},
		{ModeDashboard, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, CmdNewGoal},
		{ModeDashboard, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}, CmdRefresh},
		{ModeDashboard, tea.KeyMsg{Type: tea.KeyCtrlL}, CmdLogout},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.msg.String(), func(t *testing.T) {
			got, ok := km.GetBinding(tt.msg, tt.mode)
			if !ok || got != tt.want {
				t.Errorf("GetBinding() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}
}

func TestFormModeLeavesTypingAlone(t *testing.T) {
	km := DefaultKeymap()
	for _, r := range "aqnrjkhl " {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if cmd, ok := km.GetBinding(msg, ModeForm); ok {
			t.Errorf("typing %q in a form triggers %s", r, cmd)
		}
	}
}

func TestHelp(t *testing.T) {
	got := DefaultKeymap().Help(ModeDashboard)
	want := []HelpEntry{
		{Key: "down", Description: "select"},
		{Key: "a", Description: "approve"},
		{Key: "n", Description: "new goal"},
		{Key: "r", Description: "refresh"},
		{Key: "ctrl+l", Description: "log out"},
		{Key: "ctrl+c", Description: "quit"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Help() mismatch (-want +got):\n%s", diff)
	}
}
