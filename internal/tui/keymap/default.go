package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeLogin:     defaultLoginBindings(),
			ModeWizard:    defaultWizardBindings(),
			ModeForm:      defaultFormBindings(),
			ModeSelect:    defaultSelectBindings(),
			ModeDashboard: defaultDashboardBindings(),
		},
	}
}

func globalBindings() []KeyBinding {
	return []KeyBinding{
		{KeyType: tea.KeyCtrlL, Command: CmdLogout, Description: "log out"},
		{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit"},
	}
}

// scrollBindings page the screen body. They stay out of the help bar.
func scrollBindings() []KeyBinding {
	return []KeyBinding{
		{KeyType: tea.KeyPgDown, Command: CmdScrollDown},
		{KeyType: tea.KeyPgUp, Command: CmdScrollUp},
	}
}

func defaultLoginBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeLogin,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdSubmit, Description: "sign in"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit"},
			{KeyType: tea.KeyEsc, Command: CmdQuit},
		},
	}
}

func defaultWizardBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeWizard,
		Bindings: append([]KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdContinue, Description: "continue"},
			{KeyType: tea.KeyRight, Command: CmdContinue},
			{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdContinue},
			{KeyType: tea.KeyEsc, Command: CmdBack, Description: "back"},
			{KeyType: tea.KeyLeft, Command: CmdBack},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdBack},
			{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdOpenDashboard, Description: "dashboard"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit},
		}, append(scrollBindings(), globalBindings()...)...),
	}
}

func defaultFormBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeForm,
		Bindings: append([]KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdNextField, Description: "next field"},
			{KeyType: tea.KeyDown, Command: CmdNextField},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevField},
			{KeyType: tea.KeyUp, Command: CmdPrevField},
			{KeyType: tea.KeyCtrlS, Command: CmdSubmit, Description: "submit"},
			{KeyType: tea.KeyCtrlN, Command: CmdAddOutcome, Description: "add outcome"},
			{KeyType: tea.KeyCtrlX, Command: CmdRemoveOutcome, Description: "remove outcome"},
			{KeyType: tea.KeyEsc, Command: CmdBack, Description: "back"},
		}, append(scrollBindings(), globalBindings()...)...),
	}
}

// Selector fields take arrow keys before the form does.
func defaultSelectBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeSelect,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRight, Command: CmdCycleNext, Description: "change"},
			{KeyType: tea.KeySpace, Command: CmdCycleNext},
			{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdCycleNext},
			{KeyType: tea.KeyLeft, Command: CmdCyclePrev},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdCyclePrev},
		},
	}
}

func defaultDashboardBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeDashboard,
		Bindings: append([]KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdSelectNext},
			{KeyType: tea.KeyDown, Command: CmdSelectNext, Description: "select"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdSelectPrev},
			{KeyType: tea.KeyUp, Command: CmdSelectPrev},
			{KeyType: tea.KeyRunes, Rune: 'a', Command: CmdApprove, Description: "approve"},
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdNewGoal, Description: "new goal"},
			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdRefresh, Description: "refresh"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit},
		}, append(scrollBindings(), globalBindings()...)...),
	}
}
