package ui

import (
	tea "charm.land/bubbletea/v2"
)

// Action is what a key press asks the navigator to do.
type Action string

const (
	ActionNone   Action = ""
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionSelect Action = "select"
	ActionBack   Action = "back"
	ActionTrail  Action = "trail"
	ActionReset  Action = "reset"
	ActionFilter Action = "filter"
	ActionFocus  Action = "focus"
	ActionClear  Action = "clear"
	ActionQuit   Action = "quit"
)

// KeyBindings maps key strings, as reported by tea.KeyPressMsg.String, to
// actions. Digits are handled separately as trail jumps.
var KeyBindings = map[string]Action{
	"up":        ActionUp,
	"k":         ActionUp,
	"down":      ActionDown,
	"j":         ActionDown,
	"enter":     ActionSelect,
	"right":     ActionSelect,
	"l":         ActionSelect,
	"left":      ActionBack,
	"backspace": ActionBack,
	"h":         ActionBack,
	"r":         ActionReset,
	"/":         ActionFilter,
	"tab":       ActionFocus,
	"esc":       ActionClear,
	"q":         ActionQuit,
	"ctrl+c":    ActionQuit,
}

// HelpText is the one-line key summary shown in the footer.
const HelpText = "↑↓/jk move  enter/l select  ←/h back  0-9 trail  / filter  tab pane  r reset  q quit"

// actionFor resolves msg to an action. For ActionTrail the second result is
// the trail index.
func actionFor(msg tea.KeyPressMsg) (Action, int) {
	if msg.Key().Code == 0x03 {
		return ActionQuit, 0
	}
	key := msg.String()
	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return ActionTrail, int(key[0] - '0')
	}
	if a, ok := KeyBindings[key]; ok {
		return a, 0
	}
	return ActionNone, 0
}
