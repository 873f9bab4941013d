package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pong/internal/core"
)

// KeyMapper translates Bubble Tea key messages to player actions.
// Player 1 always owns w/s. The arrow keys belong to Player 2 when two
// people share the keyboard and to Player 1 otherwise.
type KeyMapper struct {
	twoPlayers bool
}

// NewKeyMapper creates a key mapper. twoPlayers splits the keyboard.
func NewKeyMapper(twoPlayers bool) *KeyMapper {
	return &KeyMapper{twoPlayers: twoPlayers}
}

// KeyResult describes what a single key press asked for.
type KeyResult struct {
	Player core.PlayerID
	Action core.Action
}

// MapKey translates a key message to a player action.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) KeyResult {
	arrows := core.Player1
	if km.twoPlayers {
		arrows = core.Player2
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return KeyResult{Player: core.Player1, Action: core.ActionQuit}
	case "w":
		return KeyResult{Player: core.Player1, Action: core.ActionUp}
	case "s":
		return KeyResult{Player: core.Player1, Action: core.ActionDown}
	case "up":
		return KeyResult{Player: arrows, Action: core.ActionUp}
	case "down":
		return KeyResult{Player: arrows, Action: core.ActionDown}
	case "p", " ":
		return KeyResult{Player: core.Player1, Action: core.ActionPause}
	case "r":
		return KeyResult{Player: core.Player1, Action: core.ActionRestart}
	case "b", "esc":
		return KeyResult{Player: core.Player1, Action: core.ActionBack}
	}
	return KeyResult{Action: core.ActionNone}
}

// MapKeyToFrame records a key press in the frame.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	res := km.MapKey(msg)
	switch res.Action {
	case core.ActionNone:
		return false
	case core.ActionQuit:
		return true
	}
	frame.Set(res.Player, res.Action)
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
