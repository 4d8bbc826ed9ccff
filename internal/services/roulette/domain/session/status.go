package session

import "fmt"

// Status is the lifecycle state of a session.
type Status uint8

const (
	// StatusWaiting accepts joins until the game starts.
	StatusWaiting Status = iota
	// StatusPlaying accepts actions from the current player.
	StatusPlaying
	// StatusFinished is terminal.
	StatusFinished
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusWaiting:
		return next == StatusPlaying
	case StatusPlaying:
		return next == StatusFinished
	default:
		return false
	}
}

// Action is a move the current player may make.
type Action uint8

const (
	// ActionShoot fires the next round at the acting player.
	ActionShoot Action = iota + 1
	// ActionUseItem opens the acting player's inventory.
	ActionUseItem
)

// String returns the wire name of the action.
func (a Action) String() string {
	switch a {
	case ActionShoot:
		return "shoot"
	case ActionUseItem:
		return "use_item"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ParseAction maps a wire name to an Action.
func ParseAction(value string) (Action, bool) {
	switch value {
	case "shoot":
		return ActionShoot, true
	case "use_item":
		return ActionUseItem, true
	default:
		return 0, false
	}
}
