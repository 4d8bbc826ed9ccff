package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the game screen.
type KeyMap struct {
	// Lobby
	Seat  key.Binding
	Start key.Binding

	// Turn
	Shoot   key.Binding
	UseItem key.Binding
	Boost   key.Binding

	// Log
	Up   key.Binding
	Down key.Binding

	NewGame key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Seat: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "seat player"),
		),
		Start: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "start"),
		),
		Shoot: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "shoot"),
		),
		UseItem: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "items"),
		),
		Boost: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "boost"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "pgup"),
			key.WithHelp("↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "pgdown"),
			key.WithHelp("↓", "scroll down"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// phaseKeys narrows the help view to the bindings live in a phase.
type phaseKeys struct {
	keys  KeyMap
	phase phase
}

// ShortHelp implements help.KeyMap.
func (k phaseKeys) ShortHelp() []key.Binding {
	switch k.phase {
	case phaseLobby:
		return []key.Binding{k.keys.Seat, k.keys.Start, k.keys.Quit}
	case phasePlaying:
		return []key.Binding{k.keys.Shoot, k.keys.UseItem, k.keys.Boost, k.keys.Help, k.keys.Quit}
	default:
		return []key.Binding{k.keys.NewGame, k.keys.Quit}
	}
}

// FullHelp implements help.KeyMap.
func (k phaseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.keys.Up, k.keys.Down},
	}
}
