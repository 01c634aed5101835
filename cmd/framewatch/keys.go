package main

import "github.com/charmbracelet/bubbles/key"

// keyMap generalizes the teacher's plain string keybinding constants
// (internal/tui/keys.go) into bubbles/key bindings, the ecosystem's
// standard way of both matching keys and rendering help text from the
// same declaration.
type keyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	AddTask key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle focus"),
	),
	AddTask: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add demo task"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "cancel selected"),
	),
}

func helpView() string {
	return styleHelp.Render("tab: cycle focus | a: add task | c: cancel selected | q: quit")
}
