package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid editing bindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	Next     key.Binding
	Prev     key.Binding
	ExtUp    key.Binding
	ExtDown  key.Binding
	ExtLeft  key.Binding
	ExtRight key.Binding
	All      key.Binding

	// Clipboard
	Copy        key.Binding
	PasteAfter  key.Binding
	PasteBefore key.Binding
	Duplicate   key.Binding

	// Structure
	Delete       key.Binding
	InsertBefore key.Binding
	InsertAfter  key.Binding
	CycleTiming  key.Binding

	// Values
	Longer        key.Binding
	Shorter       key.Binding
	LongerHalf    key.Binding
	ShorterHalf   key.Binding
	ToggleEnabled key.Binding

	// Fields
	EditDuration key.Binding
	EditReps     key.Binding
	EditName     key.Binding
	EditStart    key.Binding
	EditEnd      key.Binding
	Commit       key.Binding
	CommitHalf   key.Binding
	Cancel       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "Move")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "Move")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "Move")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "Move")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "First frame")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "Last frame")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Next cell")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "Previous cell")),
		ExtUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "Extend")),
		ExtDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "Extend")),
		ExtLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "Extend")),
		ExtRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "Extend")),
		All:      key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "Select all")),

		Copy:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Copy")),
		PasteAfter:  key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "Paste after")),
		PasteBefore: key.NewBinding(key.WithKeys("alt+v"), key.WithHelp("alt+v", "Paste before")),
		Duplicate:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "Duplicate")),

		Delete:       key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "Delete selection")),
		InsertBefore: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Insert before")),
		InsertAfter:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Insert after")),
		CycleTiming:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Cycle edit timing")),

		Longer:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "Longer")),
		Shorter:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "Shorter")),
		LongerHalf:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "Longer by half snap")),
		ShorterHalf:   key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "Shorter by half snap")),
		ToggleEnabled: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "Toggle enabled")),

		EditDuration: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Edit duration")),
		EditReps:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Edit repetitions")),
		EditName:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "Edit name")),
		EditStart:    key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "Edit line start")),
		EditEnd:      key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "Edit line end")),
		Commit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "Commit")),
		CommitHalf:   key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "Commit, half snap")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "Cancel")),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.EditDuration, k.Copy, k.PasteAfter, k.Delete, k.CycleTiming}
}

// FullHelp returns every binding, grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.Next, k.Prev, k.All},
		{k.ExtUp, k.ExtDown, k.ExtLeft, k.ExtRight},
		{k.Copy, k.PasteAfter, k.PasteBefore, k.Duplicate, k.Delete, k.InsertBefore, k.InsertAfter, k.CycleTiming},
		{k.Longer, k.Shorter, k.LongerHalf, k.ShorterHalf, k.ToggleEnabled},
		{k.EditDuration, k.EditReps, k.EditName, k.EditStart, k.EditEnd, k.CommitHalf, k.Cancel},
	}
}
