package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the tree view bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Select    key.Binding
	AddSelect key.Binding
	Toggle    key.Binding

	Rename   key.Binding
	Mark     key.Binding
	Drop     key.Binding
	Swap     key.Binding
	Delete   key.Binding
	MoveInto key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Search   key.Binding
	Import   key.Binding

	Logs   key.Binding
	Help   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		AddSelect: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "add to selection")),
		Toggle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "collapse/expand")),

		Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Mark:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "pick up")),
		Drop:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "drop here")),
		Swap:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap with picked")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete selected")),
		MoveInto: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move selected")),
		Expand:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand selected")),
		Collapse: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse selected")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),

		Logs:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.AddSelect, k.Toggle, k.Rename, k.Mark, k.Drop, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Select, k.AddSelect, k.Toggle, k.Search, k.Expand, k.Collapse},
		{k.Rename, k.Mark, k.Drop, k.Swap, k.Delete, k.MoveInto},
		{k.Import, k.Logs, k.Help, k.Cancel, k.Quit},
	}
}
