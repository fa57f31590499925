package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Close    key.Binding
	Generate key.Binding
	Map      key.Binding
	Upload   key.Binding
	Finalize key.Binding
	Focus    key.Binding
	Export   key.Binding
	Theme    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "request image")),
		Map:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "teleporters")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload photo")),
		Finalize: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finalize")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export receipt")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
	}
}

func (k keyMap) catalogHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Select, k.Map, k.Theme, k.Quit}
}

func (k keyMap) detailHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Close, k.Quit}
}

func (k keyMap) paymentHelp() []key.Binding {
	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit deposit"))
	return []key.Binding{submit, k.Focus}
}

func (k keyMap) confirmationHelp() []key.Binding {
	return []key.Binding{k.Export, k.Left, k.Right, k.Select, k.Map, k.Quit}
}

func (k keyMap) mapHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Select, k.Close, k.Quit}
}

func (k keyMap) designerHelp() []key.Binding {
	return []key.Binding{k.Upload, k.Up, k.Down, k.Left, k.Right, k.Generate, k.Finalize, k.Map, k.Quit}
}

func (k keyMap) pickerHelp() []key.Binding {
	open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/select"))
	back := key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "parent dir"))
	cancel := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "cancel"))
	return []key.Binding{k.Up, k.Down, open, back, cancel}
}
