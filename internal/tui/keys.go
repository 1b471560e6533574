package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Submit     key.Binding
	Copy       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	TextTab    key.Binding
	FileTab    key.Binding
	ClearFile  key.Binding
	Dismiss    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Quit")),
		Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "Classify")),
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "Copy reply")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "Next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab")),
		TextTab:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "Paste text")),
		FileTab:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "Upload file")),
		ClearFile:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "Clear file")),
		Dismiss:    key.NewBinding(key.WithKeys("enter", "esc")),
		ScrollUp:   key.NewBinding(key.WithKeys("alt+up"), key.WithHelp("alt+↑/↓", "Scroll result")),
		ScrollDown: key.NewBinding(key.WithKeys("alt+down")),
	}
}

func (k keyMap) legend(fileMode, resultVisible bool) []key.Binding {
	bindings := []key.Binding{k.Submit}
	if fileMode {
		bindings = append(bindings, k.NextTab)
	}
	bindings = append(bindings, k.TextTab, k.FileTab)
	if fileMode {
		bindings = append(bindings, k.ClearFile)
	}
	if resultVisible {
		bindings = append(bindings, k.Copy, k.ScrollUp)
	}
	return append(bindings, k.Quit)
}
