package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Reset        key.Binding
	Faster       key.Binding
	Slower       key.Binding
	PrevWord     key.Binding
	NextWord     key.Binding
	PrevSentence key.Binding
	NextSentence key.Binding
	Start        key.Binding
	End          key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Faster:       key.NewBinding(key.WithKeys("up", "+", "=", "k"), key.WithHelp("↑/+", "faster")),
		Slower:       key.NewBinding(key.WithKeys("down", "-", "j"), key.WithHelp("↓/-", "slower")),
		PrevWord:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev word")),
		NextWord:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next word")),
		PrevSentence: key.NewBinding(key.WithKeys("[", "shift+left"), key.WithHelp("[", "prev sentence")),
		NextSentence: key.NewBinding(key.WithKeys("]", "shift+right"), key.WithHelp("]", "next sentence")),
		Start:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "start")),
		End:          key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "end")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Faster, k.Slower, k.PrevSentence, k.NextSentence, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Faster, k.Slower},
		{k.PrevWord, k.NextWord, k.PrevSentence, k.NextSentence},
		{k.Start, k.End, k.Help, k.Quit},
	}
}
