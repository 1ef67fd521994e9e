package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/ntsearch/internal/config"
)

type keyMap struct {
	Submit   key.Binding
	Recall   key.Binding
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	PageNext key.Binding
	PagePrev key.Binding
	Open     key.Binding
	OpenLink key.Binding
	Back     key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := cfg.Keys.Modifier + "+"
	b := cfg.Keys.Bindings
	return keyMap{
		Submit:   key.NewBinding(key.WithKeys(mod+b.Submit), key.WithHelp(mod+b.Submit, "search")),
		Recall:   key.NewBinding(key.WithKeys(mod+b.Recall), key.WithHelp(mod+b.Recall, "last search")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", mod+b.Quit), key.WithHelp(mod+b.Quit, "quit")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		PageNext: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		PagePrev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		OpenLink: key.NewBinding(key.WithKeys(mod+"o"), key.WithHelp(mod+"o", "open link")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}
