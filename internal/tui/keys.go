package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit           key.Binding
	ForceQuit      key.Binding
	Help           key.Binding
	Escape         key.Binding
	ToggleOverview key.Binding
	NextPage       key.Binding
	PrevPage       key.Binding

	// Overview actions
	Save        key.Binding
	KillScripts key.Binding
	Focus       key.Binding
	ToggleBars  key.Binding
	Copy        key.Binding

	// Hacknet page
	Up           key.Binding
	Down         key.Binding
	Buy          key.Binding
	UpgradeLevel key.Binding
	UpgradeRam   key.Binding
	UpgradeCores key.Binding
	UpgradeCache key.Binding
	Multiplier   key.Binding

	// Confirm modal
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?/h", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),
		ToggleOverview: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle overview"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab", "]"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab", "["),
			key.WithHelp("shift+tab", "prev page"),
		),

		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save game"),
		),
		KillScripts: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "kill all scripts"),
		),
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus on work"),
		),
		ToggleBars: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "toggle skill bars"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy overview"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Buy: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "buy node"),
		),
		UpgradeLevel: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "upgrade level"),
		),
		UpgradeRam: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "upgrade ram"),
		),
		UpgradeCores: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "upgrade cores"),
		),
		UpgradeCache: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "upgrade cache"),
		),
		Multiplier: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle x1/x5/x10/MAX"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextPage, k.Save, k.KillScripts, k.ToggleOverview, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.ToggleOverview, k.Help, k.Escape, k.Quit, k.ForceQuit},
		{k.Save, k.KillScripts, k.Focus, k.ToggleBars, k.Copy},
		{k.Up, k.Down, k.Buy, k.UpgradeLevel, k.UpgradeRam, k.UpgradeCores, k.UpgradeCache, k.Multiplier},
	}
}
