package tui

import "github.com/charmbracelet/lipgloss"

// Styles is the chat view palette. Two palettes exist, selected by the
// persisted theme preference.
type Styles struct {
	Header       lipgloss.Style
	Meta         lipgloss.Style
	Connected    lipgloss.Style
	Disconnected lipgloss.Style
	Memory       lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Empty        lipgloss.Style
	Help         lipgloss.Style
	Timestamp    lipgloss.Style
	UserLabel    lipgloss.Style
	UserBody     lipgloss.Style
	BotLabel     lipgloss.Style
	BotBody      lipgloss.Style
	Spinner      lipgloss.Style
}

// NewStyles returns the palette for the given theme ("light" or
// "dark"; anything else falls back to dark).
func NewStyles(theme string) Styles {
	if theme == "light" {
		return Styles{
			Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			Meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			Connected:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			Disconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
			Memory:       lipgloss.NewStyle().Foreground(lipgloss.Color("26")).Bold(true),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
			Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true),
			Empty:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
			Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Timestamp:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
			UserLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
			UserBody:     lipgloss.NewStyle().Padding(0, 2),
			BotLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("90")),
			BotBody:      lipgloss.NewStyle().Padding(0, 2),
			Spinner:      lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		}
	}
	return Styles{
		Header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Connected:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Disconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Memory:       lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Empty:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Timestamp:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		UserLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		UserBody:     lipgloss.NewStyle().Padding(0, 2),
		BotLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		BotBody:      lipgloss.NewStyle().Padding(0, 2),
		Spinner:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	}
}
