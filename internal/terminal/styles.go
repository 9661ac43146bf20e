package terminal

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Name      lipgloss.Style
	Role      lipgloss.Style
	Prefix    lipgloss.Style
	Typed     lipgloss.Style
	Cursor    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Heading   lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Footer    lipgloss.Style
	Frame     lipgloss.Style
}

// newStyles builds the palette against r so colours match the client's
// terminal rather than the server's.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Name:      r.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
		Role:      r.NewStyle().Foreground(lipgloss.Color("245")),
		Prefix:    r.NewStyle().Foreground(lipgloss.Color("249")),
		Typed:     r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Cursor:    r.NewStyle().Foreground(lipgloss.Color("39")).Blink(true),
		Tab:       r.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
		ActiveTab: r.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true).Padding(0, 1),
		Heading:   r.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		Body:      r.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
		Accent:    r.NewStyle().Foreground(lipgloss.Color("34")),
		Footer:    r.NewStyle().Foreground(lipgloss.Color("240")),
		Frame:     r.NewStyle().Padding(1, 2),
	}
}
