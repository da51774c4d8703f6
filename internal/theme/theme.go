package theme

import (
	"github.com/charmbracelet/lipgloss"

	"bizcrm/internal/business"
	"bizcrm/internal/ticket"
)

// Theme encapsulates the visual palette for the CRM UI.
type Theme struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Accent    lipgloss.Style
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Faint     lipgloss.Style
	Highlight lipgloss.Style
	Border    lipgloss.Style
	HelpKey   lipgloss.Style
	HelpValue lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	badge lipgloss.Style
}

// Default returns a high-contrast palette that plays nicely with common terminals.
func Default() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true).Underline(true),
		Subtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("219")).Bold(true),
		Primary:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("227")).Bold(true),
		Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Faint:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Border:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		HelpKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		HelpValue: lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 1),
		badge:     lipgloss.NewStyle().Padding(0, 1).Bold(true),
	}
}

// toneColors maps a badge tone to foreground and background.
func toneColors(t ticket.Tone) (lipgloss.Color, lipgloss.Color) {
	switch t {
	case ticket.ToneInfo:
		return "231", "25"
	case ticket.ToneActive:
		return "16", "81"
	case ticket.ToneWaiting:
		return "16", "221"
	case ticket.ToneEscalated:
		return "231", "161"
	case ticket.ToneDone:
		return "16", "42"
	default:
		return "252", "238"
	}
}

// TicketBadge renders a ticket status the same way wherever it appears.
// Unknown raw values get the neutral treatment.
func (t Theme) TicketBadge(raw string) string {
	p := ticket.Present(raw)
	fg, bg := toneColors(p.Tone)
	label := p.Label
	switch p.Icon {
	case ticket.IconSpinner:
		label = "◐ " + label
	case ticket.IconCheck:
		label = "✓ " + label
	}
	return t.badge.Copy().Foreground(fg).Background(bg).Render(label)
}

// StageBadge renders a customer stage.
func (t Theme) StageBadge(s business.Stage) string {
	var bg lipgloss.Color
	switch s {
	case business.StageLead:
		bg = "238"
	case business.StageProspect:
		bg = "25"
	case business.StageQualified:
		bg = "62"
	case business.StageOfferSent:
		bg = "130"
	case business.StageOfferAccepted:
		bg = "29"
	case business.StageCustomer:
		bg = "28"
	default:
		bg = "238"
	}
	return t.badge.Copy().Foreground(lipgloss.Color("231")).Background(bg).Render(s.Label())
}
