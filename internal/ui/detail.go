package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bizcrm/internal/business"
	"bizcrm/internal/detail"
	"bizcrm/internal/storage"
	"bizcrm/internal/ticket"
)

const activityLimit = 25

type detailModel struct {
	business  business.Business
	tabs      detail.Tabs
	notes     []storage.Note
	activity  []storage.Activity
	writing   bool
	noteInput textinput.Model
	err       string
}

func (m *model) openDetail(b business.Business) tea.Cmd {
	m.resetMessages()
	m.detail = detailModel{business: b, tabs: detail.NewTabs(b.ID)}
	m.pushState(stateBusinessDetail)
	return m.focusCurrent()
}

func (m *model) reloadDetail() {
	id := m.detail.tabs.BusinessID()
	if id == "" {
		return
	}
	b, err := m.store.BusinessByID(m.ctx, id)
	if err != nil {
		m.detail.err = fmt.Sprintf("load business: %v", err)
		return
	}
	m.detail.business = *b

	notes, err := m.store.ListNotes(m.ctx, id)
	if err != nil {
		m.detail.err = fmt.Sprintf("load notes: %v", err)
		return
	}
	activity, err := m.store.ListBusinessActivity(m.ctx, id, activityLimit)
	if err != nil {
		m.detail.err = fmt.Sprintf("load timeline: %v", err)
		return
	}
	m.detail.notes = notes
	m.detail.activity = activity
	m.detail.err = ""
}

func (m *model) startNote() tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "Write a note, enter to save, / to cancel"
	input.CharLimit = 500
	m.detail.noteInput = input
	m.detail.writing = true
	return m.detail.noteInput.Focus()
}

func (m *model) saveNote(content string) {
	n := storage.Note{
		BusinessID: m.detail.business.ID,
		Content:    content,
		Creator:    m.cfg.Config.Name,
	}
	if err := m.store.CreateNote(m.ctx, &n); err != nil {
		m.errMessage = fmt.Sprintf("save note: %v", err)
		return
	}
	m.log.Info("note added", zap.String("business_id", n.BusinessID), zap.String("note_id", n.ID))
	m.infoMessage = "Note saved"
	m.reloadDetail()
}

func (m *model) createLinkedTicket(title string) {
	t := ticket.Ticket{
		WorkspaceID: m.workspace(),
		BusinessID:  m.detail.business.ID,
		Title:       title,
		Creator:     m.cfg.Config.Name,
	}
	if err := m.store.CreateTicket(m.ctx, &t); err != nil {
		m.errMessage = fmt.Sprintf("create ticket: %v", err)
		return
	}
	m.log.Info("ticket opened", zap.String("ticket_id", t.ID), zap.String("business_id", t.BusinessID))
	m.infoMessage = fmt.Sprintf("Ticket '%s' opened", t.Title)
	m.reloadDetail()
}

// runPaneAction performs the primary action of the selected pane.
func (m *model) runPaneAction() tea.Cmd {
	pane := m.detail.tabs.Selected()
	switch pane {
	case detail.PaneNotes, detail.PaneTimeline:
		return m.startNote()
	default:
		m.infoMessage = fmt.Sprintf("%s is not available yet", detail.Describe(pane).Action)
		return nil
	}
}

// BUSINESS DETAIL
func (m *model) updateDetail(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.detail.writing {
		m.detail.noteInput, cmd = m.detail.noteInput.Update(msg)
		cmds = append(cmds, cmd)
		key, ok := msg.(tea.KeyMsg)
		if !ok {
			return batch(cmds...)
		}
		switch key.Type {
		case tea.KeyEsc:
			m.detail.writing = false
			return batch(append(cmds, m.resetPrompt(detailPrompt))...)
		case tea.KeyEnter:
			value := strings.TrimSpace(m.detail.noteInput.Value())
			if isBackCommand(value) {
				m.detail.writing = false
				return batch(append(cmds, m.resetPrompt(detailPrompt))...)
			}
			if value == "" {
				m.errMessage = "Note cannot be empty"
				return batch(cmds...)
			}
			m.resetMessages()
			m.saveNote(value)
			m.detail.writing = false
			return batch(append(cmds, m.resetPrompt(detailPrompt))...)
		}
		return batch(cmds...)
	}

	cmds = append(cmds, m.keepPrompt(detailPrompt))

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyTab, tea.KeyRight:
			if m.menuInput.Value() == "" {
				m.detail.tabs.Next()
				return batch(cmds...)
			}
		case tea.KeyShiftTab, tea.KeyLeft:
			if m.menuInput.Value() == "" {
				m.detail.tabs.Prev()
				return batch(cmds...)
			}
		case tea.KeyEsc:
			return batch(append(cmds, m.goBack())...)
		}
	}

	m.menuInput, cmd = m.menuInput.Update(msg)
	cmds = append(cmds, cmd)

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Type != tea.KeyEnter {
		return batch(cmds...)
	}
	value := strings.TrimSpace(m.menuInput.Value())
	lower := strings.ToLower(value)
	m.menuInput.SetValue("")
	m.resetMessages()

	switch {
	case isExitCommand(lower):
		return batch(append(cmds, m.goHome())...)
	case isBackCommand(lower):
		return batch(append(cmds, m.goBack())...)
	case lower == "n" || lower == "next":
		m.detail.tabs.Next()
	case lower == "p" || lower == "prev":
		m.detail.tabs.Prev()
	case lower == "a" || lower == "add":
		cmds = append(cmds, m.runPaneAction())
	case strings.HasPrefix(lower, "ticket "):
		m.createLinkedTicket(strings.TrimSpace(value[len("ticket "):]))
	case lower == "":
	default:
		pane, err := detail.ParsePane(lower)
		if err != nil {
			m.errMessage = fmt.Sprintf("Unknown command %q", value)
			break
		}
		m.detail.tabs.Select(pane)
	}
	return batch(cmds...)
}

// tabBar renders the pane strip with the selected pane highlighted.
func (m *model) tabBar(selected detail.Pane) string {
	tabs := make([]string, 0, len(detail.Panes()))
	for i, p := range detail.Panes() {
		label := fmt.Sprintf("%d %s", i+1, detail.Describe(p).Title)
		if p == selected {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *model) viewDetail() string {
	b := m.detail.business
	loc := m.cfg.Location()
	lines := []string{m.theme.Title.Render(b.Name) + "  " + m.theme.StageBadge(b.Stage)}
	meta := []string{}
	if b.OrgNumber != "" {
		meta = append(meta, "Org: "+b.OrgNumber)
	}
	if addr := joinNonEmpty(", ", b.Address, joinNonEmpty(" ", b.PostalCode, b.City), b.Country); addr != "" {
		meta = append(meta, addr)
	}
	lines = append(lines, m.theme.Secondary.Render(strings.Join(meta, "  •  ")))
	lines = append(lines, m.theme.Secondary.Render(b.Email+"  •  "+b.Phone))
	lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("Created by %s on %s", b.Creator, b.CreatedAt.In(loc).Format("Jan 02 2006 15:04"))))
	lines = append(lines, "")

	pane := m.detail.tabs.Selected()
	info := detail.Describe(pane)
	lines = append(lines, m.tabBar(pane), "")
	lines = append(lines, m.theme.Subtitle.Render(info.Title)+"  "+m.theme.Faint.Render("add → "+info.Action))

	var body []string
	switch pane {
	case detail.PaneTimeline:
		for _, a := range m.detail.activity {
			when := a.CreatedAt.In(loc).Format("Jan 02 15:04")
			line := fmt.Sprintf("%s  %s", m.theme.Faint.Render(when), a.Title)
			if a.Kind == storage.ActivityTicket {
				line += "  " + m.theme.TicketBadge(a.Details)
			} else if a.Details != "" {
				line += "  " + m.theme.Faint.Render(a.Details)
			}
			body = append(body, line)
		}
	case detail.PaneNotes:
		for _, n := range m.detail.notes {
			body = append(body, m.theme.Primary.Render(n.Content))
			body = append(body, "  "+m.theme.Faint.Render(fmt.Sprintf("%s, %s", n.Creator, n.CreatedAt.In(loc).Format("Jan 02 2006 15:04"))))
		}
	}
	if len(body) == 0 {
		lines = append(lines, m.theme.Warning.Render(info.EmptyTitle))
		lines = append(lines, m.theme.Faint.Render(info.EmptyDescription))
	} else {
		lines = append(lines, body...)
	}

	if m.detail.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.detail.err))
	}
	lines = append(lines, m.messageLines()...)
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	if m.detail.writing {
		lines = append(lines, m.theme.Accent.Render("note> ")+m.detail.noteInput.View())
	} else {
		lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	}
	return strings.Join(lines, "\n") + "\n"
}
