package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bizcrm/internal/ticket"
)

type ticketsModel struct {
	list []ticket.Ticket
	err  string
}

func (m *model) refreshTickets() {
	list, err := m.store.ListTickets(m.ctx, m.workspace())
	if err != nil {
		m.log.Error("load tickets", zap.Error(err))
		m.tickets.err = fmt.Sprintf("load tickets: %v", err)
		return
	}
	m.tickets.list = list
	m.tickets.err = ""
}

// statusChoices lists the status identifiers accepted by "<number> <status>".
func statusChoices() string {
	statuses := ticket.Statuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return strings.Join(out, ", ")
}

func (m *model) changeTicketStatus(args string) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		m.errMessage = "Use '<number> <status>'"
		return
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(parts[0], "#"))
	if err != nil || idx < 1 || idx > len(m.tickets.list) {
		m.errMessage = fmt.Sprintf("No ticket #%s", parts[0])
		return
	}
	status, err := ticket.ParseStatus(strings.ToLower(parts[1]))
	if err != nil {
		m.errMessage = fmt.Sprintf("%v (choose from %s)", err, statusChoices())
		return
	}
	t := m.tickets.list[idx-1]
	if err := m.store.UpdateTicketStatus(m.ctx, t.ID, status); err != nil {
		m.errMessage = fmt.Sprintf("update ticket: %v", err)
		return
	}
	m.log.Info("ticket status changed", zap.String("ticket_id", t.ID), zap.String("status", string(status)))
	m.infoMessage = fmt.Sprintf("Ticket '%s' is now %s", t.Title, ticket.Present(string(status)).Label)
	m.refreshTickets()
}

// TICKETS
func (m *model) updateTickets(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.keepPrompt(ticketsPrompt)}
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	cmds = append(cmds, cmd)

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batch(cmds...)
	}
	switch key.Type {
	case tea.KeyEsc:
		return batch(append(cmds, m.goBack())...)
	case tea.KeyEnter:
	default:
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
	case strings.HasPrefix(lower, "new "):
		t := ticket.Ticket{
			WorkspaceID: m.workspace(),
			Title:       strings.TrimSpace(value[len("new "):]),
			Creator:     m.cfg.Config.Name,
		}
		if err := m.store.CreateTicket(m.ctx, &t); err != nil {
			m.errMessage = fmt.Sprintf("create ticket: %v", err)
			break
		}
		m.log.Info("ticket opened", zap.String("ticket_id", t.ID))
		m.infoMessage = fmt.Sprintf("Ticket '%s' opened", t.Title)
		m.refreshTickets()
	case value != "":
		m.changeTicketStatus(value)
	}
	return batch(cmds...)
}

func (m *model) viewTickets() string {
	lines := []string{m.theme.Title.Render("Tickets")}
	lines = append(lines, m.theme.Faint.Render("Statuses: "+statusChoices()))
	lines = append(lines, "")
	if len(m.tickets.list) == 0 {
		lines = append(lines, m.theme.Warning.Render("No tickets yet."))
	}
	loc := m.cfg.Location()
	for i, t := range m.tickets.list {
		header := fmt.Sprintf("%d. %s", i+1, t.Title)
		lines = append(lines, m.theme.Primary.Render(header)+"  "+m.theme.TicketBadge(t.Status))
		meta := fmt.Sprintf("Opened by %s on %s", t.Creator, t.CreatedAt.In(loc).Format("Jan 02 2006 15:04"))
		if t.BusinessName != "" {
			meta = t.BusinessName + "  •  " + meta
		}
		lines = append(lines, "  "+m.theme.Faint.Render(meta))
	}
	if m.tickets.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.tickets.err))
	}
	lines = append(lines, m.messageLines()...)
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
