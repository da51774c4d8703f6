package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bizcrm/internal/business"
	"bizcrm/internal/intake"
)

// intakeSheet holds the widgets of the add-business sheet. The values
// shown always mirror m.intake; the widgets only own cursor and focus.
type intakeSheet struct {
	focus  int
	cursor int
	query  textinput.Model
	fields []textinput.Model
}

// Focus index 0 is the query box, 1..len(fields) the draft fields, and
// the last index the stage row.
const focusQuery = 0

func newIntakeSheet() intakeSheet {
	query := textinput.New()
	query.Prompt = ""
	query.Placeholder = "Company name or org number, enter to search"
	query.CharLimit = 96

	fields := make([]textinput.Model, 0, len(intake.Fields()))
	for _, f := range intake.Fields() {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label()
		in.CharLimit = 128
		fields = append(fields, in)
	}
	return intakeSheet{query: query, fields: fields, cursor: -1}
}

func (s *intakeSheet) stageFocus() int { return len(s.fields) + 1 }

func (s *intakeSheet) blurAll() {
	s.query.Blur()
	for i := range s.fields {
		s.fields[i].Blur()
	}
}

func (s *intakeSheet) setFocus(idx int) tea.Cmd {
	total := s.stageFocus() + 1
	s.focus = ((idx % total) + total) % total
	s.blurAll()
	switch {
	case s.focus == focusQuery:
		return s.query.Focus()
	case s.focus <= len(s.fields):
		return s.fields[s.focus-1].Focus()
	}
	return nil
}

// sync copies state values into the widgets that differ, keeping the
// cursor of inputs the user is typing in.
func (s *intakeSheet) sync(st intake.State) {
	if s.query.Value() != st.Query {
		s.query.SetValue(st.Query)
	}
	for i, f := range intake.Fields() {
		if v := st.Draft.Value(f); s.fields[i].Value() != v {
			s.fields[i].SetValue(v)
		}
	}
	if s.cursor >= len(st.Candidates) {
		s.cursor = -1
	}
}

func (m *model) openIntake() tea.Cmd {
	m.resetMessages()
	m.intakeCtrl.Workspace = m.workspace()
	m.intakeCtrl.CreatorName = m.cfg.Config.Name
	cmd := m.applyIntake(intake.Open{})
	m.sheet = newIntakeSheet()
	m.sheet.sync(m.intake)
	m.pushState(stateIntake)
	return batch(cmd, m.sheet.setFocus(focusQuery))
}

// applyIntake runs msg through the intake state machine and turns the
// resulting effect into a command.
func (m *model) applyIntake(msg intake.Msg) tea.Cmd {
	wasOpen := m.intake.Open()
	var eff intake.Effect
	m.intake, eff = intake.Update(m.intake, msg)
	m.sheet.sync(m.intake)

	var cmds []tea.Cmd
	if wasOpen && !m.intake.Open() && m.state == stateIntake {
		cmds = append(cmds, m.goBack())
	}
	if added, ok := eff.(intake.AddedEffect); ok {
		// Handled in place so OnAdded reloads the listing on the UI goroutine.
		m.errMessage = ""
		m.infoMessage = fmt.Sprintf("Business '%s' added", added.Business.Name)
		m.intakeCtrl.Run(m.ctx, added)
		return batch(cmds...)
	}
	cmds = append(cmds, m.intakeCmd(eff))
	return batch(cmds...)
}

func (m *model) intakeCmd(eff intake.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	// Effects run off the UI goroutine against a snapshot of the controller.
	ctrl := *m.intakeCtrl
	ctx := m.ctx
	return func() tea.Msg {
		return ctrl.Run(ctx, eff)
	}
}

// INTAKE SHEET
func (m *model) updateIntake(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocusedInput(msg)
	}

	switch key.String() {
	case "ctrl+s":
		return m.applyIntake(intake.SubmitRequested{})
	case "esc":
		if m.intake.Notice.Kind != intake.NoticeNone {
			return m.applyIntake(intake.DismissNotice{})
		}
		return m.applyIntake(intake.Dismiss{})
	case "tab":
		return m.sheet.setFocus(m.sheet.focus + 1)
	case "shift+tab":
		return m.sheet.setFocus(m.sheet.focus - 1)
	}

	switch m.sheet.focus {
	case focusQuery:
		switch key.Type {
		case tea.KeyDown:
			if n := len(m.intake.Candidates); n > 0 {
				m.sheet.cursor = (m.sheet.cursor + 1) % n
			}
			return nil
		case tea.KeyUp:
			if n := len(m.intake.Candidates); n > 0 {
				m.sheet.cursor = (m.sheet.cursor - 1 + n) % n
			}
			return nil
		case tea.KeyEnter:
			if m.sheet.cursor >= 0 {
				idx := m.sheet.cursor
				m.sheet.cursor = -1
				cmd := m.applyIntake(intake.SelectCandidate{Index: idx})
				return batch(cmd, m.sheet.setFocus(1))
			}
			return m.applyIntake(intake.SearchRequested{})
		}
	case m.sheet.stageFocus():
		switch key.Type {
		case tea.KeyLeft:
			return m.applyIntake(intake.StageChanged{Stage: m.intake.Draft.Stage.Prev()})
		case tea.KeyRight, tea.KeySpace:
			return m.applyIntake(intake.StageChanged{Stage: m.intake.Draft.Stage.Next()})
		case tea.KeyEnter:
			return m.sheet.setFocus(m.sheet.focus + 1)
		}
		return nil
	default:
		if key.Type == tea.KeyEnter {
			return m.sheet.setFocus(m.sheet.focus + 1)
		}
	}
	return m.updateFocusedInput(msg)
}

// updateFocusedInput forwards msg to the focused widget and reports any
// value change to the state machine.
func (m *model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch {
	case m.sheet.focus == focusQuery:
		before := m.sheet.query.Value()
		m.sheet.query, cmd = m.sheet.query.Update(msg)
		cmds = append(cmds, cmd)
		if after := m.sheet.query.Value(); after != before {
			m.sheet.cursor = -1
			cmds = append(cmds, m.applyIntake(intake.QueryChanged{Query: after}))
		}
	case m.sheet.focus <= len(m.sheet.fields):
		idx := m.sheet.focus - 1
		before := m.sheet.fields[idx].Value()
		m.sheet.fields[idx], cmd = m.sheet.fields[idx].Update(msg)
		cmds = append(cmds, cmd)
		if after := m.sheet.fields[idx].Value(); after != before {
			field := intake.Fields()[idx]
			cmds = append(cmds, m.applyIntake(intake.FieldChanged{Field: field, Value: after}))
		}
	}
	return batch(cmds...)
}

func (m *model) viewIntake() string {
	st := m.intake
	lines := []string{m.theme.Title.Render("Add Business")}
	lines = append(lines, m.theme.Faint.Render("Enter searches the registry, ↑/↓ + enter picks a match. Tab moves between fields, ctrl+s saves, esc closes."))
	lines = append(lines, "")

	marker := func(idx int) string {
		if m.sheet.focus == idx {
			return m.theme.Accent.Render("› ")
		}
		return "  "
	}

	lines = append(lines, marker(focusQuery)+m.theme.Subtitle.Render("Registry search"))
	lines = append(lines, "  "+m.theme.Accent.Render("search> ")+m.sheet.query.View())
	switch {
	case st.Phase == intake.PhaseSearching:
		lines = append(lines, "  "+m.theme.Warning.Render("Searching the registry..."))
	case len(st.Candidates) > 0:
		for i, c := range st.Candidates {
			line := fmt.Sprintf("%d. %s  %s  %s", i+1, business.NormalizeName(c.Name), c.OrgNumber, joinNonEmpty(" ", c.Address, c.PostalCode, c.City))
			if i == m.sheet.cursor {
				lines = append(lines, "  "+m.theme.Highlight.Render("▸ "+line))
			} else {
				lines = append(lines, "    "+m.theme.Secondary.Render(line))
			}
		}
	}
	lines = append(lines, "")

	for i, f := range intake.Fields() {
		label := fmt.Sprintf("%-12s", f.Label())
		row := marker(i+1) + m.theme.Secondary.Render(label) + m.sheet.fields[i].View()
		if f == intake.FieldName {
			row += m.theme.Danger.Render(" *")
		}
		lines = append(lines, row)
		if msg, ok := st.FieldErrors[f.Key()]; ok {
			lines = append(lines, "    "+m.theme.Danger.Render(msg))
		}
	}
	stageRow := marker(m.sheet.stageFocus()) + m.theme.Secondary.Render(fmt.Sprintf("%-12s", "Stage"))
	stageRow += "◂ " + m.theme.StageBadge(st.Draft.Stage) + " ▸"
	lines = append(lines, stageRow)

	defaults := st.Defaults()
	lines = append(lines, "", m.theme.Faint.Render(fmt.Sprintf("Blank fields are saved as: country %s, email %s, phone %s", defaults.Country, defaults.Email, defaults.Phone)))

	if st.Phase == intake.PhaseSubmitting {
		lines = append(lines, "", m.theme.Warning.Render("Saving..."))
	}
	switch st.Notice.Kind {
	case intake.NoticeInfo:
		lines = append(lines, "", m.theme.Success.Render(st.Notice.Text)+m.theme.Faint.Render("  (esc to dismiss)"))
	case intake.NoticeError:
		lines = append(lines, "", m.theme.Danger.Render(st.Notice.Text)+m.theme.Faint.Render("  (esc to dismiss)"))
	}
	return strings.Join(lines, "\n") + "\n"
}
