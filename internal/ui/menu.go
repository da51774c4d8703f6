package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// prompt configures the shared command line for one screen.
type prompt struct {
	hint  string
	limit int
}

var (
	mainPrompt     = prompt{hint: "Choose an option", limit: 32}
	detailPrompt   = prompt{hint: "Pane name or 1-5, n/p to switch, add, ticket <title>, / back", limit: 96}
	ticketsPrompt  = prompt{hint: "new <title>, <number> <status>, / back", limit: 96}
	settingsPrompt = prompt{hint: "1=Name  2=Timezone  3=Workspace  4=Back", limit: 40}
)

// resetPrompt replaces the command line with an empty, focused input.
func (m *model) resetPrompt(p prompt) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = p.hint
	input.CharLimit = p.limit
	cmd := input.Focus()
	m.menuInput = input
	return cmd
}

// keepPrompt leaves a matching command line and its typed text alone.
func (m *model) keepPrompt(p prompt) tea.Cmd {
	if m.menuInput.Placeholder != p.hint || m.menuInput.CharLimit != p.limit {
		return m.resetPrompt(p)
	}
	if m.menuInput.Focused() {
		return nil
	}
	return m.menuInput.Focus()
}

// menuOption is one choice of a numbered menu. Synonyms match exactly,
// keywords match on an unambiguous prefix.
type menuOption struct {
	id       string
	keywords []string
	synonyms []string
}

type menu []menuOption

func (mu menu) resolve(input string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return "", false
	}
	for _, opt := range mu {
		for _, syn := range opt.synonyms {
			if value == syn {
				return opt.id, true
			}
		}
	}

	match := ""
	for _, opt := range mu {
		for _, kw := range opt.keywords {
			if !strings.HasPrefix(kw, value) {
				continue
			}
			if match != "" && match != opt.id {
				return "", false
			}
			match = opt.id
		}
	}
	return match, match != ""
}

const (
	menuBusinesses  = "businesses"
	menuAddBusiness = "add-business"
	menuTickets     = "tickets"
	menuSettings    = "settings"
	menuQuit        = "quit"
)

var mainMenu = menu{
	{
		id:       menuBusinesses,
		keywords: []string{"businesses", "companies"},
		synonyms: []string{"1", "b", "business", "list"},
	},
	{
		id:       menuAddBusiness,
		keywords: []string{"add", "new"},
		synonyms: []string{"2", "add business", "new business"},
	},
	{
		id:       menuTickets,
		keywords: []string{"tickets", "support"},
		synonyms: []string{"3", "t", "ticket"},
	},
	{
		id:       menuSettings,
		keywords: []string{"settings", "help"},
		synonyms: []string{"4", "settings & help"},
	},
	{
		id:       menuQuit,
		keywords: []string{"quit", "exit"},
		synonyms: []string{"5", "exit.", "q"},
	},
}

const (
	settingName      = "name"
	settingTimezone  = "timezone"
	settingWorkspace = "workspace"
	settingBack      = "back"
	settingHome      = "home"
)

var settingsMenu = menu{
	{id: settingName, keywords: []string{"name"}, synonyms: []string{"1"}},
	{id: settingTimezone, keywords: []string{"timezone", "tz"}, synonyms: []string{"2"}},
	{id: settingWorkspace, keywords: []string{"workspace"}, synonyms: []string{"3"}},
	{id: settingBack, keywords: []string{"back"}, synonyms: []string{"4", "/"}},
	{id: settingHome, synonyms: []string{"exit.", "exit", "quit"}},
}

// batch drops nil commands and avoids wrapping a single command.
func batch(cmds ...tea.Cmd) tea.Cmd {
	var live []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			live = append(live, c)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return tea.Batch(live...)
}

func isExitCommand(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "exit." || v == "quit"
}

func isBackCommand(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "/" || v == "back"
}
