package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bizcrm/internal/business"
	"bizcrm/internal/config"
	"bizcrm/internal/intake"
	"bizcrm/internal/storage"
	"bizcrm/internal/theme"
)

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// Deps are the collaborators the UI drives.
type Deps struct {
	Store  *storage.Store
	Config *config.Store
	Lookup intake.Lookup
	Log    *zap.Logger
}

// NewProgram constructs a new interactive CRM session.
func NewProgram(ctx context.Context, deps Deps) *Program {
	m := newModel(ctx, deps)
	return &Program{program: tea.NewProgram(m, tea.WithAltScreen())}
}

// Start launches the Bubble Tea program and blocks until it exits.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return fmt.Errorf("nil program")
	}
	_, err := p.program.Run()
	return err
}

type viewState int

const (
	stateMainMenu viewState = iota
	stateBusinesses
	stateIntake
	stateBusinessDetail
	stateTickets
	stateSettings
)

type model struct {
	ctx         context.Context
	state       viewState
	prevStates  []viewState
	store       *storage.Store
	cfg         *config.Store
	log         *zap.Logger
	theme       theme.Theme
	width       int
	height      int
	infoMessage string
	errMessage  string

	menuInput textinput.Model

	businesses         []business.Business
	businessFilter     textinput.Model
	filteredBusinesses []business.Business

	intake     intake.State
	intakeCtrl *intake.Controller
	sheet      intakeSheet

	detail detailModel

	tickets ticketsModel

	settings settingsModel
}

func newModel(ctx context.Context, deps Deps) *model {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = mainPrompt.hint
	ti.CharLimit = mainPrompt.limit
	ti.Focus()

	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "Type to search, / to go back"
	filter.CharLimit = 64

	m := model{
		ctx:            ctx,
		state:          stateMainMenu,
		store:          deps.Store,
		cfg:            deps.Config,
		log:            log,
		theme:          theme.Default(),
		menuInput:      ti,
		businessFilter: filter,
		intake:         intake.New(deps.Config.Defaults()),
		intakeCtrl: &intake.Controller{
			Lookup:      deps.Lookup,
			Creator:     deps.Store,
			Workspace:   deps.Config.Config.Workspace,
			CreatorName: deps.Config.Config.Name,
			Log:         log.Named("intake"),
		},
		sheet:    newIntakeSheet(),
		settings: newSettingsModel(),
	}
	m.intakeCtrl.OnAdded = m.refreshBusinesses
	m.refreshBusinesses()
	return &m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case intake.SearchCompleted:
		return m, m.applyIntake(msg)
	case intake.SubmitCompleted:
		return m, m.applyIntake(msg)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMainMenu:
		cmd = m.updateMainMenu(msg)
	case stateBusinesses:
		cmd = m.updateBusinesses(msg)
	case stateIntake:
		cmd = m.updateIntake(msg)
	case stateBusinessDetail:
		cmd = m.updateDetail(msg)
	case stateTickets:
		cmd = m.updateTickets(msg)
	case stateSettings:
		cmd = m.updateSettings(msg)
	default:
		m.state = stateMainMenu
		cmd = m.updateMainMenu(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	switch m.state {
	case stateMainMenu:
		return m.viewMainMenu()
	case stateBusinesses:
		return m.viewBusinesses()
	case stateIntake:
		return m.viewIntake()
	case stateBusinessDetail:
		return m.viewDetail()
	case stateTickets:
		return m.viewTickets()
	case stateSettings:
		return m.viewSettings()
	default:
		return ""
	}
}

// Navigation helpers
func (m *model) pushState(next viewState) {
	m.prevStates = append(m.prevStates, m.state)
	m.state = next
}

func (m *model) popState() {
	if len(m.prevStates) == 0 {
		m.state = stateMainMenu
		return
	}
	idx := len(m.prevStates) - 1
	m.state = m.prevStates[idx]
	m.prevStates = m.prevStates[:idx]
}

// goBack pops one screen and restores the prompt of the screen it lands on.
func (m *model) goBack() tea.Cmd {
	m.popState()
	return m.focusCurrent()
}

func (m *model) goHome() tea.Cmd {
	m.prevStates = nil
	m.state = stateMainMenu
	return m.resetPrompt(mainPrompt)
}

func (m *model) focusCurrent() tea.Cmd {
	switch m.state {
	case stateMainMenu:
		return m.resetPrompt(mainPrompt)
	case stateBusinesses:
		m.refreshBusinesses()
		return m.businessFilter.Focus()
	case stateBusinessDetail:
		m.reloadDetail()
		return m.resetPrompt(detailPrompt)
	case stateTickets:
		m.refreshTickets()
		return m.resetPrompt(ticketsPrompt)
	case stateSettings:
		return m.resetPrompt(settingsPrompt)
	}
	return nil
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

func (m *model) messageLines() []string {
	var lines []string
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	return lines
}

// MAIN MENU
func (m *model) updateMainMenu(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.keepPrompt(mainPrompt)}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		choice := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		action, ok := mainMenu.resolve(choice)
		if !ok {
			if choice != "" {
				m.errMessage = "Unknown choice"
			}
			return batch(cmds...)
		}
		m.resetMessages()
		switch action {
		case menuBusinesses:
			m.pushState(stateBusinesses)
			cmds = append(cmds, m.focusCurrent())
		case menuAddBusiness:
			cmds = append(cmds, m.openIntake())
		case menuTickets:
			m.tickets = ticketsModel{}
			m.pushState(stateTickets)
			cmds = append(cmds, m.focusCurrent())
		case menuSettings:
			m.settings = newSettingsModel()
			m.pushState(stateSettings)
			cmds = append(cmds, m.focusCurrent())
		case menuQuit:
			cmds = append(cmds, tea.Quit)
		}
	}

	return batch(cmds...)
}

func (m *model) viewMainMenu() string {
	lines := []string{m.theme.Title.Render("BizCRM")}
	lines = append(lines, m.theme.Secondary.Render(fmt.Sprintf("Workspace %s  •  %d businesses", m.cfg.Config.Workspace, len(m.businesses))))
	lines = append(lines, m.messageLines()...)
	menu := []string{
		"1. Businesses",
		"2. Add business",
		"3. Tickets",
		"4. Settings & Help",
		"5. Quit",
	}
	lines = append(lines, "")
	for _, item := range menu {
		lines = append(lines, m.theme.Primary.Render(item))
	}
	lines = append(lines, "")
	lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
