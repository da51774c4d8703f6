package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type settingsMode int

const (
	settingsViewing settingsMode = iota
	settingsEditingName
	settingsEditingTimezone
	settingsEditingWorkspace
)

type settingsModel struct {
	mode  settingsMode
	input textinput.Model
	err   string
}

func newSettingsModel() settingsModel {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 96
	return settingsModel{mode: settingsViewing, input: input}
}

// settingField describes one editable preference.
type settingField struct {
	label  string
	hint   string
	get    func(m *model) string
	check  func(value string) error
	apply  func(m *model, value string)
	notice string
}

var settingFields = map[settingsMode]settingField{
	settingsEditingName: {
		label: "Name",
		hint:  "Enter new name:",
		get:   func(m *model) string { return m.cfg.Config.Name },
		apply: func(m *model, value string) {
			m.cfg.Config.Name = value
			m.intakeCtrl.CreatorName = value
		},
		notice: "Name updated",
	},
	settingsEditingTimezone: {
		label: "Timezone",
		hint:  "Enter timezone (e.g. Europe/Oslo):",
		get:   func(m *model) string { return m.cfg.Config.Timezone },
		check: func(value string) error {
			if _, err := time.LoadLocation(value); err != nil {
				return errors.New("invalid timezone")
			}
			return nil
		},
		apply:  func(m *model, value string) { m.cfg.Config.Timezone = value },
		notice: "Timezone updated",
	},
	settingsEditingWorkspace: {
		label: "Workspace",
		hint:  "Enter workspace id:",
		get:   func(m *model) string { return m.cfg.Config.Workspace },
		apply: func(m *model, value string) {
			m.cfg.Config.Workspace = value
			m.intakeCtrl.Workspace = value
			m.refreshBusinesses()
		},
		notice: "Workspace switched",
	},
}

func (m *model) editSetting(mode settingsMode) tea.Cmd {
	field := settingFields[mode]
	m.settings.mode = mode
	m.settings.err = ""
	m.settings.input = textinput.New()
	m.settings.input.Prompt = ""
	m.settings.input.CharLimit = 64
	m.settings.input.SetValue(field.get(m))
	return m.settings.input.Focus()
}

// SETTINGS
func (m *model) updateSettings(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if m.settings.mode == settingsViewing {
		cmds = append(cmds, m.keepPrompt(settingsPrompt))
		var cmd tea.Cmd
		m.menuInput, cmd = m.menuInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
			choice, _ := settingsMenu.resolve(m.menuInput.Value())
			m.menuInput.SetValue("")
			switch choice {
			case settingName:
				cmds = append(cmds, m.editSetting(settingsEditingName))
			case settingTimezone:
				cmds = append(cmds, m.editSetting(settingsEditingTimezone))
			case settingWorkspace:
				cmds = append(cmds, m.editSetting(settingsEditingWorkspace))
			case settingBack:
				cmds = append(cmds, m.goBack())
			case settingHome:
				cmds = append(cmds, m.goHome())
			default:
				m.settings.err = "Choose 1, 2 or 3 to edit settings"
			}
		}
		return batch(cmds...)
	}

	field := settingFields[m.settings.mode]
	if !m.settings.input.Focused() {
		cmds = append(cmds, m.settings.input.Focus())
	}
	var cmd tea.Cmd
	m.settings.input, cmd = m.settings.input.Update(msg)
	cmds = append(cmds, cmd)

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Type != tea.KeyEnter {
		return batch(cmds...)
	}
	value := strings.TrimSpace(m.settings.input.Value())
	switch {
	case isExitCommand(value):
		m.settings.mode = settingsViewing
		cmds = append(cmds, m.goHome())
	case isBackCommand(value):
		m.settings.mode = settingsViewing
	case value == "":
		m.settings.err = field.label + " cannot be empty"
	default:
		if field.check != nil {
			if err := field.check(value); err != nil {
				m.settings.err = err.Error()
				return batch(cmds...)
			}
		}
		field.apply(m, value)
		if err := m.cfg.Save(); err != nil {
			m.log.Error("save config", zap.String("path", m.cfg.Path()), zap.Error(err))
			m.settings.err = err.Error()
			return batch(cmds...)
		}
		m.log.Info("setting updated", zap.String("setting", strings.ToLower(field.label)))
		m.settings.err = ""
		m.infoMessage = field.notice
		m.settings.mode = settingsViewing
	}
	return batch(cmds...)
}

func (m *model) viewSettings() string {
	lines := []string{m.theme.Title.Render("Settings & Help")}
	lines = append(lines, m.theme.Faint.Render("'/' goes back, 'exit.' returns home."))
	lines = append(lines, "")
	lines = append(lines, m.theme.Secondary.Render("Name: "+m.cfg.Config.Name))
	lines = append(lines, m.theme.Secondary.Render("Timezone: "+m.cfg.Config.Timezone))
	lines = append(lines, m.theme.Secondary.Render("Workspace: "+m.cfg.Config.Workspace))
	defaults := m.cfg.Defaults()
	lines = append(lines, m.theme.Faint.Render(fmt.Sprintf("Blank fields default to %s / %s / %s", defaults.Country, defaults.Email, defaults.Phone)))
	lines = append(lines, m.theme.Faint.Render("Config file: "+m.cfg.Path()))
	lines = append(lines, "")
	lines = append(lines, m.theme.Highlight.Render("Shortcuts"))
	lines = append(lines, m.theme.HelpKey.Render("/")+" → "+m.theme.HelpValue.Render("Back"))
	lines = append(lines, m.theme.HelpKey.Render("exit.")+" → "+m.theme.HelpValue.Render("Main menu"))
	lines = append(lines, m.theme.HelpKey.Render("Ctrl+S")+" → "+m.theme.HelpValue.Render("Save the add-business sheet"))
	lines = append(lines, m.theme.HelpKey.Render("Ctrl+C")+" → "+m.theme.HelpValue.Render("Quit"))
	lines = append(lines, "")

	if m.settings.mode == settingsViewing {
		lines = append(lines, m.theme.Secondary.Render("1. Update name"))
		lines = append(lines, m.theme.Secondary.Render("2. Update timezone"))
		lines = append(lines, m.theme.Secondary.Render("3. Switch workspace"))
		lines = append(lines, m.theme.Faint.Render("4. Back"))
		lines = append(lines, "")
		lines = append(lines, m.theme.Accent.Render("> ")+m.menuInput.View())
	} else {
		lines = append(lines, m.theme.Secondary.Render(settingFields[m.settings.mode].hint))
		lines = append(lines, m.settings.input.View())
	}
	if m.settings.err != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.settings.err))
	}
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	return strings.Join(lines, "\n") + "\n"
}
