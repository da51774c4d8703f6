package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bizcrm/internal/business"
	"bizcrm/internal/storage"
)

func (m *model) workspace() string {
	return m.cfg.Config.Workspace
}

func (m *model) refreshBusinesses() {
	businesses, err := m.store.ListBusinesses(m.ctx, m.workspace())
	if err != nil {
		m.log.Error("load businesses", zap.Error(err))
		m.errMessage = fmt.Sprintf("load businesses: %v", err)
		return
	}
	m.businesses = businesses
	m.applyBusinessFilter()
}

func (m *model) applyBusinessFilter() {
	filter := strings.TrimSpace(m.businessFilter.Value())
	if filter == "" || isCommandInput(filter) {
		m.filteredBusinesses = m.businesses
		return
	}
	filtered, err := m.store.SearchBusinesses(m.ctx, m.workspace(), filter)
	if err != nil {
		m.errMessage = fmt.Sprintf("search businesses: %v", err)
		return
	}
	m.filteredBusinesses = filtered
}

// isCommandInput reports whether the filter box holds a command rather
// than a search term.
func isCommandInput(value string) bool {
	lower := strings.ToLower(value)
	return isBackCommand(lower) || isExitCommand(lower) || lower == "add" || lower == "new" ||
		strings.HasPrefix(lower, "import ") || isIndexInput(lower)
}

// isIndexInput matches list positions like "3" or "#12". Longer digit
// runs are org number searches.
func isIndexInput(value string) bool {
	digits := strings.TrimPrefix(value, "#")
	if digits == "" || (len(digits) > 3 && digits == value) {
		return false
	}
	_, err := strconv.Atoi(digits)
	return err == nil
}

func (m *model) resolveBusinessSelection(input string) (business.Business, bool) {
	var empty business.Business
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		if len(m.filteredBusinesses) == 1 {
			return m.filteredBusinesses[0], true
		}
		return empty, false
	}
	query := strings.TrimPrefix(trimmed, "#")
	if idx, err := strconv.Atoi(query); err == nil {
		if idx > 0 && idx <= len(m.filteredBusinesses) {
			return m.filteredBusinesses[idx-1], true
		}
	}
	for _, list := range [][]business.Business{m.filteredBusinesses, m.businesses} {
		for i := range list {
			if strings.EqualFold(list[i].Name, query) || list[i].OrgNumber == query {
				return list[i], true
			}
		}
	}
	return empty, false
}

// importPath expands a leading ~ and makes path absolute.
func importPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("no file given")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

func (m *model) handleBusinessImport(path string) {
	m.infoMessage = ""
	resolved, err := importPath(path)
	if err != nil {
		m.errMessage = fmt.Sprintf("import path: %v", err)
		return
	}
	file, err := os.Open(resolved)
	if err != nil {
		m.errMessage = fmt.Sprintf("open file: %v", err)
		return
	}
	defer file.Close()

	result, err := m.store.ImportBusinessesCSV(m.ctx, file, storage.ImportOptions{
		Workspace: m.workspace(),
		Creator:   m.cfg.Config.Name,
		Defaults:  m.cfg.Defaults(),
		Location:  m.cfg.Location(),
	})
	if err != nil {
		m.log.Warn("csv import failed", zap.String("path", resolved), zap.Error(err))
		m.errMessage = fmt.Sprintf("import csv: %v", err)
		return
	}
	m.log.Info("csv import",
		zap.String("path", resolved),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
	)
	parts := []string{fmt.Sprintf("Imported %d business(es)", result.Created)}
	if result.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("skipped %d", result.Skipped))
	}
	m.infoMessage = strings.Join(parts, ", ")
	if len(result.Errors) > 0 {
		m.errMessage = strings.Join(result.Errors, "; ")
	} else {
		m.errMessage = ""
	}
}

// BUSINESS LIST
func (m *model) updateBusinesses(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.businessFilter, cmd = m.businessFilter.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.businessFilter.Value())
			lower := strings.ToLower(value)
			switch {
			case isExitCommand(value):
				m.businessFilter.SetValue("")
				return batch(append(cmds, m.goHome())...)
			case isBackCommand(value):
				m.businessFilter.SetValue("")
				return batch(append(cmds, m.goBack())...)
			case lower == "add" || lower == "new":
				m.businessFilter.SetValue("")
				m.businessFilter.Blur()
				return batch(append(cmds, m.openIntake())...)
			case strings.HasPrefix(lower, "import "):
				m.handleBusinessImport(strings.TrimSpace(value[len("import "):]))
				m.businessFilter.SetValue("")
				m.refreshBusinesses()
				return batch(cmds...)
			}
			if b, ok := m.resolveBusinessSelection(value); ok {
				m.businessFilter.SetValue("")
				m.businessFilter.Blur()
				return batch(append(cmds, m.openDetail(b))...)
			}
			m.refreshBusinesses()
		case tea.KeyEsc:
			m.businessFilter.SetValue("")
			return batch(append(cmds, m.goBack())...)
		}
	}

	m.applyBusinessFilter()
	return batch(cmds...)
}

func (m *model) viewBusinesses() string {
	lines := []string{m.theme.Title.Render("Businesses")}
	lines = append(lines, m.theme.Faint.Render("Type to search. Enter a number, name or org number to open, 'add' for a new business, 'import <path>' to load CSV. '/' to go back."))
	lines = append(lines, "")
	if len(m.filteredBusinesses) == 0 {
		lines = append(lines, m.theme.Warning.Render("No businesses found."))
	} else {
		for i, b := range m.filteredBusinesses {
			header := fmt.Sprintf("%d. %s", i+1, b.Name)
			lines = append(lines, m.theme.Primary.Render(header)+"  "+m.theme.StageBadge(b.Stage))
			meta := []string{}
			if b.OrgNumber != "" {
				meta = append(meta, fmt.Sprintf("Org: %s", b.OrgNumber))
			}
			if place := joinNonEmpty(" ", b.PostalCode, b.City); place != "" {
				meta = append(meta, place)
			}
			meta = append(meta, b.Email, b.Phone)
			lines = append(lines, "  "+m.theme.Secondary.Render(strings.Join(meta, "  •  ")))
			created := b.CreatedAt.In(m.cfg.Location()).Format("Jan 02 2006 15:04")
			lines = append(lines, "  "+m.theme.Faint.Render(fmt.Sprintf("Created by %s on %s", b.Creator, created)))
			lines = append(lines, "")
		}
	}
	lines = append(lines, m.messageLines()...)
	lines = append(lines, m.theme.Border.Render(strings.Repeat("─", 40)))
	lines = append(lines, m.theme.Accent.Render("find> ")+m.businessFilter.View())
	return strings.Join(lines, "\n") + "\n"
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
