// Package detail tracks which sub view of a business is on screen.
package detail

import "fmt"

// Pane identifies one sub view of the business detail screen.
type Pane string

const (
	PaneTimeline Pane = "timeline"
	PaneTasks    Pane = "tasks"
	PaneNotes    Pane = "notes"
	PaneFiles    Pane = "files"
	PaneEmails   Pane = "emails"
)

// DefaultPane is selected whenever a detail view opens.
const DefaultPane = PaneTimeline

var paneOrder = [...]Pane{PaneTimeline, PaneTasks, PaneNotes, PaneFiles, PaneEmails}

// Panes returns every pane in tab order.
func Panes() []Pane {
	out := make([]Pane, len(paneOrder))
	copy(out, paneOrder[:])
	return out
}

// ParsePane accepts a pane identifier or its 1-based tab position.
func ParsePane(value string) (Pane, error) {
	for i, p := range paneOrder {
		if value == string(p) || value == fmt.Sprint(i+1) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown pane %q", value)
}

// Info describes how a pane presents itself.
type Info struct {
	Title            string
	Action           string
	EmptyTitle       string
	EmptyDescription string
}

// Describe returns the header and empty-state copy for p.
func Describe(p Pane) Info {
	switch p {
	case PaneTimeline:
		return Info{"Timeline", "Add Activity", "No activity", "Nothing has happened with this business yet."}
	case PaneTasks:
		return Info{"Tasks", "Add Task", "No tasks", "There are no tasks for this business yet."}
	case PaneNotes:
		return Info{"Notes", "Add Note", "No notes", "There are no notes for this business yet."}
	case PaneFiles:
		return Info{"Files", "Upload File", "No files", "There are no files for this business yet."}
	case PaneEmails:
		return Info{"Emails", "Compose Email", "No emails", "No emails have been exchanged with this business yet."}
	default:
		return Info{Title: string(p)}
	}
}

// Tabs holds the exclusive pane selection for one business view session.
// The zero value is not usable; call NewTabs.
type Tabs struct {
	businessID string
	selected   Pane
}

// NewTabs starts a selection session for a business on the default pane.
func NewTabs(businessID string) Tabs {
	return Tabs{businessID: businessID, selected: DefaultPane}
}

// BusinessID returns the business the session belongs to.
func (t Tabs) BusinessID() string { return t.businessID }

// Selected returns the pane on screen.
func (t Tabs) Selected() Pane {
	if t.selected == "" {
		return DefaultPane
	}
	return t.selected
}

// Select switches to p. It reports whether the selection changed; an
// unknown pane or the current pane leaves the selection as it was.
func (t *Tabs) Select(p Pane) bool {
	if p == t.Selected() || !valid(p) {
		return false
	}
	t.selected = p
	return true
}

// Next moves one tab to the right, wrapping around.
func (t *Tabs) Next() Pane {
	t.selected = paneOrder[(t.position()+1)%len(paneOrder)]
	return t.selected
}

// Prev moves one tab to the left, wrapping around.
func (t *Tabs) Prev() Pane {
	t.selected = paneOrder[(t.position()+len(paneOrder)-1)%len(paneOrder)]
	return t.selected
}

func (t Tabs) position() int {
	current := t.Selected()
	for i, p := range paneOrder {
		if p == current {
			return i
		}
	}
	return 0
}

func valid(p Pane) bool {
	switch p {
	case PaneTimeline, PaneTasks, PaneNotes, PaneFiles, PaneEmails:
		return true
	}
	return false
}
