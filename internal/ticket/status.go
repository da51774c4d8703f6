// Package ticket classifies support tickets by resolution state.
package ticket

import (
	"fmt"
	"strings"
	"time"
)

// Status is a ticket's resolution state.
type Status string

const (
	StatusUnassigned          Status = "unassigned"
	StatusOpen                Status = "open"
	StatusInProgress          Status = "in_progress"
	StatusWaitingOnCustomer   Status = "waiting_on_customer"
	StatusWaitingOnThirdParty Status = "waiting_on_third_party"
	StatusResolved            Status = "resolved"
	StatusClosed              Status = "closed"
)

// DefaultStatus is assigned to tickets nobody has picked up yet.
const DefaultStatus = StatusUnassigned

var statusOrder = [...]Status{
	StatusUnassigned,
	StatusOpen,
	StatusInProgress,
	StatusWaitingOnCustomer,
	StatusWaitingOnThirdParty,
	StatusResolved,
	StatusClosed,
}

// Statuses returns every known status in workflow order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder[:])
	return out
}

// ParseStatus is strict and meant for writes; display code should use
// Present, which tolerates unknown values.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.TrimSpace(value))
	if _, ok := known(s); !ok {
		return "", fmt.Errorf("unknown ticket status %q", value)
	}
	return s, nil
}

// Tone is the colour family a status badge is drawn with.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneInfo
	ToneActive
	ToneWaiting
	ToneEscalated
	ToneDone
)

// Icon is the glyph shown in front of a badge label.
type Icon int

const (
	IconNone Icon = iota
	IconSpinner
	IconCheck
)

// Presentation is everything a view needs to draw a status badge.
type Presentation struct {
	Status Status
	Label  string
	Tone   Tone
	Icon   Icon
	Known  bool
}

// Present resolves a raw status value, ignoring surrounding whitespace.
// Unrecognized values fall back to a neutral badge labelled with the text.
func Present(raw string) Presentation {
	trimmed := strings.TrimSpace(raw)
	p, ok := known(Status(trimmed))
	if !ok {
		return Presentation{Status: Status(trimmed), Label: trimmed, Tone: ToneNeutral, Icon: IconNone}
	}
	return p
}

func known(s Status) (Presentation, bool) {
	p := Presentation{Status: s, Known: true}
	switch s {
	case StatusUnassigned:
		p.Label, p.Tone = "Unassigned", ToneNeutral
	case StatusOpen:
		p.Label, p.Tone = "Open", ToneInfo
	case StatusInProgress:
		p.Label, p.Tone, p.Icon = "In Progress", ToneActive, IconSpinner
	case StatusWaitingOnCustomer:
		p.Label, p.Tone = "Waiting on Customer", ToneWaiting
	case StatusWaitingOnThirdParty:
		p.Label, p.Tone = "Waiting on Third Party", ToneEscalated
	case StatusResolved:
		p.Label, p.Tone, p.Icon = "Resolved", ToneDone, IconCheck
	case StatusClosed:
		p.Label, p.Tone, p.Icon = "Closed", ToneDone, IconCheck
	default:
		return Presentation{}, false
	}
	return p, true
}

// IsTerminal reports whether work on the ticket is finished.
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusClosed
}

// IsActive reports whether someone is working on the ticket right now.
func (s Status) IsActive() bool {
	return s == StatusInProgress
}

// Ticket is a support case, optionally tied to a business. Status is kept
// raw so values written by newer clients survive a round trip.
type Ticket struct {
	ID           string
	WorkspaceID  string
	BusinessID   string
	BusinessName string
	Title        string
	Status       string
	Creator      string
	CreatedAt    time.Time
}
