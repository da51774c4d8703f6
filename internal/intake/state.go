// Package intake drives the add-business sheet: registry search,
// candidate selection, validation and submission.
//
// State only changes through Update, which is pure. IO is requested by
// returning an Effect; the Controller performs it and feeds the result
// back as a Msg.
package intake

import (
	"errors"
	"fmt"
	"strings"

	"bizcrm/internal/business"
	"bizcrm/internal/registry"
)

// Phase is the lifecycle position of the sheet.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEditing
	PhaseSearching
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEditing:
		return "editing"
	case PhaseSearching:
		return "searching"
	case PhaseSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// NoticeKind separates informational banners from errors.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
)

// Notice is a dismissible banner shown on the sheet.
type Notice struct {
	Kind NoticeKind
	Text string
}

// State is everything the sheet renders from.
type State struct {
	Phase       Phase
	Session     int
	Query       string
	Draft       Draft
	Candidates  []registry.Candidate
	FieldErrors map[string]string
	Notice      Notice

	defaults business.Defaults
}

// New returns a closed sheet that fills blank fields from defaults.
func New(defaults business.Defaults) State {
	defaults = defaults.Merge(business.DefaultValues)
	return State{Phase: PhaseIdle, defaults: defaults, Draft: NewDraft(defaults)}
}

// Open reports whether the sheet is visible.
func (s State) Open() bool { return s.Phase != PhaseIdle }

// Busy reports whether an effect is in flight.
func (s State) Busy() bool { return s.Phase == PhaseSearching || s.Phase == PhaseSubmitting }

// Defaults returns the fallback table used at submit time.
func (s State) Defaults() business.Defaults { return s.defaults }

// Msg is an input to Update.
type Msg interface{ intakeMsg() }

type (
	// Open starts a new session with a fresh draft.
	Open struct{}
	// Dismiss closes the sheet and drops the draft.
	Dismiss struct{}
	// QueryChanged mirrors the search box.
	QueryChanged struct{ Query string }
	// SearchRequested is the explicit search action.
	SearchRequested struct{}
	// SearchCompleted carries a registry answer.
	SearchCompleted struct {
		Session    int
		Query      string
		Candidates []registry.Candidate
		Err        error
	}
	// SelectCandidate merges Candidates[Index] into the draft.
	SelectCandidate struct{ Index int }
	// FieldChanged edits one draft field.
	FieldChanged struct {
		Field Field
		Value string
	}
	// StageChanged sets the draft stage.
	StageChanged struct{ Stage business.Stage }
	// SubmitRequested validates and submits the draft.
	SubmitRequested struct{}
	// SubmitCompleted carries the create outcome.
	SubmitCompleted struct {
		Session  int
		Business business.Business
		Err      error
	}
	// DismissNotice hides the banner.
	DismissNotice struct{}
)

func (Open) intakeMsg()            {}
func (Dismiss) intakeMsg()         {}
func (QueryChanged) intakeMsg()    {}
func (SearchRequested) intakeMsg() {}
func (SearchCompleted) intakeMsg() {}
func (SelectCandidate) intakeMsg() {}
func (FieldChanged) intakeMsg()    {}
func (StageChanged) intakeMsg()    {}
func (SubmitRequested) intakeMsg() {}
func (SubmitCompleted) intakeMsg() {}
func (DismissNotice) intakeMsg()   {}

// Effect is IO requested by Update. A nil Effect means nothing to do.
type Effect interface{ intakeEffect() }

type (
	// SearchEffect asks for a registry lookup.
	SearchEffect struct {
		Session int
		Query   string
	}
	// CreateEffect asks for the business to be persisted. Input has no
	// workspace yet.
	CreateEffect struct {
		Session int
		Input   business.CreateInput
	}
	// AddedEffect tells the host a business was created and its listing
	// is stale.
	AddedEffect struct{ Business business.Business }
)

func (SearchEffect) intakeEffect() {}
func (CreateEffect) intakeEffect() {}
func (AddedEffect) intakeEffect()  {}

// Update applies msg to s.
func Update(s State, msg Msg) (State, Effect) {
	// Nothing but the create result gets through while submitting.
	if s.Phase == PhaseSubmitting {
		if m, ok := msg.(SubmitCompleted); ok {
			return submitCompleted(s, m)
		}
		return s, nil
	}

	switch m := msg.(type) {
	case Open:
		return open(s), nil

	case Dismiss:
		return closed(s), nil

	case DismissNotice:
		s.Notice = Notice{}
		return s, nil

	case QueryChanged:
		if !s.Open() {
			return s, nil
		}
		s.Query = m.Query
		return s, nil

	case SearchRequested:
		if s.Phase != PhaseEditing {
			return s, nil
		}
		q := strings.TrimSpace(s.Query)
		if q == "" {
			return s, nil
		}
		s.Phase = PhaseSearching
		s.Notice = Notice{}
		return s, SearchEffect{Session: s.Session, Query: q}

	case SearchCompleted:
		return searchCompleted(s, m), nil

	case SelectCandidate:
		if s.Phase != PhaseEditing || m.Index < 0 || m.Index >= len(s.Candidates) {
			return s, nil
		}
		s.Draft = s.Draft.Apply(s.Candidates[m.Index])
		s.Candidates = nil
		s.Query = ""
		s.FieldErrors = withoutKeys(s.FieldErrors, FieldName.Key(), FieldOrgNumber.Key())
		return s, nil

	case FieldChanged:
		if !s.Open() {
			return s, nil
		}
		s.Draft = s.Draft.With(m.Field, m.Value)
		s.FieldErrors = withoutKeys(s.FieldErrors, m.Field.Key())
		return s, nil

	case StageChanged:
		if !s.Open() || !m.Stage.Valid() {
			return s, nil
		}
		s.Draft.Stage = m.Stage
		return s, nil

	case SubmitRequested:
		if s.Phase != PhaseEditing {
			return s, nil
		}
		if errs := s.Draft.Validate(); errs != nil {
			s.FieldErrors = errs
			return s, nil
		}
		s.FieldErrors = nil
		s.Notice = Notice{}
		s.Phase = PhaseSubmitting
		return s, CreateEffect{Session: s.Session, Input: BuildInput(s.Draft, s.defaults)}

	case SubmitCompleted:
		// Only reachable for a stale session; the live one is handled above.
		return s, nil
	}
	return s, nil
}

func open(s State) State {
	return State{
		Phase:    PhaseEditing,
		Session:  s.Session + 1,
		Draft:    NewDraft(s.defaults),
		defaults: s.defaults,
	}
}

func closed(s State) State {
	return State{
		Phase:    PhaseIdle,
		Session:  s.Session,
		Draft:    NewDraft(s.defaults),
		defaults: s.defaults,
	}
}

func searchCompleted(s State, m SearchCompleted) State {
	if m.Session != s.Session || s.Phase != PhaseSearching {
		return s
	}
	s.Phase = PhaseEditing
	if strings.TrimSpace(s.Query) == "" {
		return s
	}

	if m.Err != nil {
		s.Notice = Notice{Kind: NoticeError, Text: searchFailure(m.Err)}
		return s
	}
	s.Candidates = m.Candidates
	if len(m.Candidates) == 0 {
		s.Notice = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("No match for %q in the registry", m.Query)}
	}
	return s
}

func submitCompleted(s State, m SubmitCompleted) (State, Effect) {
	if m.Session != s.Session {
		return s, nil
	}
	if m.Err == nil {
		return closed(s), AddedEffect{Business: m.Business}
	}

	s.Phase = PhaseEditing
	// Uniqueness is owned by the store, so a conflict is a notice and
	// never a field error.
	s.Notice = Notice{Kind: NoticeError, Text: submitFailure(s.Draft, m.Err)}
	return s, nil
}

func searchFailure(err error) string {
	if errors.Is(err, registry.ErrLookupFailed) {
		return "Registry lookup failed, try again"
	}
	return fmt.Sprintf("Search failed: %v", err)
}

func submitFailure(d Draft, err error) string {
	switch {
	case errors.Is(err, business.ErrDuplicateOrgNumber):
		return fmt.Sprintf("Org number %s is already registered in this workspace", strings.TrimSpace(d.OrgNumber))
	case errors.Is(err, business.ErrWorkspaceRequired):
		return "No workspace configured, set one in settings"
	case errors.Is(err, business.ErrInvalid):
		return fmt.Sprintf("Business rejected: %v", err)
	default:
		return fmt.Sprintf("Could not save business: %v", err)
	}
}

func withoutKeys(errs map[string]string, keys ...string) map[string]string {
	if len(errs) == 0 {
		return errs
	}
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
