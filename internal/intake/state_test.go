package intake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizcrm/internal/business"
	"bizcrm/internal/registry"
)

var acme = registry.Candidate{
	Name:       "ACME AS",
	OrgNumber:  "999888777",
	Address:    "Storgata 1",
	PostalCode: "0001",
	City:       "OSLO",
}

func opened(t *testing.T) State {
	t.Helper()
	s, eff := Update(New(business.DefaultValues), Open{})
	require.Nil(t, eff)
	require.Equal(t, PhaseEditing, s.Phase)
	return s
}

func step(t *testing.T, s State, msgs ...Msg) State {
	t.Helper()
	for _, m := range msgs {
		var eff Effect
		s, eff = Update(s, m)
		require.Nil(t, eff, "unexpected effect for %T", m)
	}
	return s
}

func TestOpenStartsFreshDraft(t *testing.T) {
	s := opened(t)
	s = step(t, s, FieldChanged{Field: FieldName, Value: "Old"}, QueryChanged{Query: "old"})
	s.Candidates = []registry.Candidate{acme}

	s, _ = Update(s, Dismiss{})
	assert.Equal(t, PhaseIdle, s.Phase)

	s2, _ := Update(s, Open{})
	assert.Equal(t, s.Session+1, s2.Session)
	assert.Equal(t, "", s2.Draft.Name)
	assert.Equal(t, "", s2.Query)
	assert.Empty(t, s2.Candidates)
	assert.Equal(t, business.StageLead, s2.Draft.Stage)
	assert.Equal(t, "Norge", s2.Draft.Country)
}

func TestSearchOnlyOnExplicitRequest(t *testing.T) {
	s := opened(t)

	s, eff := Update(s, QueryChanged{Query: "ACME"})
	assert.Nil(t, eff, "typing never searches")
	assert.Equal(t, PhaseEditing, s.Phase)

	s, eff = Update(s, SearchRequested{})
	require.Equal(t, SearchEffect{Session: s.Session, Query: "ACME"}, eff)
	assert.Equal(t, PhaseSearching, s.Phase)

	_, eff = Update(s, SearchRequested{})
	assert.Nil(t, eff, "one search in flight at a time")
}

func TestBlankQueryDoesNotSearch(t *testing.T) {
	s := step(t, opened(t), QueryChanged{Query: "   "})
	s, eff := Update(s, SearchRequested{})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseEditing, s.Phase)
}

func TestSearchCompletedApplies(t *testing.T) {
	s := step(t, opened(t), QueryChanged{Query: "ACME AS"})
	s, _ = Update(s, SearchRequested{})

	s = step(t, s, SearchCompleted{Session: s.Session, Query: "ACME AS", Candidates: []registry.Candidate{acme}})
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, []registry.Candidate{acme}, s.Candidates)
	assert.Equal(t, NoticeNone, s.Notice.Kind)
}

func TestSearchNoMatchIsInfo(t *testing.T) {
	s := step(t, opened(t), QueryChanged{Query: "Nobody"})
	s, _ = Update(s, SearchRequested{})
	s = step(t, s, SearchCompleted{Session: s.Session, Query: "Nobody", Candidates: []registry.Candidate{}})

	assert.Empty(t, s.Candidates)
	assert.Equal(t, NoticeInfo, s.Notice.Kind)
	assert.Contains(t, s.Notice.Text, "Nobody")

	s = step(t, s, DismissNotice{})
	assert.Equal(t, Notice{}, s.Notice)
}

func TestSearchFailureKeepsDraft(t *testing.T) {
	s := step(t, opened(t),
		FieldChanged{Field: FieldName, Value: "Manual Name"},
		QueryChanged{Query: "ACME"},
	)
	s, _ = Update(s, SearchRequested{})
	draft := s.Draft

	s = step(t, s, SearchCompleted{Session: s.Session, Query: "ACME", Err: &registry.LookupError{Kind: registry.FailureStatus, StatusCode: 503}})
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, NoticeError, s.Notice.Kind)
	assert.Equal(t, draft, s.Draft)
}

func TestStaleSearchResultsDiscarded(t *testing.T) {
	t.Run("query cleared while in flight", func(t *testing.T) {
		s := step(t, opened(t), QueryChanged{Query: "ACME"})
		s, _ = Update(s, SearchRequested{})
		s = step(t, s, QueryChanged{Query: ""})

		s = step(t, s, SearchCompleted{Session: s.Session, Query: "ACME", Candidates: []registry.Candidate{acme}})
		assert.Empty(t, s.Candidates)
		assert.Equal(t, PhaseEditing, s.Phase)
		assert.Equal(t, NoticeNone, s.Notice.Kind)
	})

	t.Run("sheet reopened", func(t *testing.T) {
		s := step(t, opened(t), QueryChanged{Query: "ACME"})
		s, _ = Update(s, SearchRequested{})
		oldSession := s.Session
		s = step(t, s, Dismiss{}, Open{})

		s = step(t, s, SearchCompleted{Session: oldSession, Query: "ACME", Candidates: []registry.Candidate{acme}})
		assert.Empty(t, s.Candidates)
		assert.Equal(t, PhaseEditing, s.Phase)
	})

	t.Run("sheet closed", func(t *testing.T) {
		s := step(t, opened(t), QueryChanged{Query: "ACME"})
		s, _ = Update(s, SearchRequested{})
		s = step(t, s, Dismiss{})

		s = step(t, s, SearchCompleted{Session: s.Session, Query: "ACME", Candidates: []registry.Candidate{acme}})
		assert.Equal(t, PhaseIdle, s.Phase)
		assert.Empty(t, s.Candidates)
	})
}

func TestSelectCandidateOverwritesMappedFieldsOnly(t *testing.T) {
	s := step(t, opened(t),
		FieldChanged{Field: FieldName, Value: "typed"},
		FieldChanged{Field: FieldAddress, Value: "old street"},
		FieldChanged{Field: FieldCountry, Value: "Sverige"},
		FieldChanged{Field: FieldEmail, Value: "post@acme.no"},
		FieldChanged{Field: FieldPhone, Value: "22334455"},
		StageChanged{Stage: business.StageQualified},
		QueryChanged{Query: "ACME"},
	)
	before := s.Draft
	s.Candidates = []registry.Candidate{{Name: "OTHER AS"}, acme}

	s = step(t, s, SelectCandidate{Index: 1})

	assert.Equal(t, "Acme As", s.Draft.Name)
	assert.Equal(t, acme.OrgNumber, s.Draft.OrgNumber)
	assert.Equal(t, acme.Address, s.Draft.Address)
	assert.Equal(t, acme.PostalCode, s.Draft.PostalCode)
	assert.Equal(t, acme.City, s.Draft.City)

	assert.Equal(t, before.Country, s.Draft.Country)
	assert.Equal(t, before.Email, s.Draft.Email)
	assert.Equal(t, before.Phone, s.Draft.Phone)
	assert.Equal(t, before.Stage, s.Draft.Stage)

	assert.Empty(t, s.Candidates)
	assert.Equal(t, "", s.Query)
}

func TestSelectCandidateOutOfRange(t *testing.T) {
	s := opened(t)
	s.Candidates = []registry.Candidate{acme}
	before := s

	for _, idx := range []int{-1, 1, 7} {
		s = step(t, s, SelectCandidate{Index: idx})
		assert.Equal(t, before, s)
	}
}

func TestSubmitEmptyNameIsFieldError(t *testing.T) {
	for _, name := range []string{"", "   "} {
		s := step(t, opened(t), FieldChanged{Field: FieldName, Value: name})
		s, eff := Update(s, SubmitRequested{})

		assert.Nil(t, eff, "no create for name %q", name)
		assert.Equal(t, PhaseEditing, s.Phase)
		assert.Contains(t, s.FieldErrors, "name")
	}
}

func TestSubmitRejectsMalformedEmail(t *testing.T) {
	s := step(t, opened(t),
		FieldChanged{Field: FieldName, Value: "Acme"},
		FieldChanged{Field: FieldEmail, Value: "not-an-address"},
	)
	s, eff := Update(s, SubmitRequested{})
	assert.Nil(t, eff)
	assert.Contains(t, s.FieldErrors, "email")
	assert.NotContains(t, s.FieldErrors, "name")

	s = step(t, s, FieldChanged{Field: FieldEmail, Value: "post@acme.no"})
	assert.Empty(t, s.FieldErrors, "editing clears the field error")
}

func TestSubmitAppliesDefaults(t *testing.T) {
	s := step(t, opened(t),
		FieldChanged{Field: FieldName, Value: "  Acme  "},
		FieldChanged{Field: FieldCountry, Value: ""},
	)
	s, eff := Update(s, SubmitRequested{})
	require.IsType(t, CreateEffect{}, eff)

	in := eff.(CreateEffect).Input
	assert.Equal(t, "Acme", in.Name)
	assert.Equal(t, "Norge", in.Country)
	assert.Equal(t, "info@example.com", in.Email)
	assert.Equal(t, "00000000", in.Phone)
	assert.Equal(t, business.StageLead, in.Stage)
	assert.Equal(t, business.StatusActive, in.Status)
	assert.Empty(t, in.WorkspaceID, "workspace is stamped by the controller")
	assert.Equal(t, PhaseSubmitting, s.Phase)
}

func TestConfiguredDefaultsWin(t *testing.T) {
	s, _ := Update(New(business.Defaults{Country: "Sverige", Email: "hej@example.se"}), Open{})
	assert.Equal(t, "Sverige", s.Draft.Country)

	s = step(t, s, FieldChanged{Field: FieldName, Value: "Volvo"})
	_, eff := Update(s, SubmitRequested{})
	in := eff.(CreateEffect).Input
	assert.Equal(t, "hej@example.se", in.Email)
	assert.Equal(t, "00000000", in.Phone, "blank entries use the built-in table")
}

func TestSubmittingBlocksInput(t *testing.T) {
	s := step(t, opened(t), FieldChanged{Field: FieldName, Value: "Acme"})
	s, eff := Update(s, SubmitRequested{})
	require.NotNil(t, eff)
	frozen := s

	for _, m := range []Msg{
		SubmitRequested{},
		SearchRequested{},
		FieldChanged{Field: FieldName, Value: "x"},
		StageChanged{Stage: business.StageCustomer},
		QueryChanged{Query: "x"},
		SelectCandidate{Index: 0},
		Dismiss{},
		Open{},
		SearchCompleted{Session: s.Session, Query: "x"},
	} {
		var e Effect
		s, e = Update(s, m)
		assert.Nil(t, e, "%T", m)
		assert.Equal(t, frozen, s, "%T", m)
	}
}

func TestSubmitSuccessClosesSheet(t *testing.T) {
	s := step(t, opened(t), FieldChanged{Field: FieldName, Value: "Acme"})
	s, _ = Update(s, SubmitRequested{})

	created := business.Business{ID: "b1", Name: "Acme"}
	s, eff := Update(s, SubmitCompleted{Session: s.Session, Business: created})
	assert.Equal(t, AddedEffect{Business: created}, eff)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, "", s.Draft.Name)
}

func TestDuplicateConflictKeepsDraftIntact(t *testing.T) {
	s := step(t, opened(t),
		FieldChanged{Field: FieldName, Value: "Acme"},
		FieldChanged{Field: FieldOrgNumber, Value: "999888777"},
		FieldChanged{Field: FieldEmail, Value: "post@acme.no"},
		StageChanged{Stage: business.StageProspect},
	)
	before := s.Draft
	s, _ = Update(s, SubmitRequested{})

	s, eff := Update(s, SubmitCompleted{Session: s.Session, Err: business.ErrDuplicateOrgNumber})
	assert.Nil(t, eff)
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, before, s.Draft)
	assert.Equal(t, NoticeError, s.Notice.Kind)
	assert.Contains(t, s.Notice.Text, "999888777")
	assert.Empty(t, s.FieldErrors, "a conflict is reported only as a notice")
}

func TestSubmitFailureNotices(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"workspace": {business.ErrWorkspaceRequired, "workspace"},
		"invalid":   {business.ErrInvalid, "rejected"},
		"transport": {errors.New("disk full"), "disk full"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := step(t, opened(t), FieldChanged{Field: FieldName, Value: "Acme"})
			s, _ = Update(s, SubmitRequested{})
			before := s.Draft

			s, eff := Update(s, SubmitCompleted{Session: s.Session, Err: tc.err})
			assert.Nil(t, eff)
			assert.Equal(t, PhaseEditing, s.Phase)
			assert.Equal(t, before, s.Draft)
			assert.Contains(t, s.Notice.Text, tc.want)

			_, eff = Update(s, SubmitRequested{})
			assert.IsType(t, CreateEffect{}, eff, "retry is possible")
		})
	}
}

func TestStageChangedRejectsUnknown(t *testing.T) {
	s := step(t, opened(t), StageChanged{Stage: business.Stage("won")})
	assert.Equal(t, business.StageLead, s.Draft.Stage)

	s = step(t, s, StageChanged{Stage: business.StageOfferSent})
	assert.Equal(t, business.StageOfferSent, s.Draft.Stage)
}

func TestIdleIgnoresEdits(t *testing.T) {
	s := New(business.DefaultValues)
	s = step(t, s,
		FieldChanged{Field: FieldName, Value: "x"},
		QueryChanged{Query: "x"},
		StageChanged{Stage: business.StageCustomer},
	)
	assert.Equal(t, New(business.DefaultValues), s)

	_, eff := Update(s, SubmitRequested{})
	assert.Nil(t, eff)
}
