package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bizcrm/internal/business"
	"bizcrm/internal/registry"
)

type fakeLookup struct {
	queries []string
	result  []registry.Candidate
	err     error
}

func (f *fakeLookup) Search(_ context.Context, q string) ([]registry.Candidate, error) {
	f.queries = append(f.queries, q)
	return f.result, f.err
}

type fakeCreator struct {
	calls []business.CreateInput
	err   error
}

func (f *fakeCreator) CreateBusiness(_ context.Context, in business.CreateInput) (business.Business, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return business.Business{}, f.err
	}
	return business.Business{
		ID:          "biz-1",
		WorkspaceID: in.WorkspaceID,
		Name:        in.Name,
		OrgNumber:   in.OrgNumber,
		Address:     in.Address,
		PostalCode:  in.PostalCode,
		City:        in.City,
		Country:     in.Country,
		Email:       in.Email,
		Phone:       in.Phone,
		Stage:       in.Stage,
		Status:      in.Status,
		Creator:     in.Creator,
		CreatedAt:   in.CreatedAt,
	}, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newController(lookup *fakeLookup, creator *fakeCreator, added *int) *Controller {
	return &Controller{
		Lookup:      lookup,
		Creator:     creator,
		Workspace:   "ws-1",
		CreatorName: "kari",
		Log:         zap.NewNop(),
		OnAdded:     func() { *added++ },
		Now:         func() time.Time { return fixedNow },
	}
}

func TestEndToEndAcme(t *testing.T) {
	lookup := &fakeLookup{result: []registry.Candidate{acme}}
	creator := &fakeCreator{}
	var added int
	c := newController(lookup, creator, &added)
	ctx := context.Background()

	s := c.Dispatch(ctx, New(business.DefaultValues), Open{})
	s = c.Dispatch(ctx, s, QueryChanged{Query: "ACME AS"})
	s = c.Dispatch(ctx, s, SearchRequested{})
	require.Equal(t, []string{"ACME AS"}, lookup.queries)
	require.Len(t, s.Candidates, 1)

	s = c.Dispatch(ctx, s, SelectCandidate{Index: 0})
	assert.Equal(t, "Acme As", s.Draft.Name)

	s = c.Dispatch(ctx, s, SubmitRequested{})
	require.Len(t, creator.calls, 1)

	in := creator.calls[0]
	assert.Equal(t, business.CreateInput{
		WorkspaceID: "ws-1",
		Name:        "Acme As",
		OrgNumber:   "999888777",
		Address:     "Storgata 1",
		PostalCode:  "0001",
		City:        "OSLO",
		Country:     "Norge",
		Email:       "info@example.com",
		Phone:       "00000000",
		Stage:       business.StageLead,
		Status:      business.StatusActive,
		Creator:     "kari",
		CreatedAt:   fixedNow,
	}, in)

	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, 1, added, "caller notified exactly once")
}

func TestDispatchEmptyNameNeverCreates(t *testing.T) {
	creator := &fakeCreator{}
	var added int
	c := newController(&fakeLookup{}, creator, &added)
	ctx := context.Background()

	s := c.Dispatch(ctx, New(business.DefaultValues), Open{})
	s = c.Dispatch(ctx, s, SubmitRequested{})

	assert.Empty(t, creator.calls)
	assert.Zero(t, added)
	assert.Contains(t, s.FieldErrors, "name")
}

func TestDispatchDuplicateConflict(t *testing.T) {
	creator := &fakeCreator{err: business.ErrDuplicateOrgNumber}
	var added int
	c := newController(&fakeLookup{}, creator, &added)
	ctx := context.Background()

	s := c.Dispatch(ctx, New(business.DefaultValues), Open{})
	s = c.Dispatch(ctx, s, FieldChanged{Field: FieldName, Value: "Acme"})
	s = c.Dispatch(ctx, s, FieldChanged{Field: FieldOrgNumber, Value: "999888777"})
	before := s.Draft

	s = c.Dispatch(ctx, s, SubmitRequested{})
	require.Len(t, creator.calls, 1)
	assert.Zero(t, added)
	assert.Equal(t, PhaseEditing, s.Phase)
	assert.Equal(t, before, s.Draft)
	assert.Equal(t, NoticeError, s.Notice.Kind)
	assert.Contains(t, s.Notice.Text, "already registered")
	assert.Nil(t, s.FieldErrors)
}

func TestRunRequiresWorkspace(t *testing.T) {
	creator := &fakeCreator{}
	var added int
	c := newController(&fakeLookup{}, creator, &added)
	c.Workspace = "  "

	msg := c.Run(context.Background(), CreateEffect{Session: 3, Input: business.CreateInput{Name: "Acme"}})
	done, ok := msg.(SubmitCompleted)
	require.True(t, ok)
	assert.Equal(t, 3, done.Session)
	assert.ErrorIs(t, done.Err, business.ErrWorkspaceRequired)
	assert.Empty(t, creator.calls, "nothing persisted without a workspace")
}

func TestRunSearchPassesFailureThrough(t *testing.T) {
	lookupErr := &registry.LookupError{Kind: registry.FailureTransport, Underlying: errors.New("dial tcp")}
	c := &Controller{Lookup: &fakeLookup{err: lookupErr}}

	msg := c.Run(context.Background(), SearchEffect{Session: 2, Query: "ACME"})
	done, ok := msg.(SearchCompleted)
	require.True(t, ok)
	assert.Equal(t, 2, done.Session)
	assert.Equal(t, "ACME", done.Query)
	assert.ErrorIs(t, done.Err, registry.ErrLookupFailed)
}

func TestRunAddedWithoutCallback(t *testing.T) {
	c := &Controller{}
	assert.Nil(t, c.Run(context.Background(), AddedEffect{Business: business.Business{ID: "x"}}))
}
