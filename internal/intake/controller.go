package intake

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"bizcrm/internal/business"
	"bizcrm/internal/registry"
)

// Lookup resolves a query against the organization registry.
type Lookup interface {
	Search(ctx context.Context, query string) ([]registry.Candidate, error)
}

// Creator persists a new business.
type Creator interface {
	CreateBusiness(ctx context.Context, in business.CreateInput) (business.Business, error)
}

// Controller performs the effects Update asks for.
type Controller struct {
	Lookup  Lookup
	Creator Creator
	// Workspace and CreatorName are stamped onto every create payload.
	Workspace   string
	CreatorName string
	Log         *zap.Logger
	// OnAdded runs once for every business created through the sheet so
	// the caller can reload its listing.
	OnAdded func()
	Now     func() time.Time
}

// Run performs eff and returns the message reporting its outcome, or nil
// when there is nothing to feed back.
func (c *Controller) Run(ctx context.Context, eff Effect) Msg {
	switch e := eff.(type) {
	case SearchEffect:
		candidates, err := c.Lookup.Search(ctx, e.Query)
		if err != nil {
			c.logger().Warn("intake search failed", zap.String("query", e.Query), zap.Error(err))
		}
		return SearchCompleted{Session: e.Session, Query: e.Query, Candidates: candidates, Err: err}

	case CreateEffect:
		return c.create(ctx, e)

	case AddedEffect:
		c.logger().Info("business added",
			zap.String("id", e.Business.ID),
			zap.String("org_number", e.Business.OrgNumber),
			zap.String("workspace", e.Business.WorkspaceID),
		)
		if c.OnAdded != nil {
			c.OnAdded()
		}
		return nil
	}
	return nil
}

func (c *Controller) create(ctx context.Context, e CreateEffect) Msg {
	in := e.Input
	in.WorkspaceID = strings.TrimSpace(c.Workspace)
	in.Creator = c.CreatorName
	in.CreatedAt = c.now()

	if in.WorkspaceID == "" {
		c.logger().Warn("intake submit without workspace", zap.String("name", in.Name))
		return SubmitCompleted{Session: e.Session, Err: business.ErrWorkspaceRequired}
	}

	b, err := c.Creator.CreateBusiness(ctx, in)
	if err != nil {
		c.logger().Warn("intake create failed",
			zap.String("name", in.Name),
			zap.String("org_number", in.OrgNumber),
			zap.Error(err),
		)
		return SubmitCompleted{Session: e.Session, Err: err}
	}
	return SubmitCompleted{Session: e.Session, Business: b}
}

// Dispatch feeds msg through Update and runs the resulting effects to
// completion. It is the synchronous counterpart of the TUI command loop.
func (c *Controller) Dispatch(ctx context.Context, s State, msg Msg) State {
	for msg != nil {
		var eff Effect
		s, eff = Update(s, msg)
		if eff == nil {
			break
		}
		msg = c.Run(ctx, eff)
	}
	return s
}

func (c *Controller) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Controller) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now()
}
