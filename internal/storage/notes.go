package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is a free-form note attached to a business.
type Note struct {
	ID         string
	BusinessID string
	Content    string
	Creator    string
	CreatedAt  time.Time
}

// Activity is one entry of a business timeline.
type Activity struct {
	Kind      string
	RefID     string
	Title     string
	Details   string
	CreatedAt time.Time
}

// Timeline entry kinds.
const (
	ActivityBusiness = "business"
	ActivityNote     = "note"
	ActivityTicket   = "ticket"
)

// CreateNote persists a new note, filling in ID and CreatedAt.
func (s *Store) CreateNote(ctx context.Context, n *Note) error {
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("note content required")
	}
	if strings.TrimSpace(n.BusinessID) == "" {
		return fmt.Errorf("note business required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO notes (id, business_id, content, creator, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.BusinessID, strings.TrimSpace(n.Content), n.Creator, formatTime(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// ListNotes returns a business's notes newest first.
func (s *Store) ListNotes(ctx context.Context, businessID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, business_id, content, creator, created_at FROM notes WHERE business_id = ? ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var created string
		if err := rows.Scan(&n.ID, &n.BusinessID, &n.Content, &n.Creator, &created); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.CreatedAt = parseTime(created)
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notes rows: %w", err)
	}
	return notes, nil
}

// ListBusinessActivity returns the business's timeline newest first: its
// creation, its notes and its tickets.
func (s *Store) ListBusinessActivity(ctx context.Context, businessID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT kind, id, title, details, created_at FROM (
            SELECT 'business' AS kind, id, name AS title, creator AS details, created_at FROM businesses WHERE id = ?
            UNION ALL
            SELECT 'note' AS kind, id, substr(content, 1, 80) AS title, creator AS details, created_at FROM notes WHERE business_id = ?
            UNION ALL
            SELECT 'ticket' AS kind, id, title, status AS details, created_at FROM tickets WHERE business_id = ?
        ) ORDER BY created_at DESC LIMIT ?`, businessID, businessID, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("query business activity: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var details sql.NullString
		var created string
		if err := rows.Scan(&a.Kind, &a.RefID, &a.Title, &details, &created); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Details = nullStringToString(details)
		a.CreatedAt = parseTime(created)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return activities, nil
}
