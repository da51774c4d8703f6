package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bizcrm/internal/ticket"
)

// CreateTicket persists a new ticket. A blank status becomes the default
// status; any other value must be one of the known statuses.
func (s *Store) CreateTicket(ctx context.Context, t *ticket.Ticket) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("ticket title required")
	}
	if strings.TrimSpace(t.WorkspaceID) == "" {
		return fmt.Errorf("ticket workspace required")
	}
	status := ticket.DefaultStatus
	if strings.TrimSpace(t.Status) != "" {
		parsed, err := ticket.ParseStatus(t.Status)
		if err != nil {
			return err
		}
		status = parsed
	}
	t.Status = string(status)
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO tickets (id, workspace_id, business_id, title, status, creator, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.WorkspaceID, nullString(t.BusinessID), strings.TrimSpace(t.Title), t.Status, t.Creator, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// ListTickets returns a workspace's tickets newest first. Status values
// are returned as stored.
func (s *Store) ListTickets(ctx context.Context, workspace string) ([]ticket.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT t.id, t.workspace_id, t.business_id, b.name, t.title, t.status, t.creator, t.created_at
        FROM tickets t
        LEFT JOIN businesses b ON b.id = t.business_id
        WHERE t.workspace_id = ?
        ORDER BY t.created_at DESC`, workspace)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var t ticket.Ticket
		var businessID, businessName sql.NullString
		var created string
		if err := rows.Scan(&t.ID, &t.WorkspaceID, &businessID, &businessName, &t.Title, &t.Status, &t.Creator, &created); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.BusinessID = nullStringToString(businessID)
		t.BusinessName = nullStringToString(businessName)
		t.CreatedAt = parseTime(created)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tickets rows: %w", err)
	}
	return tickets, nil
}

// UpdateTicketStatus moves a ticket to status.
func (s *Store) UpdateTicketStatus(ctx context.Context, id string, status ticket.Status) error {
	if _, err := ticket.ParseStatus(string(status)); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
