package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bizcrm/internal/business"
)

const businessColumns = `id, workspace_id, name, org_number, address, postal_code, city, country, email, phone, stage, status, notes, creator, created_at`

// CreateBusiness inserts a new business. A taken org number within the
// same workspace yields business.ErrDuplicateOrgNumber.
func (s *Store) CreateBusiness(ctx context.Context, in business.CreateInput) (business.Business, error) {
	b := business.Business{
		ID:          uuid.NewString(),
		WorkspaceID: strings.TrimSpace(in.WorkspaceID),
		Name:        strings.TrimSpace(in.Name),
		OrgNumber:   strings.TrimSpace(in.OrgNumber),
		Address:     strings.TrimSpace(in.Address),
		PostalCode:  strings.TrimSpace(in.PostalCode),
		City:        strings.TrimSpace(in.City),
		Country:     strings.TrimSpace(in.Country),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Stage:       in.Stage,
		Status:      in.Status,
		Creator:     in.Creator,
		CreatedAt:   in.CreatedAt,
	}
	if b.WorkspaceID == "" {
		return business.Business{}, business.ErrWorkspaceRequired
	}
	if b.Name == "" {
		return business.Business{}, fmt.Errorf("%w: name required", business.ErrInvalid)
	}
	if !b.Stage.Valid() {
		return business.Business{}, fmt.Errorf("%w: unknown stage %q", business.ErrInvalid, b.Stage)
	}
	if b.Status == "" {
		b.Status = business.StatusActive
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO businesses (`+businessColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.WorkspaceID, b.Name, nullString(b.OrgNumber), nullString(b.Address), nullString(b.PostalCode), nullString(b.City),
		b.Country, b.Email, b.Phone, string(b.Stage), string(b.Status), nil, b.Creator, formatTime(b.CreatedAt))
	if err != nil {
		switch {
		case isUniqueConstraint(err):
			return business.Business{}, fmt.Errorf("org number %s: %w", b.OrgNumber, business.ErrDuplicateOrgNumber)
		case isCheckConstraint(err):
			return business.Business{}, fmt.Errorf("%w: %v", business.ErrInvalid, err)
		}
		return business.Business{}, fmt.Errorf("insert business: %w", err)
	}
	return b, nil
}

// ListBusinesses loads a workspace's businesses ordered alphabetically.
func (s *Store) ListBusinesses(ctx context.Context, workspace string) ([]business.Business, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+businessColumns+` FROM businesses WHERE workspace_id = ? ORDER BY name COLLATE NOCASE`, workspace)
	if err != nil {
		return nil, fmt.Errorf("query businesses: %w", err)
	}
	return collectBusinesses(rows)
}

// SearchBusinesses matches a case-insensitive substring of the name or a
// prefix of the org number.
func (s *Store) SearchBusinesses(ctx context.Context, workspace, term string) ([]business.Business, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListBusinesses(ctx, workspace)
	}
	like := fmt.Sprintf("%%%s%%", strings.ToLower(term))
	prefix := strings.ReplaceAll(term, " ", "") + "%"
	rows, err := s.db.QueryContext(ctx, `SELECT `+businessColumns+` FROM businesses
        WHERE workspace_id = ? AND (lower(name) LIKE ? OR org_number LIKE ?)
        ORDER BY name COLLATE NOCASE`, workspace, like, prefix)
	if err != nil {
		return nil, fmt.Errorf("search businesses: %w", err)
	}
	return collectBusinesses(rows)
}

// BusinessByID retrieves a business by its identifier.
func (s *Store) BusinessByID(ctx context.Context, id string) (*business.Business, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+businessColumns+` FROM businesses WHERE id = ?`, id)
	b, err := scanBusiness(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return &b, nil
}

func collectBusinesses(rows *sql.Rows) ([]business.Business, error) {
	defer rows.Close()

	var out []business.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("businesses rows: %w", err)
	}
	return out, nil
}

func scanBusiness(rs rowScanner) (business.Business, error) {
	var b business.Business
	var orgnr, address, postal, city, notes sql.NullString
	var stage, status, created string
	if err := rs.Scan(&b.ID, &b.WorkspaceID, &b.Name, &orgnr, &address, &postal, &city,
		&b.Country, &b.Email, &b.Phone, &stage, &status, &notes, &b.Creator, &created); err != nil {
		return business.Business{}, err
	}
	b.OrgNumber = nullStringToString(orgnr)
	b.Address = nullStringToString(address)
	b.PostalCode = nullStringToString(postal)
	b.City = nullStringToString(city)
	b.Notes = nullStringToString(notes)
	b.Stage = business.Stage(stage)
	b.Status = business.Status(status)
	b.CreatedAt = parseTime(created)
	return b, nil
}
