package business

import (
	"errors"
	"strings"
	"time"
)

// Status marks whether a business is still worked on.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Business is a persisted company record.
type Business struct {
	ID          string
	WorkspaceID string
	Name        string
	OrgNumber   string
	Address     string
	PostalCode  string
	City        string
	Country     string
	Email       string
	Phone       string
	Stage       Stage
	Status      Status
	Notes       string
	Creator     string
	CreatedAt   time.Time
}

// CreateInput is the payload handed to the persistence layer. Optional
// fields the user left blank have already been resolved against a
// Defaults table.
type CreateInput struct {
	WorkspaceID string
	Name        string
	OrgNumber   string
	Address     string
	PostalCode  string
	City        string
	Country     string
	Email       string
	Phone       string
	Stage       Stage
	Status      Status
	Creator     string
	CreatedAt   time.Time
}

var (
	// ErrDuplicateOrgNumber is returned when the org number is already
	// registered in the same workspace.
	ErrDuplicateOrgNumber = errors.New("organization number already registered in workspace")
	// ErrWorkspaceRequired is returned when a create is attempted without
	// a workspace association.
	ErrWorkspaceRequired = errors.New("workspace is required")
	// ErrInvalid is returned when the store rejects the payload contents.
	ErrInvalid = errors.New("invalid business")
)

// Defaults is the fallback policy for optional fields left blank.
type Defaults struct {
	Country string
	Email   string
	Phone   string
}

// DefaultValues is used when no configured table is supplied.
var DefaultValues = Defaults{
	Country: "Norge",
	Email:   "info@example.com",
	Phone:   "00000000",
}

// Merge fills blank entries of d from fallback.
func (d Defaults) Merge(fallback Defaults) Defaults {
	if strings.TrimSpace(d.Country) == "" {
		d.Country = fallback.Country
	}
	if strings.TrimSpace(d.Email) == "" {
		d.Email = fallback.Email
	}
	if strings.TrimSpace(d.Phone) == "" {
		d.Phone = fallback.Phone
	}
	return d
}

// CountryOr returns value when set and the default country otherwise.
func (d Defaults) CountryOr(value string) string {
	return orDefault(value, d.Country)
}

// EmailOr returns value when set and the placeholder email otherwise.
func (d Defaults) EmailOr(value string) string {
	return orDefault(value, d.Email)
}

// PhoneOr returns value when set and the placeholder phone otherwise.
func (d Defaults) PhoneOr(value string) string {
	return orDefault(value, d.Phone)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
