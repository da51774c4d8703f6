package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bizcrm/internal/business"
)

// ImportResult summarizes a CSV import operation.
type ImportResult struct {
	Created int
	Skipped int
	Errors  []string
}

// ImportOptions carries what the CSV itself cannot supply.
type ImportOptions struct {
	Workspace string
	Creator   string
	Defaults  business.Defaults
	Location  *time.Location
}

// column aliases accepted in the header row
var importColumns = map[string][]string{
	"name":        {"name", "navn"},
	"org_number":  {"org_number", "orgnr", "organization_number", "organisasjonsnummer"},
	"address":     {"address", "adresse"},
	"postal_code": {"postal_code", "postnummer", "zip"},
	"city":        {"city", "poststed"},
	"country":     {"country", "land"},
	"email":       {"email", "e-post"},
	"phone":       {"phone", "telefon"},
	"stage":       {"stage"},
	"creator":     {"creator"},
	"created_at":  {"created_at"},
}

// ImportBusinessesCSV ingests businesses from a CSV reader. Rows whose org
// number is already registered are skipped, not fatal.
func (s *Store) ImportBusinessesCSV(ctx context.Context, r io.Reader, opts ImportOptions) (ImportResult, error) {
	result := ImportResult{}
	if strings.TrimSpace(opts.Workspace) == "" {
		return result, business.ErrWorkspaceRequired
	}
	defaults := opts.Defaults.Merge(business.DefaultValues)
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)
	if _, ok := index["name"]; !ok {
		return result, fmt.Errorf("csv missing 'name' column")
	}

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			result.Skipped++
			continue
		}
		field := func(key string) string {
			if idx, ok := index[key]; ok && idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		in := business.CreateInput{
			WorkspaceID: opts.Workspace,
			Name:        field("name"),
			OrgNumber:   strings.ReplaceAll(field("org_number"), " ", ""),
			Address:     field("address"),
			PostalCode:  field("postal_code"),
			City:        field("city"),
			Country:     defaults.CountryOr(field("country")),
			Email:       defaults.EmailOr(field("email")),
			Phone:       defaults.PhoneOr(field("phone")),
			Stage:       business.DefaultStage,
			Status:      business.StatusActive,
			Creator:     opts.Creator,
		}
		if in.Name == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: business name required", row))
			result.Skipped++
			continue
		}
		if raw := field("stage"); raw != "" {
			stage, err := business.ParseStage(raw)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
				result.Skipped++
				continue
			}
			in.Stage = stage
		}
		if c := field("creator"); c != "" {
			in.Creator = c
		}
		if in.Creator == "" {
			in.Creator = "Import"
		}
		if stamp := field("created_at"); stamp != "" {
			if parsed, ok := parseImportTime(stamp, loc); ok {
				in.CreatedAt = parsed
			}
		}

		if _, err := s.CreateBusiness(ctx, in); err != nil {
			if errors.Is(err, business.ErrDuplicateOrgNumber) {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate org number '%s'", row, in.OrgNumber))
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, err))
			}
			result.Skipped++
			continue
		}
		result.Created++
	}
	return result, nil
}

func headerIndex(header []string) map[string]int {
	index := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for canonical, aliases := range importColumns {
			for _, alias := range aliases {
				if key == alias {
					if _, seen := index[canonical]; !seen {
						index[canonical] = i
					}
				}
			}
		}
	}
	return index
}

func parseImportTime(value string, loc *time.Location) (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04",
		"2006-01-02",
		"02.01.2006",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
