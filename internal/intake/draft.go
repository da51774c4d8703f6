package intake

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"bizcrm/internal/business"
	"bizcrm/internal/registry"
)

// Field identifies an editable draft field. Stage is changed through
// StageChanged instead.
type Field int

const (
	FieldName Field = iota
	FieldOrgNumber
	FieldAddress
	FieldPostalCode
	FieldCity
	FieldCountry
	FieldEmail
	FieldPhone
)

var fieldOrder = [...]Field{
	FieldName,
	FieldOrgNumber,
	FieldAddress,
	FieldPostalCode,
	FieldCity,
	FieldCountry,
	FieldEmail,
	FieldPhone,
}

// Fields returns the editable fields in form order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder[:])
	return out
}

// Key is the identifier used in FieldErrors.
func (f Field) Key() string {
	switch f {
	case FieldName:
		return "name"
	case FieldOrgNumber:
		return "org_number"
	case FieldAddress:
		return "address"
	case FieldPostalCode:
		return "postal_code"
	case FieldCity:
		return "city"
	case FieldCountry:
		return "country"
	case FieldEmail:
		return "email"
	case FieldPhone:
		return "phone"
	default:
		return ""
	}
}

// Label is the form caption.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldOrgNumber:
		return "Org number"
	case FieldAddress:
		return "Address"
	case FieldPostalCode:
		return "Postal code"
	case FieldCity:
		return "City"
	case FieldCountry:
		return "Country"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	default:
		return "Unknown"
	}
}

// Draft is the business being composed in an open intake sheet.
type Draft struct {
	Name       string
	OrgNumber  string
	Address    string
	PostalCode string
	City       string
	Country    string
	Email      string
	Phone      string
	Stage      business.Stage
}

// NewDraft returns an empty draft with the initial stage and the home
// country filled in.
func NewDraft(defaults business.Defaults) Draft {
	return Draft{
		Country: defaults.Country,
		Stage:   business.DefaultStage,
	}
}

// Value returns the current value of f.
func (d Draft) Value(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldOrgNumber:
		return d.OrgNumber
	case FieldAddress:
		return d.Address
	case FieldPostalCode:
		return d.PostalCode
	case FieldCity:
		return d.City
	case FieldCountry:
		return d.Country
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	default:
		return ""
	}
}

// With returns a copy of d with f set to value.
func (d Draft) With(f Field, value string) Draft {
	switch f {
	case FieldName:
		d.Name = value
	case FieldOrgNumber:
		d.OrgNumber = value
	case FieldAddress:
		d.Address = value
	case FieldPostalCode:
		d.PostalCode = value
	case FieldCity:
		d.City = value
	case FieldCountry:
		d.Country = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	}
	return d
}

// Apply merges a registry candidate into the draft. Only the name,
// org number and address fields are touched.
func (d Draft) Apply(c registry.Candidate) Draft {
	d.Name = business.NormalizeName(c.Name)
	d.OrgNumber = c.OrgNumber
	d.Address = c.Address
	d.PostalCode = c.PostalCode
	d.City = c.City
	return d
}

// Validate checks the draft before submission. A nil map means the draft
// may be submitted.
func (d Draft) Validate() map[string]string {
	errs := validation.Errors{
		FieldName.Key(): validation.Validate(strings.TrimSpace(d.Name),
			validation.Required.Error("name is required"),
			validation.Length(0, 200),
		),
		FieldEmail.Key(): validation.Validate(strings.TrimSpace(d.Email),
			is.EmailFormat.Error("must be a valid email address"),
		),
	}.Filter()
	if errs == nil {
		return nil
	}

	out := make(map[string]string)
	if ve, ok := errs.(validation.Errors); ok {
		for k, e := range ve {
			out[k] = e.Error()
		}
	}
	return out
}

// BuildInput assembles the create payload. Blank optional fields are
// resolved against defaults. Workspace, creator and timestamp belong to
// the caller and are left unset.
func BuildInput(d Draft, defaults business.Defaults) business.CreateInput {
	stage := d.Stage
	if !stage.Valid() {
		stage = business.DefaultStage
	}
	return business.CreateInput{
		Name:       strings.TrimSpace(d.Name),
		OrgNumber:  strings.TrimSpace(d.OrgNumber),
		Address:    strings.TrimSpace(d.Address),
		PostalCode: strings.TrimSpace(d.PostalCode),
		City:       strings.TrimSpace(d.City),
		Country:    defaults.CountryOr(d.Country),
		Email:      defaults.EmailOr(d.Email),
		Phone:      defaults.PhoneOr(d.Phone),
		Stage:      stage,
		Status:     business.StatusActive,
	}
}
