package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// FieldError reports a single violated field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of a submission so the
// caller can surface all of them at once instead of only the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// RawSubmission is the union of field names accepted at the boundary: the
// canonical schema plus the legacy aliases the public form still sends
// (businessName, contactPersonName, website, zipCode). Unknown inbound keys
// are simply never mapped here, so they are ignored rather than rejected.
type RawSubmission struct {
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`

	ContactPerson     string `json:"contactPerson"`
	ContactPersonName string `json:"contactPersonName"`

	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Area        string `json:"area"`

	PostalCode string `json:"postalCode"`
	ZipCode    string `json:"zipCode"`

	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Whatsapp    string `json:"whatsapp"`
	Email       string `json:"email"`
	Description string `json:"description"`

	WebsiteURL  string `json:"websiteUrl"`
	Website     string `json:"website"`
	FacebookURL string `json:"facebookUrl"`
	GmbURL      string `json:"gmbUrl"`
	YoutubeURL  string `json:"youtubeUrl"`

	SwiftCode       string `json:"swiftCode"`
	BranchCode      string `json:"branchCode"`
	CityDialingCode string `json:"cityDialingCode"`
	IBAN            string `json:"iban"`

	LogoDataURL string `json:"logoDataUrl"`
}

// Submission is the canonical, trimmed payload every intake shape converges
// on before any business logic runs.
type Submission struct {
	Name          string
	ContactPerson string
	Category      string
	SubCategory   string
	Province      string
	City          string
	Area          string
	PostalCode    string
	Address       string
	Phone         string
	Whatsapp      string
	Email         string
	Description   string

	WebsiteURL  string
	FacebookURL string
	GmbURL      string
	YoutubeURL  string

	SwiftCode       string
	BranchCode      string
	CityDialingCode string
	IBAN            string

	LogoDataURL string
}

// firstNonEmpty resolves a canonical/legacy alias pair, canonical first.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Normalize canonicalizes the raw payload: every string trimmed, empty
// optionals left empty, and each legacy alias folded into its canonical
// field (canonical wins when both are present).
func (r RawSubmission) Normalize() Submission {
	return Submission{
		Name:          firstNonEmpty(r.Name, r.BusinessName),
		ContactPerson: firstNonEmpty(r.ContactPerson, r.ContactPersonName),
		Category:      strings.TrimSpace(r.Category),
		SubCategory:   strings.TrimSpace(r.SubCategory),
		Province:      strings.TrimSpace(r.Province),
		City:          strings.TrimSpace(r.City),
		Area:          strings.TrimSpace(r.Area),
		PostalCode:    firstNonEmpty(r.PostalCode, r.ZipCode),
		Address:       strings.TrimSpace(r.Address),
		Phone:         strings.TrimSpace(r.Phone),
		Whatsapp:      strings.TrimSpace(r.Whatsapp),
		Email:         strings.TrimSpace(r.Email),
		Description:   strings.TrimSpace(r.Description),

		WebsiteURL:  firstNonEmpty(r.WebsiteURL, r.Website),
		FacebookURL: strings.TrimSpace(r.FacebookURL),
		GmbURL:      strings.TrimSpace(r.GmbURL),
		YoutubeURL:  strings.TrimSpace(r.YoutubeURL),

		SwiftCode:       strings.TrimSpace(r.SwiftCode),
		BranchCode:      strings.TrimSpace(r.BranchCode),
		CityDialingCode: strings.TrimSpace(r.CityDialingCode),
		IBAN:            strings.TrimSpace(r.IBAN),

		LogoDataURL: strings.TrimSpace(r.LogoDataURL),
	}
}

// IsBank reports whether the banking fields become mandatory for this
// submission. The comparison is case-insensitive.
func (s Submission) IsBank() bool {
	return strings.EqualFold(strings.TrimSpace(s.Category), "bank")
}

// Validate checks the required-field set and returns a *ValidationError
// listing every violation. It runs identically for public and admin intake.
func (s Submission) Validate() error {
	verr := &ValidationError{}

	required := []struct {
		field string
		value string
		label string
	}{
		{"name", s.Name, "Name"},
		{"category", s.Category, "Category"},
		{"province", s.Province, "Province"},
		{"city", s.City, "City"},
		{"postalCode", s.PostalCode, "Postal code"},
		{"address", s.Address, "Address"},
		{"phone", s.Phone, "Phone"},
		{"email", s.Email, "Email"},
		{"description", s.Description, "Description"},
	}
	for _, f := range required {
		if f.value == "" {
			verr.add(f.field, f.label+" is required")
		}
	}

	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			verr.add("email", "Invalid email address")
		}
	}

	if s.IsBank() {
		banking := []struct {
			field string
			value string
			label string
		}{
			{"swiftCode", s.SwiftCode, "Swift Code"},
			{"branchCode", s.BranchCode, "Branch Code"},
			{"cityDialingCode", s.CityDialingCode, "City Dialing Code"},
			{"iban", s.IBAN, "IBAN"},
		}
		for _, f := range banking {
			if f.value == "" {
				verr.add(f.field, fmt.Sprintf("%s is required for Bank", f.label))
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
