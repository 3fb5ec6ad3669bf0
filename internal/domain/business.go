package domain

import "time"

// Moderation states for a business submission.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Submission provenance.
const (
	SourceAdmin    = "admin"
	SourceFrontend = "frontend"
)

// ValidStatus reports whether s is one of the three moderation states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Business is a directory listing. Slug is unique across all businesses and
// immutable once assigned. LogoURL and LogoDataURL are mutually exclusive:
// a hosted URL always wins over the inline fallback.
type Business struct {
	ID   string
	Slug string

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

	// Required only when Category is "Bank".
	SwiftCode       string
	BranchCode      string
	CityDialingCode string
	IBAN            string

	LogoURL      string
	LogoPublicID string
	LogoDataURL  string

	Status          string
	ReviewedBy      string
	ReviewedAt      *time.Time
	RejectionReason string

	Featured   bool
	FeaturedAt *time.Time

	Source        string
	CreatedBy     string
	CreatedByName string

	CreatedAt time.Time
	UpdatedAt time.Time
}
