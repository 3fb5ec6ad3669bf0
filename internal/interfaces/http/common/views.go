package common

import (
	"time"

	"github.com/bizbranches/api/internal/domain"
)

// BusinessView is the JSON shape of a business. Responses speak the
// canonical field names only; legacy aliases are an intake concern.
type BusinessView struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`

	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Category      string `json:"category"`
	SubCategory   string `json:"subCategory,omitempty"`
	Province      string `json:"province"`
	City          string `json:"city"`
	Area          string `json:"area,omitempty"`
	PostalCode    string `json:"postalCode"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Whatsapp      string `json:"whatsapp,omitempty"`
	Email         string `json:"email"`
	Description   string `json:"description"`

	WebsiteURL  string `json:"websiteUrl,omitempty"`
	FacebookURL string `json:"facebookUrl,omitempty"`
	GmbURL      string `json:"gmbUrl,omitempty"`
	YoutubeURL  string `json:"youtubeUrl,omitempty"`

	SwiftCode       string `json:"swiftCode,omitempty"`
	BranchCode      string `json:"branchCode,omitempty"`
	CityDialingCode string `json:"cityDialingCode,omitempty"`
	IBAN            string `json:"iban,omitempty"`

	LogoURL     string `json:"logoUrl,omitempty"`
	LogoDataURL string `json:"logoDataUrl,omitempty"`

	Status          string     `json:"status"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`

	Featured   bool       `json:"featured"`
	FeaturedAt *time.Time `json:"featuredAt,omitempty"`

	Source        string `json:"source,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
	CreatedByName string `json:"createdByName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewBusinessView converts a domain business for serialization.
func NewBusinessView(b domain.Business) BusinessView {
	return BusinessView{
		ID:              b.ID,
		Slug:            b.Slug,
		Name:            b.Name,
		ContactPerson:   b.ContactPerson,
		Category:        b.Category,
		SubCategory:     b.SubCategory,
		Province:        b.Province,
		City:            b.City,
		Area:            b.Area,
		PostalCode:      b.PostalCode,
		Address:         b.Address,
		Phone:           b.Phone,
		Whatsapp:        b.Whatsapp,
		Email:           b.Email,
		Description:     b.Description,
		WebsiteURL:      b.WebsiteURL,
		FacebookURL:     b.FacebookURL,
		GmbURL:          b.GmbURL,
		YoutubeURL:      b.YoutubeURL,
		SwiftCode:       b.SwiftCode,
		BranchCode:      b.BranchCode,
		CityDialingCode: b.CityDialingCode,
		IBAN:            b.IBAN,
		LogoURL:         b.LogoURL,
		LogoDataURL:     b.LogoDataURL,
		Status:          b.Status,
		ReviewedBy:      b.ReviewedBy,
		ReviewedAt:      b.ReviewedAt,
		RejectionReason: b.RejectionReason,
		Featured:        b.Featured,
		FeaturedAt:      b.FeaturedAt,
		Source:          b.Source,
		CreatedBy:       b.CreatedBy,
		CreatedByName:   b.CreatedByName,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// NewBusinessViews converts a page of businesses.
func NewBusinessViews(businesses []domain.Business) []BusinessView {
	views := make([]BusinessView, 0, len(businesses))
	for _, b := range businesses {
		views = append(views, NewBusinessView(b))
	}
	return views
}

// PublicBusinessView is the contract of the external directory listing. The
// consumer site was built against the legacy field names, so this view keeps
// speaking them: businessName, contactPersonName, website, postalCode.
type PublicBusinessView struct {
	ID                string    `json:"id"`
	BusinessName      string    `json:"businessName"`
	ContactPersonName string    `json:"contactPersonName,omitempty"`
	Category          string    `json:"category"`
	City              string    `json:"city"`
	Address           string    `json:"address"`
	Phone             string    `json:"phone"`
	Whatsapp          string    `json:"whatsapp,omitempty"`
	Email             string    `json:"email"`
	Website           string    `json:"website,omitempty"`
	Description       string    `json:"description"`
	PostalCode        string    `json:"postalCode"`
	LogoURL           string    `json:"logoUrl,omitempty"`
	LogoDataURL       string    `json:"logoDataUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewPublicBusinessView converts a domain business for the external
// directory.
func NewPublicBusinessView(b domain.Business) PublicBusinessView {
	return PublicBusinessView{
		ID:                b.ID,
		BusinessName:      b.Name,
		ContactPersonName: b.ContactPerson,
		Category:          b.Category,
		City:              b.City,
		Address:           b.Address,
		Phone:             b.Phone,
		Whatsapp:          b.Whatsapp,
		Email:             b.Email,
		Website:           b.WebsiteURL,
		Description:       b.Description,
		PostalCode:        b.PostalCode,
		LogoURL:           b.LogoURL,
		LogoDataURL:       b.LogoDataURL,
		CreatedAt:         b.CreatedAt,
	}
}

// NewPublicBusinessViews converts a page of businesses for the external
// directory.
func NewPublicBusinessViews(businesses []domain.Business) []PublicBusinessView {
	views := make([]PublicBusinessView, 0, len(businesses))
	for _, b := range businesses {
		views = append(views, NewPublicBusinessView(b))
	}
	return views
}

// SubcategoryView is the JSON shape of an embedded subcategory.
type SubcategoryView struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoryView is the JSON shape of a category.
type CategoryView struct {
	Slug          string            `json:"slug"`
	Name          string            `json:"name"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	Count         int               `json:"count"`
	Subcategories []SubcategoryView `json:"subcategories"`
	CreatedAt     time.Time         `json:"createdAt,omitempty"`
}

// NewCategoryView converts a domain category for serialization.
func NewCategoryView(c domain.Category) CategoryView {
	subs := make([]SubcategoryView, 0, len(c.Subcategories))
	for _, s := range c.Subcategories {
		subs = append(subs, SubcategoryView{Slug: s.Slug, Name: s.Name, Count: s.Count})
	}
	return CategoryView{
		Slug:          c.Slug,
		Name:          c.Name,
		ImageURL:      c.ImageURL,
		Count:         c.Count,
		Subcategories: subs,
		CreatedAt:     c.CreatedAt,
	}
}

// NewCategoryViews converts a list of categories.
func NewCategoryViews(categories []domain.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, NewCategoryView(c))
	}
	return views
}

// ReviewView is the JSON shape of a review.
type ReviewView struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"businessId"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt,omitempty"`
}

// NewReviewView converts a domain review for serialization.
func NewReviewView(r domain.Review) ReviewView {
	return ReviewView{
		ID:         r.ID,
		BusinessID: r.BusinessID,
		Name:       r.Name,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// UserView is the JSON shape of a user. The password hash never appears.
type UserView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	BusinessCount int        `json:"businessCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
}

// NewUserView converts a domain user for serialization.
func NewUserView(u domain.User) UserView {
	return UserView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		BusinessCount: u.BusinessCount,
		CreatedAt:     u.CreatedAt,
		LastLogin:     u.LastLogin,
	}
}
