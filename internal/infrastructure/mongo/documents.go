package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bizbranches/api/internal/domain"
)

// BusinessDocument is the Mongo shape of a business. Canonical fields and
// their legacy aliases (businessName, contactPersonName, website, zipCode)
// are both persisted during the transition so either naming convention
// reads correctly.
type BusinessDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Slug string             `bson:"slug"`

	Name         string `bson:"name,omitempty"`
	BusinessName string `bson:"businessName,omitempty"`

	ContactPerson     string `bson:"contactPerson,omitempty"`
	ContactPersonName string `bson:"contactPersonName,omitempty"`

	Category    string `bson:"category,omitempty"`
	SubCategory string `bson:"subCategory,omitempty"`
	Province    string `bson:"province,omitempty"`
	City        string `bson:"city,omitempty"`
	Area        string `bson:"area,omitempty"`

	PostalCode string `bson:"postalCode,omitempty"`
	ZipCode    string `bson:"zipCode,omitempty"`

	Address     string `bson:"address,omitempty"`
	Phone       string `bson:"phone,omitempty"`
	Whatsapp    string `bson:"whatsapp,omitempty"`
	Email       string `bson:"email,omitempty"`
	Description string `bson:"description,omitempty"`

	WebsiteURL  string `bson:"websiteUrl,omitempty"`
	Website     string `bson:"website,omitempty"`
	FacebookURL string `bson:"facebookUrl,omitempty"`
	GmbURL      string `bson:"gmbUrl,omitempty"`
	YoutubeURL  string `bson:"youtubeUrl,omitempty"`

	SwiftCode       string `bson:"swiftCode,omitempty"`
	BranchCode      string `bson:"branchCode,omitempty"`
	CityDialingCode string `bson:"cityDialingCode,omitempty"`
	IBAN            string `bson:"iban,omitempty"`

	LogoURL      string `bson:"logoUrl,omitempty"`
	LogoPublicID string `bson:"logoPublicId,omitempty"`
	LogoDataURL  string `bson:"logoDataUrl,omitempty"`

	Status          string     `bson:"status"`
	ReviewedBy      string     `bson:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `bson:"reviewedAt,omitempty"`
	RejectionReason string     `bson:"rejectionReason,omitempty"`

	Featured   bool       `bson:"featured"`
	FeaturedAt *time.Time `bson:"featuredAt,omitempty"`

	Source string `bson:"source,omitempty"`

	// CreatedBy was historically written as either an ObjectID or its hex
	// string; both forms still exist in the collection.
	CreatedBy     any    `bson:"createdBy,omitempty"`
	CreatedByName string `bson:"createdByName,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty"`
}

// SubcategoryDocument is embedded in CategoryDocument.
type SubcategoryDocument struct {
	Slug  string `bson:"slug"`
	Name  string `bson:"name"`
	Count int    `bson:"count"`
}

// CategoryDocument is the Mongo shape of a category.
type CategoryDocument struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty"`
	Slug          string                `bson:"slug"`
	Name          string                `bson:"name,omitempty"`
	ImageURL      string                `bson:"imageUrl,omitempty"`
	ImagePublicID string                `bson:"imagePublicId,omitempty"`
	Count         int                   `bson:"count,omitempty"`
	Subcategories []SubcategoryDocument `bson:"subcategories,omitempty"`
	CreatedAt     time.Time             `bson:"createdAt,omitempty"`
}

// ReviewDocument is the Mongo shape of a review. The business reference was
// written under two keys and two types over time; all four combinations are
// matched on read.
type ReviewDocument struct {
	ID            any        `bson:"_id,omitempty"`
	BusinessID    any        `bson:"businessId,omitempty"`
	BusinessIDAlt any        `bson:"business_id,omitempty"`
	Name          string     `bson:"name,omitempty"`
	Rating        int        `bson:"rating,omitempty"`
	Comment       string     `bson:"comment,omitempty"`
	Status        string     `bson:"status,omitempty"`
	CreatedAt     time.Time  `bson:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bson:"updatedAt,omitempty"`
}

// UserDocument is the Mongo shape of a user.
type UserDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
	LastLogin *time.Time         `bson:"lastLogin,omitempty"`
	CreatedBy any                `bson:"createdBy,omitempty"`
}

// referenceString renders a stored reference regardless of whether it was
// persisted as an ObjectID or a plain string.
func referenceString(v any) string {
	switch ref := v.(type) {
	case primitive.ObjectID:
		return ref.Hex()
	case string:
		return ref
	}
	return ""
}

// referenceValue converts an id into the form it should be stored as:
// ObjectID when it is valid hex, the raw string otherwise.
func referenceValue(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// mapBusiness converts a document to the domain model, falling back across
// each canonical/legacy alias pair.
func mapBusiness(doc BusinessDocument) domain.Business {
	name := doc.Name
	if name == "" {
		name = doc.BusinessName
	}
	contact := doc.ContactPerson
	if contact == "" {
		contact = doc.ContactPersonName
	}
	website := doc.WebsiteURL
	if website == "" {
		website = doc.Website
	}
	postal := doc.PostalCode
	if postal == "" {
		postal = doc.ZipCode
	}

	status := doc.Status
	if status == "" {
		status = domain.StatusPending
	}

	var id string
	if !doc.ID.IsZero() {
		id = doc.ID.Hex()
	}

	return domain.Business{
		ID:              id,
		Slug:            doc.Slug,
		Name:            name,
		ContactPerson:   contact,
		Category:        doc.Category,
		SubCategory:     doc.SubCategory,
		Province:        doc.Province,
		City:            doc.City,
		Area:            doc.Area,
		PostalCode:      postal,
		Address:         doc.Address,
		Phone:           doc.Phone,
		Whatsapp:        doc.Whatsapp,
		Email:           doc.Email,
		Description:     doc.Description,
		WebsiteURL:      website,
		FacebookURL:     doc.FacebookURL,
		GmbURL:          doc.GmbURL,
		YoutubeURL:      doc.YoutubeURL,
		SwiftCode:       doc.SwiftCode,
		BranchCode:      doc.BranchCode,
		CityDialingCode: doc.CityDialingCode,
		IBAN:            doc.IBAN,
		LogoURL:         doc.LogoURL,
		LogoPublicID:    doc.LogoPublicID,
		LogoDataURL:     doc.LogoDataURL,
		Status:          status,
		ReviewedBy:      doc.ReviewedBy,
		ReviewedAt:      doc.ReviewedAt,
		RejectionReason: doc.RejectionReason,
		Featured:        doc.Featured,
		FeaturedAt:      doc.FeaturedAt,
		Source:          doc.Source,
		CreatedBy:       referenceString(doc.CreatedBy),
		CreatedByName:   doc.CreatedByName,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// buildBusinessDocument writes a domain business, populating both canonical
// fields and legacy aliases for every pair that has one.
func buildBusinessDocument(b *domain.Business) BusinessDocument {
	doc := BusinessDocument{
		Slug:              b.Slug,
		Name:              b.Name,
		BusinessName:      b.Name,
		ContactPerson:     b.ContactPerson,
		ContactPersonName: b.ContactPerson,
		Category:          b.Category,
		SubCategory:       b.SubCategory,
		Province:          b.Province,
		City:              b.City,
		Area:              b.Area,
		PostalCode:        b.PostalCode,
		ZipCode:           b.PostalCode,
		Address:           b.Address,
		Phone:             b.Phone,
		Whatsapp:          b.Whatsapp,
		Email:             b.Email,
		Description:       b.Description,
		WebsiteURL:        b.WebsiteURL,
		Website:           b.WebsiteURL,
		FacebookURL:       b.FacebookURL,
		GmbURL:            b.GmbURL,
		YoutubeURL:        b.YoutubeURL,
		SwiftCode:         b.SwiftCode,
		BranchCode:        b.BranchCode,
		CityDialingCode:   b.CityDialingCode,
		IBAN:              b.IBAN,
		LogoURL:           b.LogoURL,
		LogoPublicID:      b.LogoPublicID,
		LogoDataURL:       b.LogoDataURL,
		Status:            b.Status,
		ReviewedBy:        b.ReviewedBy,
		ReviewedAt:        b.ReviewedAt,
		RejectionReason:   b.RejectionReason,
		Featured:          b.Featured,
		FeaturedAt:        b.FeaturedAt,
		Source:            b.Source,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.CreatedBy != "" {
		doc.CreatedBy = referenceValue(b.CreatedBy)
	}
	return doc
}

func mapCategory(doc CategoryDocument) domain.Category {
	name := doc.Name
	if name == "" {
		name = domain.TitleCaseSlug(doc.Slug)
	}
	subs := make([]domain.Subcategory, 0, len(doc.Subcategories))
	for _, s := range doc.Subcategories {
		subs = append(subs, domain.Subcategory{Slug: s.Slug, Name: s.Name, Count: s.Count})
	}
	return domain.Category{
		Slug:          doc.Slug,
		Name:          name,
		ImageURL:      doc.ImageURL,
		ImagePublicID: doc.ImagePublicID,
		Count:         doc.Count,
		Subcategories: subs,
		CreatedAt:     doc.CreatedAt,
	}
}

func mapReview(doc ReviewDocument) domain.Review {
	businessID := referenceString(doc.BusinessID)
	if businessID == "" {
		businessID = referenceString(doc.BusinessIDAlt)
	}
	status := doc.Status
	if status == "" {
		status = domain.ReviewVisible
	}
	review := domain.Review{
		ID:         referenceString(doc.ID),
		BusinessID: businessID,
		Name:       doc.Name,
		Rating:     doc.Rating,
		Comment:    doc.Comment,
		Status:     status,
		CreatedAt:  doc.CreatedAt,
	}
	if doc.UpdatedAt != nil {
		review.UpdatedAt = *doc.UpdatedAt
	}
	return review
}

func mapUser(doc UserDocument) domain.User {
	return domain.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		LastLogin:    doc.LastLogin,
	}
}
