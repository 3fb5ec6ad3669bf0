package application

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bizbranches/api/internal/domain"
)

// Sentinel errors shared between repositories, services and handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Reviewed-filter values accepted by the business list endpoint.
const (
	ReviewedOnly = "reviewed"
	NotReviewed  = "not-reviewed"
)

// DefaultPageSize matches the admin UI's table page size.
const DefaultPageSize = 12

// BusinessFilter expresses every list-view filter in one place so all list
// endpoints share the same query construction.
type BusinessFilter struct {
	Category  string
	Province  string
	City      string
	Area      string
	Status    string
	Reviewed  string
	Source    string
	CreatedBy string
	Query     string
	History   bool
}

// PublicFilter is the reduced filter of the public directory listing, which
// only ever sees approved businesses.
type PublicFilter struct {
	Search   string
	City     string
	Category string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into usable ranges.
func (p Paging) Normalize(defaultLimit int) Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}

// Skip returns the number of records to skip for the current page.
func (p Paging) Skip() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo is returned alongside every page of results, computed from the
// same filter as the results themselves.
type PageInfo struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NewPageInfo derives page metadata from an unpaginated total.
func NewPageInfo(paging Paging, total int) PageInfo {
	pages := int(math.Ceil(float64(total) / float64(paging.Limit)))
	if pages < 1 {
		pages = 1
	}
	return PageInfo{Page: paging.Page, Limit: paging.Limit, Total: total, Pages: pages}
}

// StatusChange is the full write applied by a moderation transition.
// RejectionReason is kept only when the target status is rejected and a
// reason was supplied; approving clears any prior reason.
type StatusChange struct {
	Status          string
	RejectionReason string
	ReviewedBy      string
	ReviewedAt      time.Time
}

// BulkResult reports how many documents a bulk status update touched.
type BulkResult struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
}

// FieldPatch carries a partial field update: only non-empty fields of
// Submission are written, plus an optional logo replacement.
type FieldPatch struct {
	Fields domain.Submission
	Logo   *LogoAttachment
}

// ReviewPatch carries the mutable review moderation fields; nil means
// "leave unchanged".
type ReviewPatch struct {
	Name    *string
	Comment *string
	Rating  *int
	Status  *string
}

// Aggregated statistics for the admin dashboard.
type StatusCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ActivityBucket is one day's worth of moderation decisions.
type ActivityBucket struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Count  int    `json:"count"`
}

// ReviewerStat summarises one moderator's decisions.
type ReviewerStat struct {
	Reviewer      string `json:"reviewer"`
	TotalReviewed int    `json:"totalReviewed"`
	Approved      int    `json:"approved"`
	Rejected      int    `json:"rejected"`
}

// BusinessStats is the GET /businesses/stats payload.
type BusinessStats struct {
	StatusCounts
	RecentActivity []ActivityBucket `json:"recentActivity"`
	ReviewerStats  []ReviewerStat   `json:"reviewerStats"`
}

// ActivityItem is one entry of the analytics activity feed.
type ActivityItem struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	At       time.Time `json:"at"`
}

// SubmitterStat ranks users by submission volume.
type SubmitterStat struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	BusinessCount int    `json:"businessCount"`
	ApprovedCount int    `json:"approvedCount"`
	PendingCount  int    `json:"pendingCount"`
}

// Analytics is the GET /analytics payload.
type Analytics struct {
	Stats      StatusCounts   `json:"stats"`
	Activities []ActivityItem `json:"activities"`
	TopUsers   []SubmitterStat `json:"topUsers"`
}

// BusinessRepository is the persistence port for businesses.
type BusinessRepository interface {
	Find(ctx context.Context, filter BusinessFilter, paging Paging) ([]domain.Business, int, error)
	FindByID(ctx context.Context, id string) (*domain.Business, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Business, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Insert(ctx context.Context, business *domain.Business) error
	UpdateStatus(ctx context.Context, id string, change StatusChange) error
	UpdateStatusBulk(ctx context.Context, ids []string, change StatusChange) (BulkResult, error)
	SetFeatured(ctx context.Context, id string, featured bool, featuredAt *time.Time) error
	UpdateFields(ctx context.Context, id string, patch FieldPatch) error
	Delete(ctx context.Context, id string) error
	FindFeatured(ctx context.Context, limit int) ([]domain.Business, error)
	FindPublic(ctx context.Context, filter PublicFilter, paging Paging) ([]domain.Business, int, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
	RecentActivity(ctx context.Context, since time.Time) ([]ActivityBucket, error)
	ReviewerStats(ctx context.Context) ([]ReviewerStat, error)
	RecentSubmissions(ctx context.Context, limit int) ([]domain.Business, error)
	RecentReviewed(ctx context.Context, limit int) ([]domain.Business, error)
	TopSubmitters(ctx context.Context, limit int) ([]SubmitterStat, error)
	CountByCreator(ctx context.Context, userID string) (int, error)
}

// CategoryRepository is the persistence port for categories. The counter
// protocol is two explicit, individually idempotent-ish steps: increment the
// parent (upserting it if absent), then increment-or-append the subcategory.
type CategoryRepository interface {
	List(ctx context.Context, query string) ([]domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	IncrementCount(ctx context.Context, slug, name string) error
	IncrementSubcategory(ctx context.Context, slug, subSlug, subName string) error
	UpsertWithImage(ctx context.Context, slug, name, imageURL, imagePublicID string) error
	EnsureSubcategory(ctx context.Context, slug string, sub domain.Subcategory) error
	Rename(ctx context.Context, slug, newName, newSlug string) error
	SetImage(ctx context.Context, slug, imageURL, imagePublicID string) error
	RenameSubcategory(ctx context.Context, slug, subSlug, newName, newSubSlug string) error
	RemoveSubcategory(ctx context.Context, slug, subSlug string) error
	Delete(ctx context.Context, slug string) error
}

// ReviewRepository is the persistence port for review moderation.
type ReviewRepository interface {
	Find(ctx context.Context, businessID string, paging Paging) ([]domain.Review, int, error)
	Update(ctx context.Context, id string, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository is the persistence port for users.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Insert(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id, name, email, role string) error
	Delete(ctx context.Context, id string) error
	StampLastLogin(ctx context.Context, id string, at time.Time) error
}
