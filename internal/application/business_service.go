package application

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/bizbranches/api/internal/domain"
)

// Actor identifies the authenticated caller of a mutating operation.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// IsAdmin reports whether the actor may moderate.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == domain.RoleAdmin
}

// SubmitCommand carries one normalized submission plus its logo payload.
// Actor is nil for anonymous public submissions.
type SubmitCommand struct {
	Submission domain.Submission
	LogoFile   []byte
	Actor      *Actor
}

// StatusUpdateCommand requests a moderation transition.
type StatusUpdateCommand struct {
	Status          string
	RejectionReason string
	ReviewedBy      string
}

// FeaturedUpdateCommand toggles the promotional flag, orthogonal to status.
// FeaturedAt overrides the stamp when provided on a false->true transition.
type FeaturedUpdateCommand struct {
	Featured   bool
	FeaturedAt *time.Time
}

// BusinessService covers the submission lifecycle and every list view.
type BusinessService interface {
	List(ctx context.Context, filter BusinessFilter, paging Paging) ([]domain.Business, PageInfo, error)
	Get(ctx context.Context, id string) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	Submit(ctx context.Context, cmd SubmitCommand) (*domain.Business, error)
	ChangeStatus(ctx context.Context, id string, cmd StatusUpdateCommand) error
	ChangeStatusBulk(ctx context.Context, ids []string, cmd StatusUpdateCommand) (BulkResult, error)
	SetFeatured(ctx context.Context, id string, cmd FeaturedUpdateCommand) error
	UpdateFields(ctx context.Context, id string, sub domain.Submission, logo LogoInput) error
	Delete(ctx context.Context, id string) error
	Featured(ctx context.Context) ([]domain.Business, error)
	PublicList(ctx context.Context, filter PublicFilter, paging Paging) ([]domain.Business, PageInfo, error)
	Stats(ctx context.Context) (*BusinessStats, error)
	Analytics(ctx context.Context) (*Analytics, error)
}

type businessService struct {
	repo       BusinessRepository
	categories CategoryRepository
	users      UserRepository
	uploader   ImageUploader
	logger     *log.Logger
}

// NewBusinessService wires the business lifecycle use-cases.
func NewBusinessService(repo BusinessRepository, categories CategoryRepository, users UserRepository, uploader ImageUploader, logger *log.Logger) BusinessService {
	return &businessService{repo: repo, categories: categories, users: users, uploader: uploader, logger: logger}
}

func (s *businessService) List(ctx context.Context, filter BusinessFilter, paging Paging) ([]domain.Business, PageInfo, error) {
	paging = paging.Normalize(DefaultPageSize)
	items, total, err := s.repo.Find(ctx, filter, paging)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, NewPageInfo(paging, total), nil
}

func (s *businessService) Get(ctx context.Context, id string) (*domain.Business, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *businessService) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// nextAvailableSlug probes the store until a free slug is found, appending
// -1, -2, ... on collisions. The check-then-insert pair is not atomic; with
// a single moderation surface a concurrent identical submission is rare
// enough to accept.
func (s *businessService) nextAvailableSlug(ctx context.Context, name string) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		base = domain.FallbackSlug(time.Now())
	}
	candidate := base
	for attempt := 1; ; attempt++ {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = domain.SuffixedSlug(base, attempt)
	}
}

func (s *businessService) Submit(ctx context.Context, cmd SubmitCommand) (*domain.Business, error) {
	sub := cmd.Submission
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if len(sub.LogoDataURL) > MaxLogoDataURLBytes {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "logoDataUrl", Message: "Logo image exceeds the 2.5MB limit"},
		}}
	}

	slug, err := s.nextAvailableSlug(ctx, sub.Name)
	if err != nil {
		return nil, err
	}

	logo := ingestLogo(ctx, s.uploader, s.logger, LogoInput{DataURL: sub.LogoDataURL, File: cmd.LogoFile})

	now := time.Now().UTC()
	business := &domain.Business{
		Slug:            slug,
		Name:            sub.Name,
		ContactPerson:   sub.ContactPerson,
		Category:        sub.Category,
		SubCategory:     sub.SubCategory,
		Province:        sub.Province,
		City:            sub.City,
		Area:            sub.Area,
		PostalCode:      sub.PostalCode,
		Address:         sub.Address,
		Phone:           sub.Phone,
		Whatsapp:        sub.Whatsapp,
		Email:           sub.Email,
		Description:     sub.Description,
		WebsiteURL:      sub.WebsiteURL,
		FacebookURL:     sub.FacebookURL,
		GmbURL:          sub.GmbURL,
		YoutubeURL:      sub.YoutubeURL,
		SwiftCode:       sub.SwiftCode,
		BranchCode:      sub.BranchCode,
		CityDialingCode: sub.CityDialingCode,
		IBAN:            sub.IBAN,
		LogoURL:         logo.URL,
		LogoPublicID:    logo.PublicID,
		LogoDataURL:     logo.DataURL,
		Status:          domain.StatusPending,
		Source:          domain.SourceFrontend,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if cmd.Actor.IsAdmin() {
		business.Status = domain.StatusApproved
		business.Source = domain.SourceAdmin
	}
	if cmd.Actor != nil {
		business.CreatedBy = cmd.Actor.ID
	}

	if err := s.repo.Insert(ctx, business); err != nil {
		return nil, err
	}

	s.recordCategoryCounts(ctx, sub.Category, sub.SubCategory)

	return business, nil
}

// recordCategoryCounts bumps the denormalized category counters. Failures
// here must not roll back the business creation; counts are best-effort and
// may drift, which is accepted.
func (s *businessService) recordCategoryCounts(ctx context.Context, category, subCategory string) {
	parentSlug := domain.Slugify(category)
	if parentSlug == "" {
		return
	}
	if err := s.categories.IncrementCount(ctx, parentSlug, domain.TitleCaseSlug(parentSlug)); err != nil {
		s.logger.Printf("category count increment failed for %q: %v", parentSlug, err)
		return
	}
	if subCategory == "" {
		return
	}
	subSlug := domain.Slugify(subCategory)
	if subSlug == "" {
		return
	}
	if err := s.categories.IncrementSubcategory(ctx, parentSlug, subSlug, domain.TitleCaseSlug(subSlug)); err != nil {
		s.logger.Printf("subcategory count increment failed for %q/%q: %v", parentSlug, subSlug, err)
	}
}

// buildStatusChange validates the target status and stamps the review
// metadata. RejectionReason survives only on a rejection.
func buildStatusChange(cmd StatusUpdateCommand) (StatusChange, error) {
	if !domain.ValidStatus(cmd.Status) {
		return StatusChange{}, fmt.Errorf("%w: %q", ErrInvalidStatus, cmd.Status)
	}
	change := StatusChange{
		Status:     cmd.Status,
		ReviewedBy: cmd.ReviewedBy,
		ReviewedAt: time.Now().UTC(),
	}
	if cmd.Status == domain.StatusRejected {
		change.RejectionReason = cmd.RejectionReason
	}
	return change, nil
}

func (s *businessService) ChangeStatus(ctx context.Context, id string, cmd StatusUpdateCommand) error {
	change, err := buildStatusChange(cmd)
	if err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, change)
}

func (s *businessService) ChangeStatusBulk(ctx context.Context, ids []string, cmd StatusUpdateCommand) (BulkResult, error) {
	change, err := buildStatusChange(cmd)
	if err != nil {
		return BulkResult{}, err
	}
	return s.repo.UpdateStatusBulk(ctx, ids, change)
}

func (s *businessService) SetFeatured(ctx context.Context, id string, cmd FeaturedUpdateCommand) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Featured == cmd.Featured {
		// Same-value toggle is a no-op; in particular featuredAt keeps its
		// original stamp.
		return nil
	}
	var featuredAt *time.Time
	if cmd.Featured {
		at := time.Now().UTC()
		if cmd.FeaturedAt != nil {
			at = *cmd.FeaturedAt
		}
		featuredAt = &at
	}
	return s.repo.SetFeatured(ctx, id, cmd.Featured, featuredAt)
}

func (s *businessService) UpdateFields(ctx context.Context, id string, sub domain.Submission, logo LogoInput) error {
	if len(logo.DataURL) > MaxLogoDataURLBytes {
		return &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "logoDataUrl", Message: "Logo image exceeds the 2.5MB limit"},
		}}
	}
	patch := FieldPatch{Fields: sub}
	if logo.DataURL != "" || len(logo.File) > 0 {
		attachment := ingestLogo(ctx, s.uploader, s.logger, logo)
		if !attachment.Empty() {
			patch.Logo = &attachment
		}
	}
	return s.repo.UpdateFields(ctx, id, patch)
}

func (s *businessService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *businessService) Featured(ctx context.Context) ([]domain.Business, error) {
	return s.repo.FindFeatured(ctx, 8)
}

func (s *businessService) PublicList(ctx context.Context, filter PublicFilter, paging Paging) ([]domain.Business, PageInfo, error) {
	paging = paging.Normalize(10)
	items, total, err := s.repo.FindPublic(ctx, filter, paging)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, NewPageInfo(paging, total), nil
}

func (s *businessService) Stats(ctx context.Context) (*BusinessStats, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	activity, err := s.repo.RecentActivity(ctx, since)
	if err != nil {
		return nil, err
	}
	reviewers, err := s.repo.ReviewerStats(ctx)
	if err != nil {
		return nil, err
	}
	return &BusinessStats{StatusCounts: counts, RecentActivity: activity, ReviewerStats: reviewers}, nil
}

func (s *businessService) Analytics(ctx context.Context) (*Analytics, error) {
	counts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	submissions, err := s.repo.RecentSubmissions(ctx, 5)
	if err != nil {
		return nil, err
	}
	reviewed, err := s.repo.RecentReviewed(ctx, 5)
	if err != nil {
		return nil, err
	}

	activities := make([]ActivityItem, 0, len(submissions)+len(reviewed))
	for _, b := range submissions {
		activities = append(activities, ActivityItem{
			Type:     "submitted",
			Title:    b.Name,
			Subtitle: fmt.Sprintf("%q submitted for review", b.Name),
			At:       b.CreatedAt,
		})
	}
	for _, b := range reviewed {
		if b.ReviewedAt == nil {
			continue
		}
		item := ActivityItem{Title: b.Name, At: *b.ReviewedAt}
		if b.Status == domain.StatusApproved {
			item.Type = "approved"
			item.Subtitle = fmt.Sprintf("%q has been approved and is now live", b.Name)
		} else {
			item.Type = "rejected"
			if b.RejectionReason != "" {
				item.Subtitle = "Rejected: " + b.RejectionReason
			} else {
				item.Subtitle = fmt.Sprintf("%q was rejected", b.Name)
			}
		}
		activities = append(activities, item)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].At.After(activities[j].At) })
	if len(activities) > 10 {
		activities = activities[:10]
	}

	topUsers, err := s.repo.TopSubmitters(ctx, 3)
	if err != nil {
		return nil, err
	}
	for i := range topUsers {
		user, err := s.users.FindByID(ctx, topUsers[i].UserID)
		if err != nil {
			topUsers[i].Name = "Unknown User"
			continue
		}
		topUsers[i].Name = user.Name
		topUsers[i].Email = user.Email
	}

	return &Analytics{Stats: counts, Activities: activities, TopUsers: topUsers}, nil
}
