package application

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/bizbranches/api/internal/domain"
)

type fakeBusinessRepo struct {
	businesses map[string]*domain.Business
	nextID     int

	inserted    []*domain.Business
	lastChange  *StatusChange
	lastPatch   *FieldPatch
	featuredSet []struct {
		ID         string
		Featured   bool
		FeaturedAt *time.Time
	}
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: make(map[string]*domain.Business), nextID: 1}
}

func (f *fakeBusinessRepo) Find(_ context.Context, _ BusinessFilter, _ Paging) ([]domain.Business, int, error) {
	items := make([]domain.Business, 0, len(f.businesses))
	for _, b := range f.businesses {
		items = append(items, *b)
	}
	return items, len(items), nil
}

func (f *fakeBusinessRepo) FindByID(_ context.Context, id string) (*domain.Business, error) {
	if b, ok := f.businesses[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (f *fakeBusinessRepo) FindBySlug(_ context.Context, slug string) (*domain.Business, error) {
	for _, b := range f.businesses {
		if b.Slug == slug {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeBusinessRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, b := range f.businesses {
		if b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBusinessRepo) Insert(_ context.Context, business *domain.Business) error {
	business.ID = strings.Repeat("0", 23) + string(rune('0'+f.nextID))
	f.nextID++
	copied := *business
	f.businesses[business.ID] = &copied
	f.inserted = append(f.inserted, &copied)
	return nil
}

func (f *fakeBusinessRepo) UpdateStatus(_ context.Context, id string, change StatusChange) error {
	b, ok := f.businesses[id]
	if !ok {
		return ErrNotFound
	}
	f.lastChange = &change
	b.Status = change.Status
	b.ReviewedBy = change.ReviewedBy
	at := change.ReviewedAt
	b.ReviewedAt = &at
	if change.Status == domain.StatusRejected && change.RejectionReason != "" {
		b.RejectionReason = change.RejectionReason
	} else {
		b.RejectionReason = ""
	}
	return nil
}

func (f *fakeBusinessRepo) UpdateStatusBulk(ctx context.Context, ids []string, change StatusChange) (BulkResult, error) {
	var result BulkResult
	for _, id := range ids {
		if err := f.UpdateStatus(ctx, id, change); err == nil {
			result.Matched++
			result.Modified++
		}
	}
	return result, nil
}

func (f *fakeBusinessRepo) SetFeatured(_ context.Context, id string, featured bool, featuredAt *time.Time) error {
	b, ok := f.businesses[id]
	if !ok {
		return ErrNotFound
	}
	f.featuredSet = append(f.featuredSet, struct {
		ID         string
		Featured   bool
		FeaturedAt *time.Time
	}{id, featured, featuredAt})
	b.Featured = featured
	b.FeaturedAt = featuredAt
	return nil
}

func (f *fakeBusinessRepo) UpdateFields(_ context.Context, id string, patch FieldPatch) error {
	if _, ok := f.businesses[id]; !ok {
		return ErrNotFound
	}
	f.lastPatch = &patch
	return nil
}

func (f *fakeBusinessRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.businesses[id]; !ok {
		return ErrNotFound
	}
	delete(f.businesses, id)
	return nil
}

func (f *fakeBusinessRepo) FindFeatured(_ context.Context, limit int) ([]domain.Business, error) {
	items := make([]domain.Business, 0)
	for _, b := range f.businesses {
		if b.Featured && b.Status == domain.StatusApproved && len(items) < limit {
			items = append(items, *b)
		}
	}
	return items, nil
}

func (f *fakeBusinessRepo) FindPublic(_ context.Context, _ PublicFilter, _ Paging) ([]domain.Business, int, error) {
	return nil, 0, nil
}

func (f *fakeBusinessRepo) StatusCounts(context.Context) (StatusCounts, error) {
	var counts StatusCounts
	for _, b := range f.businesses {
		counts.Total++
		switch b.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusApproved:
			counts.Approved++
		case domain.StatusRejected:
			counts.Rejected++
		}
	}
	return counts, nil
}

func (f *fakeBusinessRepo) RecentActivity(context.Context, time.Time) ([]ActivityBucket, error) {
	return nil, nil
}
func (f *fakeBusinessRepo) ReviewerStats(context.Context) ([]ReviewerStat, error) { return nil, nil }
func (f *fakeBusinessRepo) RecentSubmissions(context.Context, int) ([]domain.Business, error) {
	return nil, nil
}
func (f *fakeBusinessRepo) RecentReviewed(context.Context, int) ([]domain.Business, error) {
	return nil, nil
}
func (f *fakeBusinessRepo) TopSubmitters(context.Context, int) ([]SubmitterStat, error) {
	return nil, nil
}
func (f *fakeBusinessRepo) CountByCreator(context.Context, string) (int, error) { return 0, nil }

type fakeCategoryRepo struct {
	incremented    []string
	subIncremented []string
	incrementErr   error
}

func (f *fakeCategoryRepo) List(context.Context, string) ([]domain.Category, error) {
	return nil, nil
}
func (f *fakeCategoryRepo) FindBySlug(context.Context, string) (*domain.Category, error) {
	return nil, ErrNotFound
}
func (f *fakeCategoryRepo) IncrementCount(_ context.Context, slug, _ string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, slug)
	return nil
}
func (f *fakeCategoryRepo) IncrementSubcategory(_ context.Context, slug, subSlug, _ string) error {
	f.subIncremented = append(f.subIncremented, slug+"/"+subSlug)
	return nil
}
func (f *fakeCategoryRepo) UpsertWithImage(context.Context, string, string, string, string) error {
	return nil
}
func (f *fakeCategoryRepo) EnsureSubcategory(context.Context, string, domain.Subcategory) error {
	return nil
}
func (f *fakeCategoryRepo) Rename(context.Context, string, string, string) error { return nil }
func (f *fakeCategoryRepo) SetImage(context.Context, string, string, string) error {
	return nil
}
func (f *fakeCategoryRepo) RenameSubcategory(context.Context, string, string, string, string) error {
	return nil
}
func (f *fakeCategoryRepo) RemoveSubcategory(context.Context, string, string) error { return nil }
func (f *fakeCategoryRepo) Delete(context.Context, string) error                    { return nil }

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) List(context.Context) ([]domain.User, error) { return nil, nil }
func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}
func (f *fakeUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, ErrNotFound
}
func (f *fakeUserRepo) Insert(context.Context, *domain.User) error                 { return nil }
func (f *fakeUserRepo) Update(context.Context, string, string, string, string) error { return nil }
func (f *fakeUserRepo) Delete(context.Context, string) error                       { return nil }
func (f *fakeUserRepo) StampLastLogin(context.Context, string, time.Time) error    { return nil }

type fakeUploader struct {
	configured bool
	err        error
	uploads    []UploadOptions
}

func (f *fakeUploader) Configured() bool { return f.configured }
func (f *fakeUploader) Upload(_ context.Context, _ []byte, opts UploadOptions) (*UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, opts)
	return &UploadResult{URL: "https://img.example/" + opts.Folder, PublicID: opts.Folder + "/abc"}, nil
}

func newTestService(repo *fakeBusinessRepo, categories *fakeCategoryRepo, uploader ImageUploader) BusinessService {
	return NewBusinessService(repo, categories, &fakeUserRepo{}, uploader, log.New(io.Discard, "", 0))
}

func validSubmission() domain.Submission {
	return domain.RawSubmission{
		Name:        "Crescent Bakers",
		Category:    "Food",
		SubCategory: "Bakery",
		Province:    "Punjab",
		City:        "Lahore",
		PostalCode:  "54000",
		Address:     "12 Mall Road",
		Phone:       "042-1234567",
		Email:       "info@crescentbakers.pk",
		Description: "Fresh bread and cakes.",
	}.Normalize()
}

func dataURL(payload string) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(payload))
}

func TestSubmitAnonymousGoesToPending(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	business, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if business.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", business.Status)
	}
	if business.Source != domain.SourceFrontend {
		t.Errorf("source = %q, want frontend", business.Source)
	}
	if business.Slug != "crescent-bakers" {
		t.Errorf("slug = %q, want crescent-bakers", business.Slug)
	}
	if business.ID == "" {
		t.Errorf("id not assigned on insert")
	}
}

func TestSubmitByAdminIsApprovedImmediately(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	admin := &Actor{ID: "64b000000000000000000001", Email: "admin@example.com", Role: domain.RoleAdmin}
	business, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission(), Actor: admin})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if business.Status != domain.StatusApproved {
		t.Errorf("status = %q, want approved", business.Status)
	}
	if business.Source != domain.SourceAdmin {
		t.Errorf("source = %q, want admin", business.Source)
	}
	if business.CreatedBy != admin.ID {
		t.Errorf("createdBy = %q, want actor id", business.CreatedBy)
	}
}

func TestSubmitSuffixesSlugOnCollision(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	first, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if first.Slug != "crescent-bakers" || second.Slug != "crescent-bakers-1" {
		t.Errorf("slugs = %q, %q; want crescent-bakers, crescent-bakers-1", first.Slug, second.Slug)
	}
}

func TestSubmitFallsBackWhenNameSlugifiesToNothing(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	sub := validSubmission()
	sub.Name = "@#$%"
	business, err := svc.Submit(context.Background(), SubmitCommand{Submission: sub})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(business.Slug, "business-") {
		t.Errorf("slug = %q, want business-<timestamp> fallback", business.Slug)
	}
}

func TestSubmitRejectsInvalidSubmissionBeforeInsert(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	_, err := svc.Submit(context.Background(), SubmitCommand{Submission: domain.Submission{Name: "Only A Name"}})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("invalid submission reached the store")
	}
}

func TestSubmitRejectsOversizedLogoBeforeInsert(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	sub := validSubmission()
	sub.LogoDataURL = "data:image/png;base64," + strings.Repeat("A", MaxLogoDataURLBytes)
	_, err := svc.Submit(context.Background(), SubmitCommand{Submission: sub})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("oversized logo reached the store")
	}
}

func TestSubmitUploadsLogoWhenConfigured(t *testing.T) {
	repo := newFakeBusinessRepo()
	uploader := &fakeUploader{configured: true}
	svc := newTestService(repo, &fakeCategoryRepo{}, uploader)

	sub := validSubmission()
	sub.LogoDataURL = dataURL("tiny-png")
	business, err := svc.Submit(context.Background(), SubmitCommand{Submission: sub})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if business.LogoURL == "" || business.LogoDataURL != "" {
		t.Errorf("hosted upload must clear the inline payload: url=%q dataUrl len=%d", business.LogoURL, len(business.LogoDataURL))
	}
	if len(uploader.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(uploader.uploads))
	}
	if got := uploader.uploads[0]; got.Width != 200 || got.Height != 200 {
		t.Errorf("upload transform = %dx%d, want 200x200", got.Width, got.Height)
	}
}

func TestSubmitKeepsInlineLogoWhenUploadFails(t *testing.T) {
	repo := newFakeBusinessRepo()
	uploader := &fakeUploader{configured: true, err: errors.New("host down")}
	svc := newTestService(repo, &fakeCategoryRepo{}, uploader)

	sub := validSubmission()
	sub.LogoDataURL = dataURL("tiny-png")
	business, err := svc.Submit(context.Background(), SubmitCommand{Submission: sub})
	if err != nil {
		t.Fatalf("Submit must not fail on upload errors: %v", err)
	}
	if business.LogoDataURL != sub.LogoDataURL || business.LogoURL != "" {
		t.Errorf("expected inline fallback, got url=%q dataUrl len=%d", business.LogoURL, len(business.LogoDataURL))
	}
}

func TestSubmitBumpsCategoryCounters(t *testing.T) {
	repo := newFakeBusinessRepo()
	categories := &fakeCategoryRepo{}
	svc := newTestService(repo, categories, nil)

	if _, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(categories.incremented) != 1 || categories.incremented[0] != "food" {
		t.Errorf("parent increments = %v, want [food]", categories.incremented)
	}
	if len(categories.subIncremented) != 1 || categories.subIncremented[0] != "food/bakery" {
		t.Errorf("subcategory increments = %v, want [food/bakery]", categories.subIncremented)
	}
}

func TestSubmitSucceedsWhenCounterFails(t *testing.T) {
	repo := newFakeBusinessRepo()
	categories := &fakeCategoryRepo{incrementErr: errors.New("counters unavailable")}
	svc := newTestService(repo, categories, nil)

	if _, err := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()}); err != nil {
		t.Fatalf("counter failure must not block the submission: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("business was not stored")
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	err := svc.ChangeStatus(context.Background(), "any", StatusUpdateCommand{Status: "archived"})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if repo.lastChange != nil {
		t.Fatalf("invalid status reached the store")
	}
}

func TestChangeStatusStampsReviewerAndReason(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)
	business, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	cmd := StatusUpdateCommand{Status: domain.StatusRejected, RejectionReason: "duplicate listing", ReviewedBy: "admin@example.com"}
	if err := svc.ChangeStatus(context.Background(), business.ID, cmd); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	change := repo.lastChange
	if change == nil {
		t.Fatal("no status change recorded")
	}
	if change.RejectionReason != "duplicate listing" || change.ReviewedBy != "admin@example.com" {
		t.Errorf("change = %+v", change)
	}
	if change.ReviewedAt.IsZero() {
		t.Errorf("reviewedAt not stamped")
	}
}

func TestChangeStatusDropsReasonOnApproval(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)
	business, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	cmd := StatusUpdateCommand{Status: domain.StatusApproved, RejectionReason: "should be ignored", ReviewedBy: "admin@example.com"}
	if err := svc.ChangeStatus(context.Background(), business.ID, cmd); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if repo.lastChange.RejectionReason != "" {
		t.Errorf("approval carried a rejection reason: %q", repo.lastChange.RejectionReason)
	}
}

func TestChangeStatusBulkCountsMatches(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)
	first, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})
	second, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	result, err := svc.ChangeStatusBulk(context.Background(), []string{first.ID, second.ID, "missing"}, StatusUpdateCommand{
		Status: domain.StatusApproved, ReviewedBy: "admin@example.com",
	})
	if err != nil {
		t.Fatalf("ChangeStatusBulk: %v", err)
	}
	if result.Matched != 2 || result.Modified != 2 {
		t.Errorf("result = %+v, want 2 matched and modified", result)
	}
}

func TestSetFeaturedStampsOnlyOnActivation(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)
	business, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	if err := svc.SetFeatured(context.Background(), business.ID, FeaturedUpdateCommand{Featured: true}); err != nil {
		t.Fatalf("SetFeatured: %v", err)
	}
	if len(repo.featuredSet) != 1 || repo.featuredSet[0].FeaturedAt == nil {
		t.Fatalf("activation must stamp featuredAt: %+v", repo.featuredSet)
	}

	// Same-value toggle is a no-op; the original stamp survives.
	if err := svc.SetFeatured(context.Background(), business.ID, FeaturedUpdateCommand{Featured: true}); err != nil {
		t.Fatalf("repeat SetFeatured: %v", err)
	}
	if len(repo.featuredSet) != 1 {
		t.Fatalf("idempotent toggle still hit the store: %d writes", len(repo.featuredSet))
	}

	if err := svc.SetFeatured(context.Background(), business.ID, FeaturedUpdateCommand{Featured: false}); err != nil {
		t.Fatalf("deactivate SetFeatured: %v", err)
	}
	if last := repo.featuredSet[len(repo.featuredSet)-1]; last.Featured || last.FeaturedAt != nil {
		t.Errorf("deactivation must clear featuredAt: %+v", last)
	}
}

func TestSetFeaturedUnknownBusiness(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)

	err := svc.SetFeatured(context.Background(), "missing", FeaturedUpdateCommand{Featured: true})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateFieldsRejectsOversizedLogo(t *testing.T) {
	repo := newFakeBusinessRepo()
	svc := newTestService(repo, &fakeCategoryRepo{}, nil)
	business, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	logo := LogoInput{DataURL: "data:image/png;base64," + strings.Repeat("A", MaxLogoDataURLBytes)}
	err := svc.UpdateFields(context.Background(), business.ID, domain.Submission{Name: "Renamed"}, logo)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.lastPatch != nil {
		t.Fatalf("oversized logo reached the store")
	}
}

func TestUpdateFieldsAttachesUploadedLogo(t *testing.T) {
	repo := newFakeBusinessRepo()
	uploader := &fakeUploader{configured: true}
	svc := newTestService(repo, &fakeCategoryRepo{}, uploader)
	business, _ := svc.Submit(context.Background(), SubmitCommand{Submission: validSubmission()})

	err := svc.UpdateFields(context.Background(), business.ID, domain.Submission{City: "Multan"}, LogoInput{DataURL: dataURL("new-logo")})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if repo.lastPatch == nil || repo.lastPatch.Logo == nil {
		t.Fatalf("logo attachment missing from patch")
	}
	if repo.lastPatch.Logo.URL == "" {
		t.Errorf("expected hosted logo URL in patch")
	}
	if repo.lastPatch.Fields.City != "Multan" {
		t.Errorf("field patch lost its payload: %+v", repo.lastPatch.Fields)
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(Paging{Page: 2, Limit: 10}, 25)
	if info.Pages != 3 || info.Total != 25 || info.Page != 2 {
		t.Errorf("info = %+v, want pages=3 total=25 page=2", info)
	}

	empty := NewPageInfo(Paging{Page: 1, Limit: 10}, 0)
	if empty.Pages != 1 {
		t.Errorf("empty result must still report one page, got %d", empty.Pages)
	}
}

func TestPagingNormalize(t *testing.T) {
	p := Paging{Page: -4, Limit: 0}.Normalize(DefaultPageSize)
	if p.Page != 1 || p.Limit != DefaultPageSize {
		t.Errorf("normalized = %+v", p)
	}
	capped := Paging{Page: 1, Limit: 5000}.Normalize(DefaultPageSize)
	if capped.Limit != 100 {
		t.Errorf("limit not capped: %d", capped.Limit)
	}
	if skip := (Paging{Page: 3, Limit: 10}).Skip(); skip != 20 {
		t.Errorf("skip = %d, want 20", skip)
	}
}
