package application

import (
	"context"
	"errors"
	"log"

	"github.com/bizbranches/api/internal/domain"
)

// CreateCategoryCommand creates (or refreshes) a category from the admin
// surface, with a mandatory image and an optional first subcategory.
type CreateCategoryCommand struct {
	Category     string
	SubCategory  string
	ImageDataURL string
}

// CategoryService covers category/subcategory administration. The counters
// themselves are bumped by the business submission path, not here.
type CategoryService interface {
	List(ctx context.Context, query string) ([]domain.Category, error)
	Get(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error)
	Rename(ctx context.Context, slug, newName string) (*domain.Category, error)
	UpdateImage(ctx context.Context, slug, imageDataURL string) (*domain.Category, error)
	AddSubcategory(ctx context.Context, slug, subName string) (*domain.Category, error)
	RenameSubcategory(ctx context.Context, slug, subSlug, newName string) (*domain.Category, error)
	Delete(ctx context.Context, slug string) error
	DeleteSubcategory(ctx context.Context, slug, subSlug string) (*domain.Category, error)
}

type categoryService struct {
	repo     CategoryRepository
	uploader ImageUploader
	logger   *log.Logger
}

// NewCategoryService wires category administration use-cases.
func NewCategoryService(repo CategoryRepository, uploader ImageUploader, logger *log.Logger) CategoryService {
	return &categoryService{repo: repo, uploader: uploader, logger: logger}
}

func (s *categoryService) List(ctx context.Context, query string) ([]domain.Category, error) {
	return s.repo.List(ctx, query)
}

func (s *categoryService) Get(ctx context.Context, slug string) (*domain.Category, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// ingestImage stores a category image on the image host, falling back to the
// inline data URL so category creation never depends on the collaborator.
func (s *categoryService) ingestImage(ctx context.Context, imageDataURL string) (url, publicID string) {
	raw, ok := decodeDataURL(imageDataURL)
	if ok && s.uploader != nil && s.uploader.Configured() {
		uploaded, err := s.uploader.Upload(ctx, raw, UploadOptions{
			Folder: categoryImageFolder,
			Width:  categoryImageTransform,
			Height: categoryImageTransform,
		})
		if err == nil {
			return uploaded.URL, uploaded.PublicID
		}
		s.logger.Printf("category image upload failed, keeping inline fallback: %v", err)
	}
	return imageDataURL, "inline-data-url"
}

func (s *categoryService) Create(ctx context.Context, cmd CreateCategoryCommand) (*domain.Category, error) {
	if cmd.Category == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "category", Message: "Category is required"},
		}}
	}
	if cmd.ImageDataURL == "" || len(cmd.ImageDataURL) > MaxCategoryImageBytes {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "imageDataUrl", Message: "Valid image is required (<=3MB)"},
		}}
	}

	slug := domain.Slugify(cmd.Category)
	imageURL, imagePublicID := s.ingestImage(ctx, cmd.ImageDataURL)
	if err := s.repo.UpsertWithImage(ctx, slug, domain.TitleCaseSlug(slug), imageURL, imagePublicID); err != nil {
		return nil, err
	}

	if cmd.SubCategory != "" {
		subSlug := domain.Slugify(cmd.SubCategory)
		sub := domain.Subcategory{Slug: subSlug, Name: domain.TitleCaseSlug(subSlug), Count: 0}
		if err := s.repo.EnsureSubcategory(ctx, slug, sub); err != nil {
			return nil, err
		}
	}

	return s.repo.FindBySlug(ctx, slug)
}

func (s *categoryService) Rename(ctx context.Context, slug, newName string) (*domain.Category, error) {
	if newName == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "newName", Message: "newName is required"},
		}}
	}
	newSlug := domain.Slugify(newName)
	if err := s.repo.Rename(ctx, slug, newName, newSlug); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, newSlug)
}

func (s *categoryService) UpdateImage(ctx context.Context, slug, imageDataURL string) (*domain.Category, error) {
	if imageDataURL == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "imageDataUrl", Message: "imageDataUrl is required"},
		}}
	}
	imageURL, imagePublicID := s.ingestImage(ctx, imageDataURL)
	if err := s.repo.SetImage(ctx, slug, imageURL, imagePublicID); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *categoryService) AddSubcategory(ctx context.Context, slug, subName string) (*domain.Category, error) {
	if subName == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "subName", Message: "subName is required"},
		}}
	}
	sub := domain.Subcategory{Slug: domain.Slugify(subName), Name: subName, Count: 0}
	if err := s.repo.EnsureSubcategory(ctx, slug, sub); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *categoryService) RenameSubcategory(ctx context.Context, slug, subSlug, newName string) (*domain.Category, error) {
	if subSlug == "" || newName == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "subSlug", Message: "subSlug and newName are required"},
		}}
	}
	if err := s.repo.RenameSubcategory(ctx, slug, subSlug, newName, domain.Slugify(newName)); err != nil {
		return nil, err
	}
	return s.repo.FindBySlug(ctx, slug)
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return s.repo.Delete(ctx, slug)
}

func (s *categoryService) DeleteSubcategory(ctx context.Context, slug, subSlug string) (*domain.Category, error) {
	if err := s.repo.RemoveSubcategory(ctx, slug, subSlug); err != nil {
		return nil, err
	}
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return category, nil
}
