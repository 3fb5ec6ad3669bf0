package application

import (
	"context"

	"github.com/bizbranches/api/internal/domain"
)

// ReviewService covers admin review moderation. Review creation happens on
// the public site and never goes through this API.
type ReviewService interface {
	List(ctx context.Context, businessID string, paging Paging) ([]domain.Review, PageInfo, error)
	Update(ctx context.Context, id string, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type reviewService struct {
	repo ReviewRepository
}

// NewReviewService wires review moderation use-cases.
func NewReviewService(repo ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) List(ctx context.Context, businessID string, paging Paging) ([]domain.Review, PageInfo, error) {
	paging = paging.Normalize(10)
	items, total, err := s.repo.Find(ctx, businessID, paging)
	if err != nil {
		return nil, PageInfo{}, err
	}
	info := NewPageInfo(paging, total)
	if info.Page > info.Pages {
		// Clamp past-the-end pages back to the last one and refetch.
		paging.Page = info.Pages
		items, total, err = s.repo.Find(ctx, businessID, paging)
		if err != nil {
			return nil, PageInfo{}, err
		}
		info = NewPageInfo(paging, total)
	}
	return items, info, nil
}

func (s *reviewService) Update(ctx context.Context, id string, patch ReviewPatch) (*domain.Review, error) {
	if patch.Rating != nil {
		clamped := domain.ClampRating(*patch.Rating)
		patch.Rating = &clamped
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *reviewService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
