package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/interfaces/http/common"
)

const maxReviewBody = 64 << 10

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		businessID := strings.TrimSpace(r.URL.Query().Get("businessId"))
		if businessID == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "businessId is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		reviews, page, err := h.reviews.List(ctx, businessID, common.ParsePaging(r))
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}

		views := make([]common.ReviewView, 0, len(reviews))
		for _, review := range reviews {
			views = append(views, common.NewReviewView(review))
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"reviews":    views,
			"pagination": page,
		})
	}
}

type reviewUpdateRequest struct {
	Name    *string `json:"name"`
	Comment *string `json:"comment"`
	Rating  *int    `json:"rating"`
	Status  *string `json:"status"`
}

func (h *Handler) reviewUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Review id is required")
			return
		}

		var req reviewUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxReviewBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		review, err := h.reviews.Update(ctx, idParam, application.ReviewPatch{
			Name:    req.Name,
			Comment: req.Comment,
			Rating:  req.Rating,
			Status:  req.Status,
		})
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"review": common.NewReviewView(*review),
		})
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Review id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.reviews.Delete(ctx, idParam); err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"message": "Review deleted",
		})
	}
}
