package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
	"github.com/bizbranches/api/internal/interfaces/http/common"
)

const maxCategoryBody = 4 << 20

type categoryCreateRequest struct {
	Category     string `json:"category"`
	SubCategory  string `json:"subCategory"`
	ImageDataURL string `json:"imageDataUrl"`
}

func (h *Handler) categoryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxCategoryBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		category, err := h.categories.Create(ctx, application.CreateCategoryCommand{
			Category:     strings.TrimSpace(req.Category),
			SubCategory:  strings.TrimSpace(req.SubCategory),
			ImageDataURL: strings.TrimSpace(req.ImageDataURL),
		})
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusCreated, map[string]any{
			"category": common.NewCategoryView(*category),
		})
	}
}

// categoryUpdateRequest is the action-dispatched category PATCH body.
type categoryUpdateRequest struct {
	Action       string `json:"action"`
	NewName      string `json:"newName"`
	ImageDataURL string `json:"imageDataUrl"`
	SubSlug      string `json:"subSlug"`
	SubName      string `json:"subName"`
}

func (h *Handler) categoryUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Category slug is required")
			return
		}

		var req categoryUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxCategoryBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var category *domain.Category
		var err error
		switch req.Action {
		case "updateCategoryName":
			category, err = h.categories.Rename(ctx, slug, strings.TrimSpace(req.NewName))
		case "updateCategoryImage":
			category, err = h.categories.UpdateImage(ctx, slug, strings.TrimSpace(req.ImageDataURL))
		case "addSubcategory":
			category, err = h.categories.AddSubcategory(ctx, slug, strings.TrimSpace(req.SubName))
		case "renameSubcategory":
			category, err = h.categories.RenameSubcategory(ctx, slug, strings.TrimSpace(req.SubSlug), strings.TrimSpace(req.NewName))
		default:
			common.Fail(h.logger, w, http.StatusBadRequest, "Unknown action")
			return
		}
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"category": common.NewCategoryView(*category),
		})
	}
}

func (h *Handler) categoryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Category slug is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		// With a subSlug only the embedded subcategory goes; without one the
		// whole category does.
		if subSlug := strings.TrimSpace(r.URL.Query().Get("subSlug")); subSlug != "" {
			category, err := h.categories.DeleteSubcategory(ctx, slug, subSlug)
			if err != nil {
				common.Error(h.logger, w, err, h.production)
				return
			}
			payload := map[string]any{"message": "Subcategory deleted"}
			if category != nil {
				payload["category"] = common.NewCategoryView(*category)
			}
			common.OK(h.logger, w, http.StatusOK, payload)
			return
		}

		if err := h.categories.Delete(ctx, slug); err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"message": "Category deleted",
		})
	}
}
