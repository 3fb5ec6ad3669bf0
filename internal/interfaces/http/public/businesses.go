package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
	"github.com/bizbranches/api/internal/interfaces/http/common"
)

// maxSubmissionBody bounds the intake payload. It leaves room for the
// largest accepted inline logo plus the text fields.
const maxSubmissionBody = 6 << 20

// maxMultipartMemory is the in-memory buffer for multipart intake; larger
// file parts spill to disk.
const maxMultipartMemory = 8 << 20

const requestTimeout = 10 * time.Second

func (h *Handler) businessListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		// The dashboard also fetches single records through this endpoint,
		// passing id or slug as a query param instead of a path segment.
		if slug := strings.TrimSpace(query.Get("slug")); slug != "" {
			h.respondWithOne(w, r, h.businesses.GetBySlug, slug)
			return
		}
		if id := strings.TrimSpace(query.Get("id")); id != "" {
			h.respondWithOne(w, r, h.businesses.Get, id)
			return
		}

		filter := application.BusinessFilter{
			Category:  strings.TrimSpace(query.Get("category")),
			Province:  strings.TrimSpace(query.Get("province")),
			City:      strings.TrimSpace(query.Get("city")),
			Area:      strings.TrimSpace(query.Get("area")),
			Status:    strings.TrimSpace(query.Get("status")),
			Reviewed:  strings.TrimSpace(query.Get("reviewed")),
			Source:    strings.TrimSpace(query.Get("source")),
			CreatedBy: strings.TrimSpace(query.Get("createdBy")),
			Query:     strings.TrimSpace(query.Get("q")),
			History:   query.Get("history") == "true",
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		businesses, page, err := h.businesses.List(ctx, filter, common.ParsePaging(r))
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"businesses": common.NewBusinessViews(businesses),
			"pagination": page,
		})
	}
}

// respondWithOne runs a single-record lookup and writes the business
// envelope.
func (h *Handler) respondWithOne(w http.ResponseWriter, r *http.Request, fetch func(context.Context, string) (*domain.Business, error), key string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	business, err := fetch(ctx, key)
	if err != nil {
		common.Error(h.logger, w, err, h.production)
		return
	}
	common.OK(h.logger, w, http.StatusOK, map[string]any{
		"business": common.NewBusinessView(*business),
	})
}

func (h *Handler) businessDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Business id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		business, err := h.businesses.Get(ctx, idParam)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"business": common.NewBusinessView(*business),
		})
	}
}

// businessSubmitHandler accepts both intake shapes: a JSON body with an
// optional inline logo data URL, or a multipart form with an optional
// logoFile part. Both converge on the same normalized submission.
func (h *Handler) businessSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw domain.RawSubmission
		var logoFile []byte

		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				common.Fail(h.logger, w, http.StatusBadRequest, "Invalid multipart form")
				return
			}
			raw = common.RawSubmissionFromForm(r)
			file, _, err := r.FormFile("logoFile")
			if err == nil {
				defer file.Close()
				logoFile, err = io.ReadAll(io.LimitReader(file, application.MaxLogoDataURLBytes))
				if err != nil {
					common.Fail(h.logger, w, http.StatusBadRequest, "Failed to read logo file")
					return
				}
			}
		} else {
			if err := json.NewDecoder(io.LimitReader(r.Body, maxSubmissionBody)).Decode(&raw); err != nil {
				common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		cmd := application.SubmitCommand{
			Submission: raw.Normalize(),
			LogoFile:   logoFile,
		}
		if user, ok := common.UserFromContext(r.Context()); ok {
			cmd.Actor = &application.Actor{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		business, err := h.businesses.Submit(ctx, cmd)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusCreated, map[string]any{
			"business": common.NewBusinessView(*business),
		})
	}
}

func (h *Handler) featuredHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		businesses, err := h.businesses.Featured(ctx)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"businesses": common.NewBusinessViews(businesses),
		})
	}
}

func (h *Handler) publicListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := application.PublicFilter{
			Search:   strings.TrimSpace(query.Get("search")),
			City:     strings.TrimSpace(query.Get("city")),
			Category: strings.TrimSpace(query.Get("category")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		businesses, page, err := h.businesses.PublicList(ctx, filter, common.ParsePaging(r))
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"businesses": common.NewPublicBusinessViews(businesses),
			"pagination": page,
		})
	}
}
