package admin

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

const maxUpdateBody = 6 << 20

// maxUpdateMultipartMemory is the in-memory buffer for multipart edits;
// larger file parts spill to disk.
const maxUpdateMultipartMemory = 8 << 20

// businessUpdateRequest is the tagged union accepted by PATCH. Exactly one
// variant applies per request: a field edit when action says so, otherwise a
// status transition when status is present, otherwise a featured toggle.
type businessUpdateRequest struct {
	Action string `json:"action"`

	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`

	Featured   *bool      `json:"featured"`
	FeaturedAt *time.Time `json:"featuredAt"`

	domain.RawSubmission
}

func (h *Handler) businessUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Business id is required")
			return
		}

		// Edits arrive as JSON or, when a logo file rides along, as a
		// multipart form carrying the same field names.
		var req businessUpdateRequest
		var logoFile []byte
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxUpdateMultipartMemory); err != nil {
				common.Fail(h.logger, w, http.StatusBadRequest, "Invalid multipart form")
				return
			}
			req.Action = r.FormValue("action")
			req.Status = r.FormValue("status")
			req.RejectionReason = r.FormValue("rejectionReason")
			if v := r.FormValue("featured"); v != "" {
				featured := v == "true"
				req.Featured = &featured
			}
			req.RawSubmission = common.RawSubmissionFromForm(r)
			if file, _, err := r.FormFile("logoFile"); err == nil {
				defer file.Close()
				logoFile, err = io.ReadAll(io.LimitReader(file, application.MaxLogoDataURLBytes))
				if err != nil {
					common.Fail(h.logger, w, http.StatusBadRequest, "Failed to read logo file")
					return
				}
			}
		} else {
			if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateBody)).Decode(&req); err != nil {
				common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
				return
			}
		}

		user, _ := common.UserFromContext(r.Context())

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		switch {
		case req.Action == "updateFields":
			err := h.businesses.UpdateFields(ctx, idParam, req.RawSubmission.Normalize(),
				application.LogoInput{DataURL: strings.TrimSpace(req.LogoDataURL), File: logoFile})
			if err != nil {
				common.Error(h.logger, w, err, h.production)
				return
			}
		case req.Action != "":
			common.Fail(h.logger, w, http.StatusBadRequest, "Unknown action")
			return
		case req.Status != "":
			cmd := application.StatusUpdateCommand{
				Status:          req.Status,
				RejectionReason: strings.TrimSpace(req.RejectionReason),
				ReviewedBy:      user.Email,
			}
			if err := h.businesses.ChangeStatus(ctx, idParam, cmd); err != nil {
				common.Error(h.logger, w, err, h.production)
				return
			}
		case req.Featured != nil:
			cmd := application.FeaturedUpdateCommand{Featured: *req.Featured, FeaturedAt: req.FeaturedAt}
			if err := h.businesses.SetFeatured(ctx, idParam, cmd); err != nil {
				common.Error(h.logger, w, err, h.production)
				return
			}
		default:
			common.Fail(h.logger, w, http.StatusBadRequest, "Nothing to update")
			return
		}

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

type bulkUpdateRequest struct {
	IDs             []string `json:"ids"`
	Status          string   `json:"status"`
	RejectionReason string   `json:"rejectionReason"`
}

func (h *Handler) businessBulkUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.IDs) == 0 {
			common.Fail(h.logger, w, http.StatusBadRequest, "ids are required")
			return
		}

		user, _ := common.UserFromContext(r.Context())
		cmd := application.StatusUpdateCommand{
			Status:          req.Status,
			RejectionReason: strings.TrimSpace(req.RejectionReason),
			ReviewedBy:      user.Email,
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		result, err := h.businesses.ChangeStatusBulk(ctx, req.IDs, cmd)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"matchedCount":  result.Matched,
			"modifiedCount": result.Modified,
		})
	}
}

func (h *Handler) businessDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Business id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.businesses.Delete(ctx, idParam); err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"message": "Business deleted",
		})
	}
}
