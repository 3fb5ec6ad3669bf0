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

const maxUserBody = 64 << 10

func (h *Handler) userListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		users, err := h.users.List(ctx)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}

		views := make([]common.UserView, 0, len(users))
		for _, user := range users {
			views = append(views, common.NewUserView(user))
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"users": views,
		})
	}
}

type userCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) userCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req userCreateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUserBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		user, err := h.users.Create(ctx, application.CreateUserCommand{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusCreated, map[string]any{
			"user": common.NewUserView(*user),
		})
	}
}

type userUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) userUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "User id is required")
			return
		}

		var req userUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxUserBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.users.Update(ctx, idParam, req.Name, req.Email, req.Role); err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"message": "User updated",
		})
	}
}

func (h *Handler) userDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "User id is required")
			return
		}

		// Admins may not remove their own account while logged into it.
		if user, ok := common.UserFromContext(r.Context()); ok && user.ID == idParam {
			common.Fail(h.logger, w, http.StatusBadRequest, "Cannot delete your own account")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.users.Delete(ctx, idParam); err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"message": "User deleted",
		})
	}
}
