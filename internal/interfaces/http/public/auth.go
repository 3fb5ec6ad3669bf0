package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/bizbranches/api/internal/interfaces/http/common"
)

const maxLoginBody = 16 << 10

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginBody)).Decode(&req); err != nil {
			common.Fail(h.logger, w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			common.Fail(h.logger, w, http.StatusBadRequest, "Email and password are required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		user, err := h.users.Authenticate(ctx, req.Email, req.Password)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}

		token, err := h.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}

		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"token": token,
			"user":  common.NewUserView(*user),
		})
	}
}
