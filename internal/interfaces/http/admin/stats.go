package admin

import (
	"context"
	"net/http"

	"github.com/bizbranches/api/internal/interfaces/http/common"
)

func (h *Handler) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		stats, err := h.businesses.Stats(ctx)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"stats": stats,
		})
	}
}

func (h *Handler) analyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		analytics, err := h.businesses.Analytics(ctx)
		if err != nil {
			common.Error(h.logger, w, err, h.production)
			return
		}
		common.OK(h.logger, w, http.StatusOK, map[string]any{
			"analytics": analytics,
		})
	}
}
