package admin

import (
	"log"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bizbranches/api/internal/application"
)

const requestTimeout = 10 * time.Second

// Handler wires the admin HTTP endpoints to application services. The
// server mounts it behind the admin-role middleware, so every handler can
// assume an authenticated admin principal in context.
type Handler struct {
	logger     *log.Logger
	businesses application.BusinessService
	categories application.CategoryService
	reviews    application.ReviewService
	users      application.UserService
	production bool
}

// Config provides dependencies for Handler.
type Config struct {
	Logger     *log.Logger
	Businesses application.BusinessService
	Categories application.CategoryService
	Reviews    application.ReviewService
	Users      application.UserService
	Production bool
}

// NewHandler constructs the admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		businesses: cfg.Businesses,
		categories: cfg.Categories,
		reviews:    cfg.Reviews,
		users:      cfg.Users,
		production: cfg.Production,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/businesses/stats", h.statsHandler())
	r.Patch("/businesses/bulk", h.businessBulkUpdateHandler())
	r.Patch("/businesses/{id}", h.businessUpdateHandler())
	r.Delete("/businesses/{id}", h.businessDeleteHandler())

	r.Get("/analytics", h.analyticsHandler())

	r.Post("/categories", h.categoryCreateHandler())
	r.Patch("/categories/{slug}", h.categoryUpdateHandler())
	r.Delete("/categories/{slug}", h.categoryDeleteHandler())

	r.Get("/reviews", h.reviewListHandler())
	r.Patch("/reviews/{id}", h.reviewUpdateHandler())
	r.Delete("/reviews/{id}", h.reviewDeleteHandler())

	r.Get("/users", h.userListHandler())
	r.Post("/users", h.userCreateHandler())
	r.Patch("/users/{id}", h.userUpdateHandler())
	r.Delete("/users/{id}", h.userDeleteHandler())
}
