package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/bizbranches/api/internal/application"
)

// Handler wires the public HTTP endpoints to application services. "Public"
// here means reachable without the admin role; submission intake and the
// submitter's own history still read the optional authenticated principal.
type Handler struct {
	logger     *log.Logger
	businesses application.BusinessService
	categories application.CategoryService
	users      application.UserService
	tokens     TokenIssuer
	production bool
}

// TokenIssuer mints the session token returned by the login endpoint.
type TokenIssuer interface {
	Issue(id, email, name, role string) (string, error)
}

// Config provides dependencies for Handler.
type Config struct {
	Logger     *log.Logger
	Businesses application.BusinessService
	Categories application.CategoryService
	Users      application.UserService
	Tokens     TokenIssuer
	Production bool
}

// NewHandler constructs the public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		businesses: cfg.Businesses,
		categories: cfg.Categories,
		users:      cfg.Users,
		tokens:     cfg.Tokens,
		production: cfg.Production,
	}
}

// Register mounts public routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.loginHandler())
	r.Get("/businesses", h.businessListHandler())
	r.Get("/businesses/{id}", h.businessDetailHandler())
	r.Post("/businesses", h.businessSubmitHandler())
	r.Get("/featured-businesses", h.featuredHandler())
	r.Get("/public/businesses", h.publicListHandler())
	r.Get("/categories", h.categoryListHandler())
	r.Get("/categories/{slug}", h.categoryDetailHandler())
}
