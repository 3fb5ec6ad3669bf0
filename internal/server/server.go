package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/config"
	"github.com/bizbranches/api/internal/infrastructure/cloudinary"
	mongodoc "github.com/bizbranches/api/internal/infrastructure/mongo"
	adminhttp "github.com/bizbranches/api/internal/interfaces/http/admin"
	commonhttp "github.com/bizbranches/api/internal/interfaces/http/common"
	publichttp "github.com/bizbranches/api/internal/interfaces/http/public"
)

// Server is the composition root: it connects the application services to
// the router and owns the HTTP lifecycle.
type Server struct {
	cfg    config.Config
	client *mongo.Client

	businessService application.BusinessService
	categoryService application.CategoryService
	reviewService   application.ReviewService
	userService     application.UserService
}

// New assembles repositories, services and handlers from configuration.
func New(cfg config.Config, client *mongo.Client) *Server {
	database := client.Database(cfg.MongoDatabase)

	businessRepo := mongodoc.NewBusinessRepository(database, cfg.BusinessCollection)
	categoryRepo := mongodoc.NewCategoryRepository(database, cfg.CategoryCollection)
	reviewRepo := mongodoc.NewReviewRepository(database, cfg.ReviewCollection)
	userRepo := mongodoc.NewUserRepository(database, cfg.UserCollection)

	uploader := cloudinary.New(cloudinaryConfig(cfg))

	return &Server{
		cfg:             cfg,
		client:          client,
		businessService: application.NewBusinessService(businessRepo, categoryRepo, userRepo, uploader, cfg.ServerLog),
		categoryService: application.NewCategoryService(categoryRepo, uploader, cfg.ServerLog),
		reviewService:   application.NewReviewService(reviewRepo),
		userService:     application.NewUserService(userRepo, businessRepo),
	}
}

// cloudinaryConfig resolves the credential set, preferring the single-URL
// form over the three separate variables.
func cloudinaryConfig(cfg config.Config) cloudinary.Config {
	if cfg.CloudinaryURL != "" {
		parsed, err := cloudinary.ParseURL(cfg.CloudinaryURL)
		if err != nil {
			cfg.ServerLog.Printf("ignoring malformed CLOUDINARY_URL: %v", err)
		} else {
			parsed.BaseURL = cfg.CloudinaryBaseURL
			return parsed
		}
	}
	return cloudinary.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		BaseURL:   cfg.CloudinaryBaseURL,
	}
}

// Run ensures indexes, assembles the router and serves until shutdown.
func (s *Server) Run() error {
	indexCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	if err := mongodoc.EnsureIndexes(indexCtx, s.client.Database(s.cfg.MongoDatabase), mongodoc.IndexConfig{
		Businesses: s.cfg.BusinessCollection,
		Categories: s.cfg.CategoryCollection,
		Users:      s.cfg.UserCollection,
	}); err != nil {
		s.cfg.ServerLog.Printf("index creation failed: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:     s.cfg.ServerLog,
		Businesses: s.businessService,
		Categories: s.categoryService,
		Users:      s.userService,
		Tokens:     s,
		Production: s.cfg.Production(),
	})
	router.Group(func(r chi.Router) {
		r.Use(s.optionalAuth)
		publicHandler.Register(r)
	})

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:     s.cfg.ServerLog,
		Businesses: s.businessService,
		Categories: s.categoryService,
		Reviews:    s.reviewService,
		Users:      s.userService,
		Production: s.cfg.Production(),
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.cfg.ServerLog.Printf("HTTP server listening on %s", s.cfg.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	s.waitForShutdown(httpServer, errChan)
	return nil
}

type authClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// Issue mints a signed session token for a logged-in user.
func (s *Server) Issue(id, email, name, role string) (string, error) {
	now := time.Now()
	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
		Email: email,
		Name:  name,
		Role:  role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
}

// parseAuthToken validates the signature and expiry of a bearer token.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.cfg.JWTSecret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid access token")
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// bearerToken extracts the token from the Authorization header, empty when
// absent or malformed.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// optionalAuth attaches the authenticated principal to context when a valid
// token is present and lets the request through either way. Anonymous
// submissions rely on this.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := s.parseAuthToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := commonhttp.ContextWithUser(r.Context(), commonhttp.AuthenticatedUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects requests without a valid admin-role token.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			commonhttp.Fail(s.cfg.ServerLog, w, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := s.parseAuthToken(token)
		if err != nil {
			commonhttp.Fail(s.cfg.ServerLog, w, http.StatusUnauthorized, "Invalid access token")
			return
		}
		user := commonhttp.AuthenticatedUser{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		}
		if !user.IsAdmin() {
			commonhttp.Fail(s.cfg.ServerLog, w, http.StatusForbidden, "Admin role required")
			return
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

// healthHandler reports Mongo connectivity for the monitoring probes.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.cfg.ServerLog, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		commonhttp.WriteJSON(s.cfg.ServerLog, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// shutdown disconnects the Mongo client with a bounded timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.cfg.ServerLog.Printf("error disconnecting MongoDB: %v", err)
	}
}

// waitForShutdown watches both the listener and OS signals so the server
// drains in-flight requests before exiting.
func (s *Server) waitForShutdown(httpServer *http.Server, errChan <-chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.cfg.ServerLog.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		s.cfg.ServerLog.Printf("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			s.cfg.ServerLog.Printf("error during shutdown: %v", err)
		}
	}

	s.shutdown(context.Background())
}
