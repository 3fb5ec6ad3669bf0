package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr               string
	MongoURI           string
	MongoDatabase      string
	BusinessCollection string
	CategoryCollection string
	ReviewCollection   string
	UserCollection     string
	Timeout            time.Duration
	AppEnv             string
	ServerLog          *log.Logger

	JWTSecret []byte
	TokenTTL  time.Duration

	AllowedOrigins []string

	// Cloudinary is optional; with no credentials the server keeps logos
	// inline instead of uploading them.
	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryBaseURL   string
}

// Production reports whether the server should suppress internal error
// details in responses.
func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET must be configured")
	}

	tokenTTL := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("JWT_TOKEN_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			tokenTTL = parsed
		}
	}

	cfg := Config{
		Addr:               envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:           envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:      envOrDefault("MONGO_DB", "bizbranches"),
		BusinessCollection: envOrDefault("BUSINESS_COLLECTION", "businesses"),
		CategoryCollection: envOrDefault("CATEGORY_COLLECTION", "categories"),
		ReviewCollection:   envOrDefault("REVIEW_COLLECTION", "reviews"),
		UserCollection:     envOrDefault("USER_COLLECTION", "users"),
		Timeout:            timeout,
		AppEnv:             envOrDefault("APP_ENV", "development"),
		ServerLog:          log.New(os.Stdout, "[bizbranches-api] ", log.LstdFlags|log.Lshortfile),

		JWTSecret: []byte(jwtSecret),
		TokenTTL:  tokenTTL,

		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),

		CloudinaryURL:       strings.TrimSpace(os.Getenv("CLOUDINARY_URL")),
		CloudinaryCloudName: strings.TrimSpace(os.Getenv("CLOUDINARY_CLOUD_NAME")),
		CloudinaryAPIKey:    strings.TrimSpace(os.Getenv("CLOUDINARY_API_KEY")),
		CloudinaryAPISecret: strings.TrimSpace(os.Getenv("CLOUDINARY_API_SECRET")),
		CloudinaryBaseURL:   strings.TrimSpace(os.Getenv("CLOUDINARY_BASE_URL")),
	}

	cfg.ServerLog.Printf("loaded config: env=%s db=%s cloudinary=%t", cfg.AppEnv, cfg.MongoDatabase, cfg.CloudinaryURL != "" || cfg.CloudinaryCloudName != "")

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
