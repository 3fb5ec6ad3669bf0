package common

import (
	"net/http"
	"strconv"

	"github.com/bizbranches/api/internal/application"
)

// ParsePositiveInt parses a positive integer query value, returning fallback
// for anything absent or malformed.
func ParsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// ParsePaging reads the page/limit query parameters. Normalization happens
// in the service layer.
func ParsePaging(r *http.Request) application.Paging {
	return application.Paging{
		Page:  ParsePositiveInt(r.URL.Query().Get("page"), 0),
		Limit: ParsePositiveInt(r.URL.Query().Get("limit"), 0),
	}
}
