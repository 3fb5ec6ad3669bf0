package application

import (
	"context"
	"encoding/base64"
	"log"
	"strings"
)

// Size ceilings for inline image payloads, measured on the encoded data URL.
const (
	MaxLogoDataURLBytes     = 2_500_000
	MaxCategoryImageBytes   = 3_000_000
	logoFolder              = "citation/business-logos"
	categoryImageFolder     = "citation/category-images"
	logoTransformSize       = 200
	categoryImageTransform  = 300
)

// UploadResult is what the image host hands back for a stored blob.
type UploadResult struct {
	URL      string
	PublicID string
}

// UploadOptions is the transformation hint passed to the image host.
type UploadOptions struct {
	Folder string
	Width  int
	Height int
}

// ImageUploader is the image-hosting collaborator. Configured lets callers
// choose the inline fallback proactively instead of waiting for an error.
type ImageUploader interface {
	Configured() bool
	Upload(ctx context.Context, data []byte, opts UploadOptions) (*UploadResult, error)
}

// LogoInput is the tagged union of the two accepted logo shapes: an inline
// base64 data URL or an uploaded file's bytes. At most one is set.
type LogoInput struct {
	DataURL string
	File    []byte
}

// LogoAttachment is what ends up on the business record. Exactly one of
// URL and DataURL is ever set: a hosted URL clears the inline fallback.
type LogoAttachment struct {
	URL      string
	PublicID string
	DataURL  string
}

// Empty reports whether no logo survived ingestion.
func (a LogoAttachment) Empty() bool {
	return a.URL == "" && a.DataURL == ""
}

// decodeDataURL extracts the raw bytes of a base64 image data URL.
func decodeDataURL(dataURL string) ([]byte, bool) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, false
	}
	_, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}
	return raw, true
}

// ingestLogo forwards a logo to the image host and falls back to keeping the
// inline payload when the host is unavailable or unconfigured, so a
// submission is never blocked by the collaborator. Upload failures are
// logged, not returned.
func ingestLogo(ctx context.Context, uploader ImageUploader, logger *log.Logger, input LogoInput) LogoAttachment {
	opts := UploadOptions{Folder: logoFolder, Width: logoTransformSize, Height: logoTransformSize}

	if input.DataURL != "" {
		raw, ok := decodeDataURL(input.DataURL)
		if !ok {
			return LogoAttachment{}
		}
		if uploader == nil || !uploader.Configured() {
			return LogoAttachment{DataURL: input.DataURL}
		}
		uploaded, err := uploader.Upload(ctx, raw, opts)
		if err != nil {
			if logger != nil {
				logger.Printf("logo upload failed, keeping inline fallback: %v", err)
			}
			return LogoAttachment{DataURL: input.DataURL}
		}
		return LogoAttachment{URL: uploaded.URL, PublicID: uploaded.PublicID}
	}

	if len(input.File) > 0 {
		if uploader == nil || !uploader.Configured() {
			return LogoAttachment{}
		}
		uploaded, err := uploader.Upload(ctx, input.File, opts)
		if err != nil {
			if logger != nil {
				logger.Printf("logo file upload failed, proceeding without logo: %v", err)
			}
			return LogoAttachment{}
		}
		return LogoAttachment{URL: uploaded.URL, PublicID: uploaded.PublicID}
	}

	return LogoAttachment{}
}
