package model

import (
	"strings"
	"time"
)

// Category is a coarse classification derived from a document's content type.
// It is never user-supplied; DeriveCategory is the single source of truth.
type Category string

const (
	CategoryImage        Category = "image"
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryOther        Category = "other"
)

// MaxDescriptionLen bounds the free-text description field.
const MaxDescriptionLen = 500

// DefaultFolder is the logical grouping used when the caller supplies none.
const DefaultFolder = "documents"

// Document represents one uploaded artifact in the catalog.
// StorageID and StorageURL are assigned once, at creation, from the remote
// store's commit result and are never mutated afterwards.
type Document struct {
	ID               string     `json:"id"`
	StorageURL       string     `json:"storage_url"`
	StorageID        string     `json:"storage_id"`
	OriginalFilename string     `json:"original_filename"`
	ContentType      string     `json:"content_type"`
	SizeBytes        int64      `json:"size_bytes"`
	Folder           string     `json:"folder"`
	Category         Category   `json:"category"`
	OwnerID          *string    `json:"owner_id,omitempty"`
	Description      string     `json:"description,omitempty"`
	Tags             []string   `json:"tags"`
	IsArchived       bool       `json:"is_archived"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	LastAccessedAt   *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// allowedContentTypes is the fixed upload allow-list: common images, PDF,
// Word, plain text and Excel.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":         {},
	"image/png":          {},
	"image/gif":          {},
	"image/webp":         {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain":               {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// ContentTypeAllowed reports whether ct is on the upload allow-list.
func ContentTypeAllowed(ct string) bool {
	_, ok := allowedContentTypes[ct]
	return ok
}

// AllowedContentTypes returns the allow-list as a slice, for error messages
// and tests. Order is not specified.
func AllowedContentTypes() []string {
	out := make([]string, 0, len(allowedContentTypes))
	for ct := range allowedContentTypes {
		out = append(out, ct)
	}
	return out
}

// DeriveCategory classifies a content type. The predicate table is
// order-sensitive: the first matching row wins, and a content type matching
// no row keeps the default classification.
func DeriveCategory(contentType string) Category {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return CategoryImage
	case ct == "application/pdf":
		return CategoryDocument
	case strings.Contains(ct, "spreadsheet"):
		return CategorySpreadsheet
	case strings.Contains(ct, "presentation"):
		return CategoryPresentation
	default:
		return CategoryDocument
	}
}

// ApplyCategory recomputes the derived category from the document's content
// type. It must run on every create and update so the category can never
// disagree with the derivation table.
func (d *Document) ApplyCategory() {
	d.Category = DeriveCategory(d.ContentType)
}

// NormalizeTags canonicalizes tag input at the boundary: entries that are
// themselves comma-joined strings are split, every tag is trimmed, and empty
// tags are dropped. Order is preserved. The result is never nil.
func NormalizeTags(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				out = append(out, tag)
			}
		}
	}
	return out
}
