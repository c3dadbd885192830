package repository

import (
	"context"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

// Filter narrows catalog listings. Zero values mean "no constraint".
// Archived records are excluded unless IncludeArchived is set.
type Filter struct {
	Folder          string
	Category        model.Category
	Tag             string
	OwnerID         string
	IncludeArchived bool
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// DocumentRepository defines data access for the document catalog using SQL
// queries only. No business logic here — strictly persistence operations.
// Create runs the category derivation before writing so the stored category
// can never disagree with the content type.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its record id.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// FindByStorageID returns a document by the remote store's object id.
	FindByStorageID(ctx context.Context, storageID string) (*model.Document, error)

	// List returns a filtered, paginated slice of documents plus the total
	// row count for the filter, ordered by folder then recency.
	List(ctx context.Context, f Filter, pq PageQuery) (*PageResult[model.Document], error)

	// Search matches a case-insensitive substring against filename, content
	// type, folder, category and description of active documents.
	Search(ctx context.Context, text string, pq PageQuery) (*PageResult[model.Document], error)

	// Archive soft-deletes a record by storage id. It reports whether a row
	// matched; archiving an already-archived row succeeds and reports true.
	Archive(ctx context.Context, storageID string) (bool, error)

	// TouchAccess records a read of the document identified by record id.
	TouchAccess(ctx context.Context, id string) error

	// CountByCategory returns active document counts grouped by category.
	CountByCategory(ctx context.Context) (map[model.Category]int, error)
}
