package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/model"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic
// beyond the category-derivation invariant, which must hold at the write boundary.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, storage_url, storage_id, original_filename, content_type, size_bytes,
		folder, category, owner_id, description, tags, is_archived,
		uploaded_at, last_accessed_at, created_at, updated_at`

// Create inserts a new document row and returns the stored record.
// The derived category is recomputed immediately before the write.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	doc.ApplyCategory()

	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	q := `
		INSERT INTO documents (id, storage_url, storage_id, original_filename, content_type, size_bytes,
			folder, category, owner_id, description, tags, is_archived,
			uploaded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + documentColumns

	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.StorageURL,
		doc.StorageID,
		doc.OriginalFilename,
		doc.ContentType,
		doc.SizeBytes,
		doc.Folder,
		string(doc.Category),
		doc.OwnerID,
		doc.Description,
		tags,
		doc.IsArchived,
		doc.UploadedAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its record id.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindByStorageID fetches a single document by the remote store's object id.
func (r *DocumentPostgres) FindByStorageID(ctx context.Context, storageID string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE storage_id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, storageID))
}

// List returns documents matching the filter using LIMIT/OFFSET pagination and
// a total count. Rows are ordered by folder, newest first within each folder.
func (r *DocumentPostgres) List(ctx context.Context, f repository.Filter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args := buildFilter(f)

	var total int
	qCount := `SELECT COUNT(*) FROM documents` + where
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + documentColumns + ` FROM documents` + where +
		fmt.Sprintf(` ORDER BY folder ASC, created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Search matches a case-insensitive substring against the catalog's text
// columns. Archived rows are never returned by search.
func (r *DocumentPostgres) Search(ctx context.Context, text string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	pattern := "%" + text + "%"
	const where = ` WHERE is_archived = FALSE
		AND (original_filename ILIKE $1 OR content_type ILIKE $1 OR folder ILIKE $1
			OR category ILIKE $1 OR description ILIKE $1)`

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, pattern).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + documentColumns + ` FROM documents` + where +
		` ORDER BY folder ASC, created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, pattern, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Archive soft-deletes by storage id. The predicate deliberately does not
// exclude already-archived rows, which makes the operation idempotent.
func (r *DocumentPostgres) Archive(ctx context.Context, storageID string) (bool, error) {
	const q = `UPDATE documents SET is_archived = TRUE, updated_at = now() WHERE storage_id = $1`
	res, err := r.db.ExecContext(ctx, q, storageID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TouchAccess stamps last_accessed_at for the given record id.
func (r *DocumentPostgres) TouchAccess(ctx context.Context, id string) error {
	const q = `UPDATE documents SET last_accessed_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountByCategory returns active document counts grouped by category.
func (r *DocumentPostgres) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
	const q = `SELECT category, COUNT(*) FROM documents WHERE is_archived = FALSE GROUP BY category`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[model.Category(cat)] = n
	}
	return counts, rows.Err()
}

// buildFilter translates a repository.Filter into a WHERE clause and args.
func buildFilter(f repository.Filter) (string, []any) {
	conds := make([]string, 0, 5)
	args := make([]any, 0, 5)

	if !f.IncludeArchived {
		conds = append(conds, "is_archived = FALSE")
	}
	if f.Folder != "" {
		args = append(args, f.Folder)
		conds = append(conds, fmt.Sprintf("folder = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Tag != "" {
		// tags is jsonb; containment check hits the GIN index.
		b, _ := json.Marshal([]string{f.Tag})
		args = append(args, string(b))
		conds = append(conds, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		conds = append(conds, fmt.Sprintf("owner_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d            model.Document
		category     string
		ownerID      sql.NullString
		lastAccessed sql.NullTime
		tags         []byte
	)
	if err := row.Scan(
		&d.ID,
		&d.StorageURL,
		&d.StorageID,
		&d.OriginalFilename,
		&d.ContentType,
		&d.SizeBytes,
		&d.Folder,
		&category,
		&ownerID,
		&d.Description,
		&tags,
		&d.IsArchived,
		&d.UploadedAt,
		&lastAccessed,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	d.Category = model.Category(category)
	if ownerID.Valid {
		d.OwnerID = &ownerID.String
	}
	if lastAccessed.Valid {
		t := lastAccessed.Time
		d.LastAccessedAt = &t
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
