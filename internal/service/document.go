package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/cache"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/config"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/model"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/repository"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/storage"
)

var (
	ErrReaderNil             = errors.New("reader is nil")
	ErrFileEmpty             = errors.New("file is empty")
	ErrFileTooLarge          = errors.New("file exceeds the maximum allowed size")
	ErrContentTypeNotAllowed = errors.New("content type is not allowed")
	ErrDescriptionTooLong    = errors.New("description is too long")
	ErrNoFiles               = errors.New("no files supplied")
	ErrTooManyFiles          = errors.New("too many files in one batch")
	ErrIDRequired            = errors.New("id is required")
	ErrNotFound              = errors.New("document not found")
	ErrSizeMismatch          = errors.New("stored size does not match upload size")
)

// IsValidation reports whether err belongs to the request-validation class,
// i.e. the caller can fix it and no remote state was touched.
func IsValidation(err error) bool {
	for _, sentinel := range []error{
		ErrReaderNil, ErrFileEmpty, ErrFileTooLarge, ErrContentTypeNotAllowed,
		ErrDescriptionTooLong, ErrNoFiles, ErrTooManyFiles, ErrIDRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

const statsCacheKey = "category_counts"

// UploadInput carries one file payload.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// UploadOptions carries the descriptive form fields for a single upload.
type UploadOptions struct {
	Folder      string
	Description string
	Tags        []string
	OwnerID     string
}

// BatchOptions carries per-index descriptive fields for a multi-file upload.
// Descriptions and Tags are parallel arrays; indexes past their length get
// empty values.
type BatchOptions struct {
	Folder       string
	Descriptions []string
	Tags         [][]string
	OwnerID      string
}

// UploadResult embeds the remote object's attributes and the persisted record.
type UploadResult struct {
	Object   storage.ObjectInfo `json:"object"`
	Document *model.Document    `json:"document"`
}

// DeleteOutcome reports what a delete actually did on each side.
type DeleteOutcome struct {
	// DocumentArchived is true when a catalog record existed and was
	// soft-deleted.
	DocumentArchived bool `json:"documentArchived"`
	// RemoteFound is true when the remote store still held the object.
	RemoteFound bool `json:"remoteFound"`
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases of the upload & lifecycle pipeline.
type DocumentService interface {
	// Upload validates and commits one file to the remote store, then
	// persists its catalog record. The size cap is enforced before any
	// remote call. If the metadata write fails the committed object is
	// deleted again; if that compensation also fails the orphan is logged
	// with enough detail for a manual sweep.
	Upload(ctx context.Context, in UploadInput, opts UploadOptions) (*UploadResult, error)

	// UploadBatch applies the single-file contract to up to ten files.
	// Commits run concurrently; the result order matches input order. The
	// batch is all-or-nothing: one failing file fails the call, and objects
	// committed for sibling files are rolled back best effort.
	UploadBatch(ctx context.Context, files []UploadInput, opts BatchOptions) ([]UploadResult, error)

	// Delete archives the catalog record (if any) and then removes the
	// remote object. Metadata archival is never blocked by remote-store
	// inconsistency; a record-less, object-less id is ErrNotFound.
	Delete(ctx context.Context, storageID string) (DeleteOutcome, error)

	List(ctx context.Context, f repository.Filter, limit, offset int) (*DocumentListResult, error)
	Search(ctx context.Context, text string, limit, offset int) (*DocumentListResult, error)

	// Get returns a document by record id and stamps its last access time.
	Get(ctx context.Context, id string) (*model.Document, error)
	// GetByStorageID returns a document by the remote store's object id.
	GetByStorageID(ctx context.Context, storageID string) (*model.Document, error)

	// Stats returns active document counts per category, served through a
	// short-lived cache.
	Stats(ctx context.Context) (map[model.Category]int, error)
}

type documentService struct {
	store         storage.Storage
	repo          repository.DocumentRepository
	stats         *cache.TTL[map[model.Category]int]
	maxFileBytes  int64
	maxBatchFiles int
	statsTTL      time.Duration
}

// NewDocumentService constructs a DocumentService. Zero config values fall
// back to the standard limits (5 MiB per file, 10 files per batch).
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, cfg config.UploadConfig) DocumentService {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 5 << 20
	}
	if cfg.MaxBatchFiles <= 0 {
		cfg.MaxBatchFiles = 10
	}
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = 30 * time.Second
	}
	return &documentService{
		store:         store,
		repo:          repo,
		stats:         cache.New[map[model.Category]int](),
		maxFileBytes:  cfg.MaxFileBytes,
		maxBatchFiles: cfg.MaxBatchFiles,
		statsTTL:      cfg.StatsCacheTTL,
	}
}

// validate runs every pre-commit check. Nothing here touches the network.
func (s *documentService) validate(in UploadInput, opts UploadOptions) error {
	if in.Reader == nil {
		return ErrReaderNil
	}
	if in.Size <= 0 {
		return ErrFileEmpty
	}
	if in.Size > s.maxFileBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, in.Size, s.maxFileBytes)
	}
	if !model.ContentTypeAllowed(in.ContentType) {
		return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, in.ContentType)
	}
	if len(opts.Description) > model.MaxDescriptionLen {
		return fmt.Errorf("%w: %d characters (max %d)", ErrDescriptionTooLong, len(opts.Description), model.MaxDescriptionLen)
	}
	return nil
}

func (s *documentService) Upload(ctx context.Context, in UploadInput, opts UploadOptions) (*UploadResult, error) {
	if err := s.validate(in, opts); err != nil {
		return nil, err
	}
	return s.uploadCommitted(ctx, in, opts)
}

// uploadCommitted runs the commit-then-record saga. Validation must already
// have passed.
func (s *documentService) uploadCommitted(ctx context.Context, in UploadInput, opts UploadOptions) (*UploadResult, error) {
	folder := opts.Folder
	if folder == "" {
		folder = model.DefaultFolder
	}

	info, err := s.store.Put(ctx, folder, in.Filename, in.Reader, storage.PutOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("commit to storage: %w", err)
	}

	// Post-commit size check: the catalog must only ever describe what was
	// actually stored.
	if info.Size != in.Size {
		s.compensate(ctx, info, ErrSizeMismatch)
		return nil, fmt.Errorf("%w: committed %d, expected %d", ErrSizeMismatch, info.Size, in.Size)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:               uuid.NewString(),
		StorageURL:       info.URL,
		StorageID:        info.ID,
		OriginalFilename: in.Filename,
		ContentType:      in.ContentType,
		SizeBytes:        info.Size,
		Folder:           folder,
		Description:      opts.Description,
		Tags:             model.NormalizeTags(opts.Tags),
		UploadedAt:       now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if opts.OwnerID != "" {
		owner := opts.OwnerID
		doc.OwnerID = &owner
	}
	doc.ApplyCategory()

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.compensate(ctx, info, err)
		return nil, fmt.Errorf("record metadata: %w", err)
	}

	s.stats.Invalidate(statsCacheKey)
	return &UploadResult{Object: info, Document: stored}, nil
}

// compensate deletes a committed object whose metadata write failed. If the
// delete itself fails the object is orphaned; log it with enough detail for a
// reconciliation sweep.
func (s *documentService) compensate(ctx context.Context, info storage.ObjectInfo, cause error) {
	// The original context may already be canceled or past its deadline.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, delErr := s.store.Delete(ctx, info.ID); delErr != nil {
		logEvent(map[string]any{
			"component":  "upload",
			"event":      "orphan_object",
			"level":      "error",
			"storage_id": info.ID,
			"url":        info.URL,
			"cause":      cause.Error(),
			"error":      delErr.Error(),
		})
	}
}

func (s *documentService) UploadBatch(ctx context.Context, files []UploadInput, opts BatchOptions) ([]UploadResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.maxBatchFiles {
		return nil, fmt.Errorf("%w: %d files (max %d)", ErrTooManyFiles, len(files), s.maxBatchFiles)
	}

	// Validate every file up front so an oversized or disallowed payload
	// rejects the batch before a single remote call is issued.
	for i, f := range files {
		if err := s.validate(f, s.optionsFor(opts, i)); err != nil {
			return nil, fmt.Errorf("file %d: %w", i+1, err)
		}
	}

	results := make([]UploadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i := range files {
		i := i // pre-Go-1.22 loop scoping: keep per-iteration capture
		g.Go(func() error {
			res, err := s.uploadCommitted(gctx, files[i], s.optionsFor(opts, i))
			if err != nil {
				return fmt.Errorf("file %d: %w", i+1, err)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.rollbackBatch(ctx, results)
		return nil, err
	}
	return results, nil
}

// optionsFor picks the per-index description and tags for a batch entry.
func (s *documentService) optionsFor(opts BatchOptions, i int) UploadOptions {
	out := UploadOptions{Folder: opts.Folder, OwnerID: opts.OwnerID}
	if i < len(opts.Descriptions) {
		out.Description = opts.Descriptions[i]
	}
	if i < len(opts.Tags) {
		out.Tags = opts.Tags[i]
	}
	return out
}

// rollbackBatch undoes sibling uploads that completed before the batch failed:
// their records are archived and their objects deleted, best effort.
func (s *documentService) rollbackBatch(ctx context.Context, results []UploadResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	for _, res := range results {
		if res.Document == nil {
			continue
		}
		if _, err := s.repo.Archive(ctx, res.Document.StorageID); err != nil {
			logEvent(map[string]any{
				"component":  "upload",
				"event":      "batch_rollback_archive_failed",
				"level":      "error",
				"storage_id": res.Document.StorageID,
				"error":      err.Error(),
			})
		}
		if _, err := s.store.Delete(ctx, res.Document.StorageID); err != nil {
			logEvent(map[string]any{
				"component":  "upload",
				"event":      "orphan_object",
				"level":      "error",
				"storage_id": res.Document.StorageID,
				"url":        res.Document.StorageURL,
				"cause":      "batch rollback",
				"error":      err.Error(),
			})
		}
	}
}

func (s *documentService) Delete(ctx context.Context, storageID string) (DeleteOutcome, error) {
	var out DeleteOutcome
	if storageID == "" {
		return out, ErrIDRequired
	}

	rec, err := s.repo.FindByStorageID(ctx, storageID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return out, err
	}

	// Archive before touching the remote store: the soft delete must not be
	// blocked by remote inconsistency (the object may already be gone).
	if rec != nil {
		archived, err := s.repo.Archive(ctx, storageID)
		if err != nil {
			return out, err
		}
		out.DocumentArchived = archived
		s.stats.Invalidate(statsCacheKey)
	}

	found, err := s.store.Delete(ctx, storageID)
	out.RemoteFound = found
	if err != nil {
		return out, fmt.Errorf("remote delete: %w", err)
	}

	if !found && rec == nil {
		return out, ErrNotFound
	}
	return out, nil
}

// List returns filtered, paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, f repository.Filter, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

// Search matches a case-insensitive substring across the catalog's text fields.
func (s *documentService) Search(ctx context.Context, text string, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.Search(ctx, text, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Access stamping is best effort; a failed touch must not fail the read.
	if err := s.repo.TouchAccess(ctx, doc.ID); err != nil {
		logEvent(map[string]any{
			"component": "catalog",
			"event":     "touch_access_failed",
			"level":     "warn",
			"id":        doc.ID,
			"error":     err.Error(),
		})
	}
	return doc, nil
}

func (s *documentService) GetByStorageID(ctx context.Context, storageID string) (*model.Document, error) {
	if storageID == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByStorageID(ctx, storageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Stats(ctx context.Context) (map[model.Category]int, error) {
	return s.stats.GetOrLoad(ctx, statsCacheKey, s.statsTTL, func(ctx context.Context) (map[model.Category]int, error) {
		return s.repo.CountByCategory(ctx)
	})
}

func logEvent(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal log event: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
