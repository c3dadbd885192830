package handler

import (
	"context"
	"database/sql"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/model"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/repository"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/service"
)

// OwnerHeader carries the authenticated caller's id, when an upstream proxy
// supplies one. Uploads without it are anonymous.
const OwnerHeader = "X-User-ID"

// uploadData is the per-file success payload: the remote object's attributes
// plus the persisted record. Index is 1-based and set only for batch uploads.
type uploadData struct {
	Index    int             `json:"index,omitempty"`
	URL      string          `json:"url"`
	PublicID string          `json:"public_id"`
	Format   string          `json:"format,omitempty"`
	Size     int64           `json:"size"`
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
	Document *model.Document `json:"document"`
}

func toUploadData(res service.UploadResult, index int) uploadData {
	return uploadData{
		Index:    index,
		URL:      res.Object.URL,
		PublicID: res.Object.ID,
		Format:   res.Object.Format,
		Size:     res.Object.Size,
		Width:    res.Object.Width,
		Height:   res.Object.Height,
		Document: res.Document,
	}
}

// openInput turns a multipart file header into a service upload input.
// The returned closer must be closed by the caller.
func openInput(fh *multipart.FileHeader) (service.UploadInput, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return service.UploadInput{}, nil, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return service.UploadInput{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}, f, nil
}

// UploadSingle handles POST /upload/single: multipart field "file" plus
// optional folder, description and tags form fields.
func UploadSingle(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "file is required", "", false)
		}

		in, f, err := openInput(fh)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file", "", false)
		}
		defer f.Close()

		opts := service.UploadOptions{
			Folder:      c.FormValue("folder"),
			Description: c.FormValue("description"),
			OwnerID:     c.Get(OwnerHeader),
		}
		// tags may be a repeated field, a single comma-joined string, or both;
		// the service normalizes either shape.
		if form, err := c.MultipartForm(); err == nil {
			opts.Tags = form.Value["tags"]
		}

		res, err := docSvc.Upload(c.UserContext(), in, opts)
		if err != nil {
			return respondError(c, err, expose)
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "file uploaded",
			"data":    toUploadData(*res, 0),
		})
	}
}

// UploadMultiple handles POST /upload/multiple: multipart field "files"
// (repeated) plus optional parallel descriptions/tags fields.
func UploadMultiple(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "multipart form is required", "", false)
		}

		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "files are required", "", false)
		}

		files := make([]service.UploadInput, 0, len(headers))
		closers := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range closers {
				f.Close()
			}
		}()
		for _, fh := range headers {
			in, f, err := openInput(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file", "", false)
			}
			closers = append(closers, f)
			files = append(files, in)
		}

		opts := service.BatchOptions{
			Folder:       c.FormValue("folder"),
			Descriptions: form.Value["descriptions"],
			OwnerID:      c.Get(OwnerHeader),
		}
		for _, raw := range form.Value["tags"] {
			opts.Tags = append(opts.Tags, []string{raw})
		}

		results, err := docSvc.UploadBatch(c.UserContext(), files, opts)
		if err != nil {
			return respondError(c, err, expose)
		}

		data := make([]uploadData, len(results))
		for i, res := range results {
			data[i] = toUploadData(res, i+1)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "files uploaded",
			"count":   len(data),
			"data":    data,
		})
	}
}

// DeleteUpload handles DELETE /upload/<publicId>. The public id may contain
// slashes, so the route uses a wildcard parameter.
func DeleteUpload(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		publicID := c.Params("*")

		out, err := docSvc.Delete(c.UserContext(), publicID)
		if err != nil {
			return respondError(c, err, expose)
		}

		return c.JSON(fiber.Map{
			"success":          true,
			"message":          "document deleted",
			"documentArchived": out.DocumentArchived,
		})
	}
}

// ListDocuments handles GET /documents with filter and pagination query params.
func ListDocuments(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit", "", false)
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset", "", false)
		}

		f := repository.Filter{
			Folder:          c.Query("folder"),
			Category:        model.Category(c.Query("category")),
			Tag:             c.Query("tag"),
			OwnerID:         c.Query("owner"),
			IncludeArchived: c.QueryBool("include_archived", false),
		}

		res, err := docSvc.List(c.UserContext(), f, limit, offset)
		if err != nil {
			return respondError(c, err, expose)
		}
		return c.JSON(res)
	}
}

// SearchDocuments handles GET /documents/search?q=.
func SearchDocuments(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return writeError(c, fiber.StatusBadRequest, "query is required", "", false)
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid limit", "", false)
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid offset", "", false)
		}

		res, err := docSvc.Search(c.UserContext(), q, limit, offset)
		if err != nil {
			return respondError(c, err, expose)
		}
		return c.JSON(res)
	}
}

// GetDocument handles GET /documents/:id.
func GetDocument(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "invalid id format", "", false)
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return respondError(c, err, expose)
		}
		return c.JSON(doc)
	}
}

// GetDocumentByStorageID handles GET /documents/storage/<publicId>.
func GetDocumentByStorageID(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := docSvc.GetByStorageID(c.UserContext(), c.Params("*"))
		if err != nil {
			return respondError(c, err, expose)
		}
		return c.JSON(doc)
	}
}

// StatsDocuments handles GET /documents/stats: active counts per category.
func StatsDocuments(docSvc service.DocumentService, expose bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := docSvc.Stats(c.UserContext())
		if err != nil {
			return respondError(c, err, expose)
		}
		return c.JSON(fiber.Map{"success": true, "data": counts})
	}
}

// HealthCheck reports readiness: checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable", "", false)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// expose controls whether 5xx responses include the underlying error detail.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, expose bool) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/upload/single", UploadSingle(docSvc, expose))
	app.Post("/upload/multiple", UploadMultiple(docSvc, expose))
	app.Delete("/upload/*", DeleteUpload(docSvc, expose))

	// Fixed segments must be registered before the :id route.
	app.Get("/documents/search", SearchDocuments(docSvc, expose))
	app.Get("/documents/stats", StatsDocuments(docSvc, expose))
	app.Get("/documents/storage/*", GetDocumentByStorageID(docSvc, expose))
	app.Get("/documents", ListDocuments(docSvc, expose))
	app.Get("/documents/:id", GetDocument(docSvc, expose))
}
