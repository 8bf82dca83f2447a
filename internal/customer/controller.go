package customer

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/httpx"
	"comptoir/internal/upload"
)

// maxAttachmentBytes caps a single uploaded file at 10 MiB.
const maxAttachmentBytes = 10 << 20

type Controller struct {
	service *Service
	uploads *upload.Store
	logger  *zap.Logger
}

func NewController(service *Service, uploads *upload.Store, logger *zap.Logger) *Controller {
	return &Controller{service: service, uploads: uploads, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	customers, err := c.service.List(r.Context())
	if err != nil {
		c.fail(w, "listing customers", err)
		return
	}

	out := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, customerResponse(cust))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	cust, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.fail(w, "getting customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customerResponse(*cust))
}

// Create accepts either a JSON body or a multipart form. The multipart
// variant carries the customer fields plus zero or more "files" parts
// that become attachments of the new customer.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		c.createMultipart(w, r)
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return
	}

	created, err := c.service.Create(r.Context(), req.toDomain())
	if err != nil {
		c.fail(w, "creating customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customerResponse(*created))
}

func (c *Controller) createMultipart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid form",
			apperrors.ValidationDetail{Field: "body", Message: "a multipart form is required"}))
		return
	}

	created, err := c.service.Create(r.Context(), domain.Customer{
		Name:         r.FormValue("name"),
		Category:     domain.CustomerCategory(r.FormValue("category")),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		Address:      r.FormValue("address"),
		FiscalNumber: r.FormValue("fiscalNumber"),
	})
	if err != nil {
		c.fail(w, "creating customer", err)
		return
	}

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			c.fail(w, "reading attachment", err)
			return
		}
		storedName, err := c.uploads.Save(file, header)
		file.Close()
		if err != nil {
			c.fail(w, "storing attachment", err)
			return
		}
		ref, err := c.service.AttachFile(r.Context(), created.ID, domain.FileRef{
			Name:       header.Filename,
			StoredName: storedName,
		})
		if err != nil {
			if rmErr := c.uploads.Remove(storedName); rmErr != nil {
				c.logger.Warn("orphaned attachment left on disk",
					zap.String("storedName", storedName), zap.Error(rmErr))
			}
			c.fail(w, "attaching file", err)
			return
		}
		created.Attachments = append(created.Attachments, *ref)
	}

	httpx.JSON(w, http.StatusCreated, customerResponse(*created))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return
	}

	cust := req.toDomain()
	cust.ID = id
	updated, err := c.service.Update(r.Context(), cust)
	if err != nil {
		c.fail(w, "updating customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customerResponse(*updated))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.fail(w, "deleting customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadAttachment accepts a multipart form with a single "file" part
// and links the stored copy to the customer. The stored file is
// removed again if the database insert fails.
func (c *Controller) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentBytes); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid upload",
			apperrors.ValidationDetail{Field: "file", Message: "a multipart form with a file part is required"}))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid upload",
			apperrors.ValidationDetail{Field: "file", Message: "a file part is required"}))
		return
	}
	defer file.Close()

	storedName, err := c.uploads.Save(file, header)
	if err != nil {
		c.fail(w, "storing attachment", err)
		return
	}

	ref, err := c.service.AttachFile(r.Context(), id, domain.FileRef{
		Name:       header.Filename,
		StoredName: storedName,
	})
	if err != nil {
		if rmErr := c.uploads.Remove(storedName); rmErr != nil {
			c.logger.Warn("orphaned attachment left on disk",
				zap.String("storedName", storedName), zap.Error(rmErr))
		}
		c.fail(w, "attaching file", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, attachmentResponse(*ref))
}

func (c *Controller) parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		httpx.Error(w, "", apperrors.NewValidationError("invalid id",
			apperrors.ValidationDetail{Field: "id", Message: "id must be a positive integer"}))
		return 0, false
	}
	return id, true
}

func (c *Controller) fail(w http.ResponseWriter, op string, err error) {
	traceID := uuid.New().String()
	if _, ok := apperrors.IsValidationError(err); !ok {
		if _, nf := apperrors.IsNotFoundError(err); !nf {
			c.logger.Error(op+" failed", zap.String("traceId", traceID), zap.Error(err))
		}
	}
	httpx.Error(w, traceID, err)
}
