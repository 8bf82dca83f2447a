package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/httpx"
)

type DocumentUseCase interface {
	Create(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error)
	Update(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error)
	Get(ctx context.Context, docType domain.DocType, id int) (*domain.Document, []domain.DocumentItem, error)
	List(ctx context.Context, docType domain.DocType) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, docType domain.DocType, id int, status string) error
}

type CustomerGetter interface {
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
}

type Renderer interface {
	Render(doc domain.Document, customer domain.Customer, items []domain.DocumentItem) ([]byte, error)
}

// Controller serves one document type; the router mounts an instance
// per type under its own path prefix.
type Controller struct {
	docType   domain.DocType
	useCase   DocumentUseCase
	customers CustomerGetter
	renderer  Renderer
	logger    *zap.Logger
}

func NewController(docType domain.DocType, useCase DocumentUseCase, customers CustomerGetter, renderer Renderer, logger *zap.Logger) *Controller {
	return &Controller{
		docType:   docType,
		useCase:   useCase,
		customers: customers,
		renderer:  renderer,
		logger:    logger,
	}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	docs, err := c.useCase.List(r.Context(), c.docType)
	if err != nil {
		c.fail(w, "listing documents", err)
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse(doc, nil))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	doc, items, err := c.useCase.Get(r.Context(), c.docType, id)
	if err != nil {
		c.fail(w, "getting document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, documentResponse(*doc, items))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	doc, items, ok := c.decodeBody(w, r)
	if !ok {
		return
	}

	created, err := c.useCase.Create(r.Context(), doc, items)
	if err != nil {
		c.fail(w, "creating document", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, documentResponse(*created, nil))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	doc, items, ok := c.decodeBody(w, r)
	if !ok {
		return
	}
	doc.ID = id

	updated, err := c.useCase.Update(r.Context(), doc, items)
	if err != nil {
		c.fail(w, "updating document", err)
		return
	}
	httpx.JSON(w, http.StatusOK, documentResponse(*updated, nil))
}

func (c *Controller) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return
	}

	if err := c.useCase.UpdateStatus(r.Context(), c.docType, id, req.Status); err != nil {
		c.fail(w, "updating document status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview renders the read-only print layout for an existing document.
func (c *Controller) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	doc, items, err := c.useCase.Get(r.Context(), c.docType, id)
	if err != nil {
		c.fail(w, "getting document for preview", err)
		return
	}

	customer, err := c.customers.FindByID(r.Context(), doc.CustomerID)
	if err != nil {
		c.fail(w, "resolving customer for preview", err)
		return
	}

	html, err := c.renderer.Render(*doc, *customer, items)
	if err != nil {
		c.fail(w, "rendering preview", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (c *Controller) decodeBody(w http.ResponseWriter, r *http.Request) (domain.Document, []domain.DocumentItem, bool) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return domain.Document{}, nil, false
	}

	header := req.header()
	if header == nil {
		httpx.Error(w, "", apperrors.NewValidationError("missing document header",
			apperrors.ValidationDetail{Field: "document", Message: "a document header is required"}))
		return domain.Document{}, nil, false
	}

	items := make([]domain.DocumentItem, 0, len(req.Items))
	for idx, payload := range req.Items {
		item, err := payload.toDomain(idx)
		if err != nil {
			httpx.Error(w, "", err)
			return domain.Document{}, nil, false
		}
		items = append(items, item)
	}

	return header.toDomain(c.docType), items, true
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
	if _, ok := apperrors.IsValidationError(err); ok {
		httpx.Error(w, traceID, err)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		httpx.Error(w, traceID, err)
		return
	}
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.logger.Warn(op+" rejected",
			zap.String("traceId", traceID),
			zap.String("docType", string(c.docType)),
			zap.Int("productId", ise.ProductID),
			zap.Int("requested", ise.Requested),
			zap.Int("available", ise.Available))
		httpx.Error(w, traceID, err)
		return
	}
	c.logger.Error(op+" failed",
		zap.String("traceId", traceID),
		zap.String("docType", string(c.docType)),
		zap.Error(err))
	httpx.Error(w, traceID, err)
}
