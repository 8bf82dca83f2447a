package supplier

import (
	"context"
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
)

type Repository interface {
	List(ctx context.Context) ([]domain.Supplier, error)
	FindByID(ctx context.Context, id int) (*domain.Supplier, error)
	Insert(ctx context.Context, s domain.Supplier) (int, error)
	Update(ctx context.Context, s domain.Supplier) error
	Delete(ctx context.Context, id int) error
}

type SupplierRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	FiscalNumber string `json:"fiscalNumber"`
}

type SupplierResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	FiscalNumber string `json:"fiscalNumber,omitempty"`
}

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := c.repo.List(r.Context())
	if err != nil {
		c.fail(w, "listing suppliers", err)
		return
	}

	out := make([]SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, supplierResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	s, err := c.repo.FindByID(r.Context(), id)
	if err != nil {
		c.fail(w, "getting supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplierResponse(*s))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := c.decodeBody(w, r)
	if !ok {
		return
	}

	id, err := c.repo.Insert(r.Context(), s)
	if err != nil {
		c.fail(w, "creating supplier", err)
		return
	}
	s.ID = id
	httpx.JSON(w, http.StatusCreated, supplierResponse(s))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	s, ok := c.decodeBody(w, r)
	if !ok {
		return
	}
	s.ID = id

	if err := c.repo.Update(r.Context(), s); err != nil {
		c.fail(w, "updating supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, supplierResponse(s))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.fail(w, "deleting supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decodeBody(w http.ResponseWriter, r *http.Request) (domain.Supplier, bool) {
	var req SupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return domain.Supplier{}, false
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.Error(w, "", apperrors.NewValidationError("invalid supplier",
			apperrors.ValidationDetail{Field: "name", Message: "name is required"}))
		return domain.Supplier{}, false
	}
	return domain.Supplier{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		FiscalNumber: req.FiscalNumber,
	}, true
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

func supplierResponse(s domain.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
		FiscalNumber: s.FiscalNumber,
	}
}
