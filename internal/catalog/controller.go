package catalog

import (
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

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{service: service, logger: logger}
}

func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.ListProducts(r.Context())
	if err != nil {
		c.fail(w, "listing products", err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid id",
			apperrors.ValidationDetail{Field: "id", Message: "id must be a positive integer"}))
		return
	}

	p, err := c.service.GetProduct(r.Context(), id)
	if err != nil {
		c.fail(w, "getting product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse(*p))
}

func (c *Controller) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return
	}

	created, err := c.service.CreateProduct(r.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		c.fail(w, "creating product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, productResponse(*created))
}

func (c *Controller) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := c.service.ListServices(r.Context())
	if err != nil {
		c.fail(w, "listing services", err)
		return
	}

	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, serviceResponse(s))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return
	}

	created, err := c.service.CreateService(r.Context(), domain.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		c.fail(w, "creating service", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, serviceResponse(*created))
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

func productResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}
}

func serviceResponse(s domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
	}
}
