package personnel

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Employee, error)
	FindByID(ctx context.Context, id int) (*domain.Employee, error)
	Insert(ctx context.Context, e domain.Employee) (int, error)
	Update(ctx context.Context, e domain.Employee) error
	Delete(ctx context.Context, id int) error
}

type EmployeeRequest struct {
	Name    string          `json:"name"`
	Role    string          `json:"role"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Salary  decimal.Decimal `json:"salary"`
	HiredAt time.Time       `json:"hiredAt"`
}

type EmployeeResponse struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Role    string          `json:"role"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Salary  decimal.Decimal `json:"salary"`
	HiredAt time.Time       `json:"hiredAt"`
}

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	employees, err := c.repo.List(r.Context())
	if err != nil {
		c.fail(w, "listing personnel", err)
		return
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeeResponse(e))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	e, err := c.repo.FindByID(r.Context(), id)
	if err != nil {
		c.fail(w, "getting employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, employeeResponse(*e))
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := c.decodeBody(w, r)
	if !ok {
		return
	}

	id, err := c.repo.Insert(r.Context(), e)
	if err != nil {
		c.fail(w, "creating employee", err)
		return
	}
	e.ID = id
	httpx.JSON(w, http.StatusCreated, employeeResponse(e))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}
	e, ok := c.decodeBody(w, r)
	if !ok {
		return
	}
	e.ID = id

	if err := c.repo.Update(r.Context(), e); err != nil {
		c.fail(w, "updating employee", err)
		return
	}
	httpx.JSON(w, http.StatusOK, employeeResponse(e))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.fail(w, "deleting employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decodeBody(w http.ResponseWriter, r *http.Request) (domain.Employee, bool) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"}))
		return domain.Employee{}, false
	}

	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.Salary.IsNegative() {
		details = append(details, apperrors.ValidationDetail{Field: "salary", Message: "salary must not be negative"})
	}
	if len(details) > 0 {
		httpx.Error(w, "", apperrors.NewValidationError("invalid employee", details...))
		return domain.Employee{}, false
	}

	hiredAt := req.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now()
	}
	return domain.Employee{
		Name:    req.Name,
		Role:    req.Role,
		Email:   req.Email,
		Phone:   req.Phone,
		Salary:  req.Salary,
		HiredAt: hiredAt,
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

func employeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:      e.ID,
		Name:    e.Name,
		Role:    e.Role,
		Email:   e.Email,
		Phone:   e.Phone,
		Salary:  e.Salary,
		HiredAt: e.HiredAt,
	}
}
