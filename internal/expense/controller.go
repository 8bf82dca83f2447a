package expense

import (
	"context"
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
	"comptoir/internal/upload"
)

const maxReceiptBytes = 10 << 20

type Repository interface {
	List(ctx context.Context) ([]domain.Expense, error)
	FindByID(ctx context.Context, id int) (*domain.Expense, error)
	Insert(ctx context.Context, e domain.Expense) (int, error)
	Delete(ctx context.Context, id int) error
}

type ExpenseResponse struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Attachment  string          `json:"attachment,omitempty"`
}

type Controller struct {
	repo    Repository
	uploads *upload.Store
	logger  *zap.Logger
}

func NewController(repo Repository, uploads *upload.Store, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, uploads: uploads, logger: logger}
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := c.repo.List(r.Context())
	if err != nil {
		c.fail(w, "listing expenses", err)
		return
	}

	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expenseResponse(e))
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
		c.fail(w, "getting expense", err)
		return
	}
	httpx.JSON(w, http.StatusOK, expenseResponse(*e))
}

// Create reads a multipart form so a receipt can be uploaded together
// with the expense fields. The file part is optional.
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		httpx.Error(w, "", apperrors.NewValidationError("invalid form",
			apperrors.ValidationDetail{Field: "body", Message: "a multipart form is required"}))
		return
	}

	e, ok := c.parseForm(w, r)
	if !ok {
		return
	}

	var storedName string
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		storedName, err = c.uploads.Save(file, header)
		if err != nil {
			c.fail(w, "storing receipt", err)
			return
		}
		e.Attachment = &domain.FileRef{Name: header.Filename, StoredName: storedName}
	}

	id, err := c.repo.Insert(r.Context(), e)
	if err != nil {
		if storedName != "" {
			if rmErr := c.uploads.Remove(storedName); rmErr != nil {
				c.logger.Warn("orphaned receipt left on disk",
					zap.String("storedName", storedName), zap.Error(rmErr))
			}
		}
		c.fail(w, "creating expense", err)
		return
	}
	e.ID = id
	httpx.JSON(w, http.StatusCreated, expenseResponse(e))
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.parseID(w, r)
	if !ok {
		return
	}

	e, err := c.repo.FindByID(r.Context(), id)
	if err != nil {
		c.fail(w, "getting expense", err)
		return
	}
	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.fail(w, "deleting expense", err)
		return
	}
	if e.Attachment != nil {
		if err := c.uploads.Remove(e.Attachment.StoredName); err != nil {
			c.logger.Warn("orphaned receipt left on disk",
				zap.String("storedName", e.Attachment.StoredName), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) parseForm(w http.ResponseWriter, r *http.Request) (domain.Expense, bool) {
	var details []apperrors.ValidationDetail

	description := strings.TrimSpace(r.FormValue("description"))
	if description == "" {
		details = append(details, apperrors.ValidationDetail{Field: "description", Message: "description is required"})
	}

	amount, err := decimal.NewFromString(r.FormValue("amount"))
	if err != nil || !amount.IsPositive() {
		details = append(details, apperrors.ValidationDetail{Field: "amount", Message: "amount must be a positive number"})
	}

	date := time.Now()
	if raw := r.FormValue("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "date", Message: "date must use the 2006-01-02 format"})
		}
	}

	if len(details) > 0 {
		httpx.Error(w, "", apperrors.NewValidationError("invalid expense", details...))
		return domain.Expense{}, false
	}

	return domain.Expense{
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    strings.TrimSpace(r.FormValue("category")),
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

func expenseResponse(e domain.Expense) ExpenseResponse {
	out := ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		Category:    e.Category,
	}
	if e.Attachment != nil {
		out.Attachment = e.Attachment.Name
	}
	return out
}
