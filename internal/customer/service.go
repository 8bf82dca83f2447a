package customer

import (
	"context"
	"strings"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Customer, error)
	FindByID(ctx context.Context, id int) (*domain.Customer, error)
	Insert(ctx context.Context, c domain.Customer) (int, error)
	Update(ctx context.Context, c domain.Customer) error
	Delete(ctx context.Context, id int) error
	InsertAttachment(ctx context.Context, customerID int, ref domain.FileRef) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Customer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if err := validate(c); err != nil {
		return nil, err
	}
	id, err := s.repo.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (s *Service) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	if c.ID <= 0 {
		return nil, apperrors.NewValidationError("invalid customer",
			apperrors.ValidationDetail{Field: "id", Message: "a positive customer id is required"})
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, c.ID)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// AttachFile records an already-stored upload against the customer.
func (s *Service) AttachFile(ctx context.Context, customerID int, ref domain.FileRef) (*domain.FileRef, error) {
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	id, err := s.repo.InsertAttachment(ctx, customerID, ref)
	if err != nil {
		return nil, err
	}
	ref.ID = id
	return &ref, nil
}

func validate(c domain.Customer) error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(c.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if !c.Category.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "category", Message: "unknown customer category"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid customer", details...)
	}
	return nil
}
