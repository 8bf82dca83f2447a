package supplier

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const supplierColumns = "id, name, email, phone, address, COALESCE(fiscalNumber, '')"

func (r *MySQLRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+supplierColumns+" FROM suppliers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		var s domain.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.FiscalNumber); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Supplier, error) {
	var s domain.Supplier
	err := r.db.QueryRowContext(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = ?", id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.FiscalNumber)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("supplier %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("finding supplier %d: %w", id, err)
	}
	return &s, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, s domain.Supplier) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO suppliers (name, email, phone, address, fiscalNumber) VALUES (?, ?, ?, ?, ?)",
		s.Name, s.Email, s.Phone, s.Address, nullable(s.FiscalNumber))
	if err != nil {
		return 0, fmt.Errorf("inserting supplier: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading supplier insert id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, s domain.Supplier) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE suppliers SET name = ?, email = ?, phone = ?, address = ?, fiscalNumber = ? WHERE id = ?",
		s.Name, s.Email, s.Phone, s.Address, nullable(s.FiscalNumber), s.ID)
	if err != nil {
		return fmt.Errorf("updating supplier %d: %w", s.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading supplier update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("supplier %d not found", s.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting supplier %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading supplier delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("supplier %d not found", id))
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
