package personnel

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

const employeeColumns = "id, name, role, email, phone, salary, hiredAt"

func (r *MySQLRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM personnel ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing personnel: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.Email, &e.Phone, &e.Salary, &e.HiredAt); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Employee, error) {
	var e domain.Employee
	err := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM personnel WHERE id = ?", id,
	).Scan(&e.ID, &e.Name, &e.Role, &e.Email, &e.Phone, &e.Salary, &e.HiredAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("finding employee %d: %w", id, err)
	}
	return &e, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, e domain.Employee) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO personnel (name, role, email, phone, salary, hiredAt) VALUES (?, ?, ?, ?, ?, ?)",
		e.Name, e.Role, e.Email, e.Phone, e.Salary, e.HiredAt)
	if err != nil {
		return 0, fmt.Errorf("inserting employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading employee insert id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, e domain.Employee) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE personnel SET name = ?, role = ?, email = ?, phone = ?, salary = ?, hiredAt = ? WHERE id = ?",
		e.Name, e.Role, e.Email, e.Phone, e.Salary, e.HiredAt, e.ID)
	if err != nil {
		return fmt.Errorf("updating employee %d: %w", e.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading employee update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("employee %d not found", e.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM personnel WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting employee %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading employee delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("employee %d not found", id))
	}
	return nil
}
