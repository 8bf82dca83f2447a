package expense

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

const expenseColumns = "id, description, amount, date, category, attachmentName, attachmentStored"

func (r *MySQLRepository) List(ctx context.Context) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+expenseColumns+" FROM expenses ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("expense %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("finding expense %d: %w", id, err)
	}
	return e, nil
}

func (r *MySQLRepository) Insert(ctx context.Context, e domain.Expense) (int, error) {
	var attachmentName, attachmentStored any
	if e.Attachment != nil {
		attachmentName = e.Attachment.Name
		attachmentStored = e.Attachment.StoredName
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO expenses (description, amount, date, category, attachmentName, attachmentStored) VALUES (?, ?, ?, ?, ?, ?)",
		e.Description, e.Amount, e.Date, e.Category, attachmentName, attachmentStored)
	if err != nil {
		return 0, fmt.Errorf("inserting expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading expense insert id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading expense delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("expense %d not found", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		e              domain.Expense
		name, storedAs sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.Category, &name, &storedAs); err != nil {
		return nil, err
	}
	if name.Valid && storedAs.Valid {
		e.Attachment = &domain.FileRef{Name: name.String, StoredName: storedAs.String}
	}
	return &e, nil
}
