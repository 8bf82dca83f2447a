package customer

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	"comptoir/internal/storage"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const customerColumns = "id, name, category, email, phone, address, COALESCE(fiscalNumber, '')"

func (r *MySQLRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Category, &c.Email, &c.Phone, &c.Address, &c.FiscalNumber); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRowContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = ?", id,
	).Scan(&c.ID, &c.Name, &c.Category, &c.Email, &c.Phone, &c.Address, &c.FiscalNumber)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("customer %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("finding customer %d: %w", id, err)
	}

	attachments, err := r.findAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Attachments = attachments
	return &c, nil
}

// ExistsInTx checks for the customer inside an open transaction so a
// document insert sees a consistent view of its referenced rows.
func (r *MySQLRepository) ExistsInTx(ctx context.Context, tx storage.Tx, id int) error {
	var found int
	err := storage.SQLTx(tx).QueryRowContext(ctx,
		"SELECT 1 FROM customers WHERE id = ?", id,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("customer %d not found", id))
	}
	if err != nil {
		return fmt.Errorf("checking customer %d: %w", id, err)
	}
	return nil
}

func (r *MySQLRepository) Insert(ctx context.Context, c domain.Customer) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO customers (name, category, email, phone, address, fiscalNumber) VALUES (?, ?, ?, ?, ?, ?)",
		c.Name, c.Category, c.Email, c.Phone, c.Address, nullable(c.FiscalNumber))
	if err != nil {
		return 0, fmt.Errorf("inserting customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading customer insert id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, c domain.Customer) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE customers SET name = ?, category = ?, email = ?, phone = ?, address = ?, fiscalNumber = ? WHERE id = ?",
		c.Name, c.Category, c.Email, c.Phone, c.Address, nullable(c.FiscalNumber), c.ID)
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", c.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading customer update result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("customer %d not found", c.ID))
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading customer delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("customer %d not found", id))
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM customer_attachments WHERE customerId = ?", id); err != nil {
		return fmt.Errorf("deleting attachments of customer %d: %w", id, err)
	}
	return nil
}

func (r *MySQLRepository) InsertAttachment(ctx context.Context, customerID int, ref domain.FileRef) (int, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO customer_attachments (customerId, name, storedName) VALUES (?, ?, ?)",
		customerID, ref.Name, ref.StoredName)
	if err != nil {
		return 0, fmt.Errorf("inserting attachment for customer %d: %w", customerID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading attachment insert id: %w", err)
	}
	return int(id), nil
}

func (r *MySQLRepository) findAttachments(ctx context.Context, customerID int) ([]domain.FileRef, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, storedName, uploadedAt FROM customer_attachments WHERE customerId = ? ORDER BY id",
		customerID)
	if err != nil {
		return nil, fmt.Errorf("listing attachments of customer %d: %w", customerID, err)
	}
	defer rows.Close()

	var refs []domain.FileRef
	for rows.Next() {
		var ref domain.FileRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.StoredName, &ref.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
