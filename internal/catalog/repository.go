package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	infmysql "comptoir/internal/infrastructure/mysql"
	"comptoir/internal/storage"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, description, price, stock FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) FindProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT id, name, description, price, stock FROM products WHERE id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &p, nil
}

func (r *MySQLRepository) InsertProduct(ctx context.Context, p domain.Product) (int, error) {
	query := `INSERT INTO products (name, description, price, stock) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Price, p.Stock)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

// FindProductForUpdate locks the product row for the remainder of the
// transaction, serializing concurrent stock adjustments.
func (r *MySQLRepository) FindProductForUpdate(ctx context.Context, tx storage.Tx, id int) (*domain.Product, error) {
	query := `SELECT id, name, description, price, stock FROM products WHERE id = ? FOR UPDATE`

	var p domain.Product
	err := storage.SQLTx(tx).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, infmysql.TranslateError("querying product for update", err)
	}

	return &p, nil
}

// AdjustStock applies a signed delta to the product's stock. Callers
// hold the row lock from FindProductForUpdate and have already checked
// the delta cannot drive stock negative.
func (r *MySQLRepository) AdjustStock(ctx context.Context, tx storage.Tx, id int, delta int) error {
	query := `UPDATE products SET stock = stock + ? WHERE id = ?`

	result, err := storage.SQLTx(tx).ExecContext(ctx, query, delta, id)
	if err != nil {
		return infmysql.TranslateError("adjusting product stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}

	return nil
}

func (r *MySQLRepository) ListServices(ctx context.Context) ([]domain.Service, error) {
	query := `SELECT id, name, description, price FROM services ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Price); err != nil {
			return nil, fmt.Errorf("scanning service row: %w", err)
		}
		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service rows: %w", err)
	}

	return services, nil
}

func (r *MySQLRepository) FindServiceByID(ctx context.Context, id int) (*domain.Service, error) {
	query := `SELECT id, name, description, price FROM services WHERE id = ?`

	var s domain.Service
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Description, &s.Price)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying service by id: %w", err)
	}

	return &s, nil
}

// FindServiceInTx resolves a service inside an open transaction so the
// document create sees a consistent catalog.
func (r *MySQLRepository) FindServiceInTx(ctx context.Context, tx storage.Tx, id int) (*domain.Service, error) {
	query := `SELECT id, name, description, price FROM services WHERE id = ?`

	var s domain.Service
	err := storage.SQLTx(tx).QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Description, &s.Price)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %d not found", id))
	}
	if err != nil {
		return nil, infmysql.TranslateError("querying service in tx", err)
	}

	return &s, nil
}

func (r *MySQLRepository) InsertService(ctx context.Context, s domain.Service) (int, error) {
	query := `INSERT INTO services (name, description, price) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.Name, s.Description, s.Price)
	if err != nil {
		return 0, fmt.Errorf("inserting service: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}
