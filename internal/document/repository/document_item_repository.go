package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	infmysql "comptoir/internal/infrastructure/mysql"
	"comptoir/internal/storage"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) Insert(ctx context.Context, tx storage.Tx, item domain.DocumentItem) (int, error) {
	query := `INSERT INTO document_items (documentId, productId, serviceId, name, quantity, price)
		VALUES (?, ?, ?, ?, ?, ?)`

	var productID, serviceID *int
	switch item.Ref.Kind {
	case domain.LineProduct:
		productID = &item.Ref.ID
	case domain.LineService:
		serviceID = &item.Ref.ID
	}

	result, err := storage.SQLTx(tx).ExecContext(ctx, query,
		item.DocumentID, productID, serviceID, item.Name, item.Quantity, item.Price,
	)
	if err != nil {
		return 0, infmysql.TranslateError("inserting document item", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

func (r *MySQLItemRepository) FindByDocumentID(ctx context.Context, documentID int) ([]domain.DocumentItem, error) {
	return r.findByDocumentID(ctx, r.db.QueryContext, documentID)
}

func (r *MySQLItemRepository) FindByDocumentIDInTx(ctx context.Context, tx storage.Tx, documentID int) ([]domain.DocumentItem, error) {
	return r.findByDocumentID(ctx, storage.SQLTx(tx).QueryContext, documentID)
}

type queryFunc func(ctx context.Context, query string, args ...any) (*sql.Rows, error)

func (r *MySQLItemRepository) findByDocumentID(ctx context.Context, query queryFunc, documentID int) ([]domain.DocumentItem, error) {
	const q = `SELECT id, documentId, productId, serviceId, name, quantity, price
		FROM document_items WHERE documentId = ? ORDER BY id`

	rows, err := query(ctx, q, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying document items: %w", err)
	}
	defer rows.Close()

	var items []domain.DocumentItem
	for rows.Next() {
		var item domain.DocumentItem
		var productID, serviceID sql.NullInt64
		err := rows.Scan(&item.ID, &item.DocumentID, &productID, &serviceID,
			&item.Name, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("scanning document item row: %w", err)
		}
		switch {
		case productID.Valid:
			item.Ref = domain.ProductRef(int(productID.Int64))
		case serviceID.Valid:
			item.Ref = domain.ServiceRef(int(serviceID.Int64))
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLItemRepository) DeleteByDocumentID(ctx context.Context, tx storage.Tx, documentID int) error {
	query := `DELETE FROM document_items WHERE documentId = ?`

	if _, err := storage.SQLTx(tx).ExecContext(ctx, query, documentID); err != nil {
		return infmysql.TranslateError("deleting document items", err)
	}
	return nil
}
