package repository

import (
	"context"
	"database/sql"
	"fmt"

	"comptoir/internal/domain"
	apperrors "comptoir/internal/errors"
	infmysql "comptoir/internal/infrastructure/mysql"
	"comptoir/internal/storage"
)

const documentColumns = `id, docType, customerId, date, status, paymentType,
	subtotal, discountPercent, discountAmount, useVat, vatRate, vatAmount,
	stampDuty, total, createdAt`

type MySQLDocumentRepository struct {
	db *sql.DB
}

func NewMySQLDocumentRepository(db *sql.DB) *MySQLDocumentRepository {
	return &MySQLDocumentRepository{db: db}
}

func (r *MySQLDocumentRepository) Insert(ctx context.Context, tx storage.Tx, doc domain.Document) (int, error) {
	query := `INSERT INTO documents
		(docType, customerId, date, status, paymentType, subtotal, discountPercent,
		 discountAmount, useVat, vatRate, vatAmount, stampDuty, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := storage.SQLTx(tx).ExecContext(ctx, query,
		string(doc.Type), doc.CustomerID, doc.Date, doc.Status, string(doc.PaymentType),
		doc.Subtotal, doc.DiscountPercent, doc.DiscountAmount, doc.UseVAT,
		doc.VATRate, doc.VATAmount, doc.StampDuty, doc.Total,
	)
	if err != nil {
		return 0, infmysql.TranslateError("inserting document", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

func (r *MySQLDocumentRepository) FindByID(ctx context.Context, id int) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *MySQLDocumentRepository) FindByIDForUpdate(ctx context.Context, tx storage.Tx, id int) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ? FOR UPDATE`
	return r.scanOne(storage.SQLTx(tx).QueryRowContext(ctx, query, id), id)
}

func (r *MySQLDocumentRepository) List(ctx context.Context, docType domain.DocType) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE docType = ? ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, string(docType))
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	return docs, nil
}

func (r *MySQLDocumentRepository) UpdateHeader(ctx context.Context, tx storage.Tx, doc domain.Document) error {
	query := `UPDATE documents SET customerId = ?, date = ?, status = ?, paymentType = ?,
		subtotal = ?, discountPercent = ?, discountAmount = ?, useVat = ?, vatRate = ?,
		vatAmount = ?, stampDuty = ?, total = ?
		WHERE id = ?`

	result, err := storage.SQLTx(tx).ExecContext(ctx, query,
		doc.CustomerID, doc.Date, doc.Status, string(doc.PaymentType),
		doc.Subtotal, doc.DiscountPercent, doc.DiscountAmount, doc.UseVAT,
		doc.VATRate, doc.VATAmount, doc.StampDuty, doc.Total, doc.ID,
	)
	if err != nil {
		return infmysql.TranslateError("updating document header", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("document with id %d not found", doc.ID))
	}

	return nil
}

func (r *MySQLDocumentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE documents SET status = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("document with id %d not found", id))
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MySQLDocumentRepository) scanOne(row rowScanner, id int) (*domain.Document, error) {
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("document with id %d not found", id))
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var doc domain.Document
	var docType, paymentType string
	err := row.Scan(
		&doc.ID, &docType, &doc.CustomerID, &doc.Date, &doc.Status, &paymentType,
		&doc.Subtotal, &doc.DiscountPercent, &doc.DiscountAmount, &doc.UseVAT,
		&doc.VATRate, &doc.VATAmount, &doc.StampDuty, &doc.Total, &doc.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return domain.Document{}, err
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("scanning document row: %w", err)
	}
	doc.Type = domain.DocType(docType)
	doc.PaymentType = domain.PaymentType(paymentType)
	return doc, nil
}
