package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		address VARCHAR(512) NOT NULL,
		fiscalNumber VARCHAR(64) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customer_attachments (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customerId INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		storedName VARCHAR(255) NOT NULL,
		uploadedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_customer_attachments_customer (customerId)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(12,3) NOT NULL,
		stock INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price DECIMAL(12,3) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		address VARCHAR(512) NOT NULL,
		fiscalNumber VARCHAR(64) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS personnel (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(128) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL,
		salary DECIMAL(12,3) NOT NULL DEFAULT 0,
		hiredAt DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		description VARCHAR(512) NOT NULL,
		amount DECIMAL(12,3) NOT NULL,
		date DATETIME NOT NULL,
		category VARCHAR(128) NOT NULL,
		attachmentName VARCHAR(255) NULL,
		attachmentStored VARCHAR(255) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		docType VARCHAR(16) NOT NULL,
		customerId INT NOT NULL,
		date DATETIME NOT NULL,
		status VARCHAR(16) NOT NULL,
		paymentType VARCHAR(16) NOT NULL,
		subtotal DECIMAL(12,3) NOT NULL,
		discountPercent DECIMAL(5,2) NOT NULL DEFAULT 0,
		discountAmount DECIMAL(12,3) NOT NULL DEFAULT 0,
		useVat TINYINT(1) NOT NULL DEFAULT 1,
		vatRate DECIMAL(5,2) NOT NULL DEFAULT 19,
		vatAmount DECIMAL(12,3) NOT NULL DEFAULT 0,
		stampDuty DECIMAL(12,3) NOT NULL DEFAULT 0,
		total DECIMAL(12,3) NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_documents_type (docType),
		KEY idx_documents_customer (customerId)
	)`,
	`CREATE TABLE IF NOT EXISTS document_items (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		documentId INT NOT NULL,
		productId INT NULL,
		serviceId INT NULL,
		name VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		price DECIMAL(12,3) NOT NULL,
		KEY idx_document_items_document (documentId)
	)`,
}

// EnsureSchema creates any missing tables. Statements are idempotent so
// the call is safe on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}
