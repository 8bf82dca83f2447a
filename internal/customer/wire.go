package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"comptoir/internal/upload"
)

func NewModule(db *sql.DB, uploads *upload.Store, logger *zap.Logger) (*Controller, *MySQLRepository) {
	repo := NewMySQLRepository(db)
	svc := NewService(repo)
	return NewController(svc, uploads, logger), repo
}
