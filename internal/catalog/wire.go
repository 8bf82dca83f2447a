package catalog

import (
	"database/sql"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) (*Controller, *MySQLRepository) {
	repo := NewMySQLRepository(db)
	svc := NewService(repo)
	return NewController(svc, logger), repo
}
