package personnel

import (
	"database/sql"

	"go.uber.org/zap"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	return NewController(NewMySQLRepository(db), logger)
}
