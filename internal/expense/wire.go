package expense

import (
	"database/sql"

	"go.uber.org/zap"

	"comptoir/internal/upload"
)

func NewModule(db *sql.DB, uploads *upload.Store, logger *zap.Logger) *Controller {
	return NewController(NewMySQLRepository(db), uploads, logger)
}
