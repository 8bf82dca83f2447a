package storage

import (
	"context"
	"database/sql"
)

// Tx is the subset of *sql.Tx the service layer needs. Tests substitute
// a fake so transaction control flow can run without a database.
type Tx interface {
	Commit() error
	Rollback() error
}

// TxManager begins transactions. *sql.DB satisfies it through SQLTxManager.
type TxManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error)
}

type SQLTxManager struct {
	db *sql.DB
}

func NewSQLTxManager(db *sql.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

func (m *SQLTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return m.db.BeginTx(ctx, opts)
}

// SQLTx unwraps a Tx back to the concrete *sql.Tx for repository use.
func SQLTx(tx Tx) *sql.Tx {
	sqlTx, _ := tx.(*sql.Tx)
	return sqlTx
}
