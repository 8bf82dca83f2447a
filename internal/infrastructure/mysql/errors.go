package mysql

import (
	"fmt"

	"github.com/go-sql-driver/mysql"

	apperrors "comptoir/internal/errors"
)

const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// TranslateError maps driver-level serialization failures to a
// retryable ConflictError and wraps everything else with the operation
// name.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if myErr, ok := err.(*mysql.MySQLError); ok {
		switch myErr.Number {
		case errDeadlock, errLockWaitTimeout:
			return apperrors.NewConflictError(op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
