package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode
}

// Poolers in transaction mode can drop the unnamed statement between the
// parse and bind steps; both errors succeed on a plain retry.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "bind message supplies")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		(strings.Contains(msg, "prepared statement") && strings.Contains(msg, "(26000)"))
}

// retryStatement runs fn again once when the pooler lost the prepared statement.
func retryStatement(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil || !(isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err)) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}
	return fn(ctx)
}
