// Package repository contains data access logic separated from HTTP handlers.
// Errors raised by the SQL engine are translated here into failure
// conditions so that higher layers never inspect driver types.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	"github.com/iliyamo/movies-api/internal/failure"
)

const (
	mysqlRowIsReferenced  = 1451 // ER_ROW_IS_REFERENCED_2
	mysqlNoReferencedRow  = 1452 // ER_NO_REFERENCED_ROW_2
	mysqlRowIsReferenced1 = 1217 // ER_ROW_IS_REFERENCED
	mysqlNoReferencedRow1 = 1216 // ER_NO_REFERENCED_ROW

	pgForeignKeyViolation = "23503"

	sqliteConstraintForeignKey = 787 // SQLITE_CONSTRAINT_FOREIGNKEY
)

// translate maps errors reported by the database engine to failure
// conditions.  Failures pass through untouched and anything that did not
// come from the engine (connection loss, context cancellation) is returned
// unchanged so it is reported as unclassified.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var fe *failure.Error
	if errors.As(err, &fe) {
		return err
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced1, mysqlNoReferencedRow1:
			return failure.ForeignKey(err)
		}
		return failure.Storage(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgForeignKeyViolation {
			return failure.ForeignKey(err)
		}
		return failure.Storage(err)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		if liteErr.Code() == sqliteConstraintForeignKey {
			return failure.ForeignKey(err)
		}
		return failure.Storage(err)
	}

	return err
}
