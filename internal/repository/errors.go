// Package repository implements the persistent store over MySQL.  Each
// repository maps rows of one table to model types.  Lookups that match no
// row return model.ErrNotFound; unique-key violations are translated by the
// caller-specific repository into model.ErrDuplicateEmail or
// model.ErrConflict so handlers never inspect driver errors.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/internship-portal/internal/model"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL unique-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows to model.ErrNotFound and passes other errors
// through unchanged.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// expectOne turns a zero rows-affected result into model.ErrNotFound.  The
// DSN sets clientFoundRows, so the count is of matched rows and a no-op
// update still reports one.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
