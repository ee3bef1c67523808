package database

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// InsertResult classifies the outcome of an insert that relies on a storage
// uniqueness constraint for mutual exclusion. Callers branch on the variant
// instead of inspecting driver errors.
type InsertResult int

const (
	// Inserted means the row was written and this caller won the claim.
	Inserted InsertResult = iota + 1
	// AlreadyExists means a row with the same unique key was already present.
	AlreadyExists
)

// Driver-specific unique violation identifiers.
const (
	pqUniqueViolationCode  = "23505"
	mysqlDuplicateEntryNum = 1062
)

// ClassifyInsert converts a driver error from an INSERT into an InsertResult.
// Unique-constraint violations become AlreadyExists with a nil error; every
// other error is passed through unchanged.
func ClassifyInsert(err error) (InsertResult, error) {
	if err == nil {
		return Inserted, nil
	}
	if isUniqueViolation(err) {
		return AlreadyExists, nil
	}
	return 0, err
}

// isUniqueViolation reports whether err is a unique-constraint violation for
// the PostgreSQL or MySQL drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolationCode
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntryNum
	}

	return false
}
