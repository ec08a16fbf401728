package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Checked both at the driver level (SQLSTATE 23505) and via gorm's
// translated error so callers can map races on unique indexes to the same
// client error as the pre-insert existence check.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UniqueViolationConstraint returns the name of the violated unique
// constraint, or "" when err is not a driver-level unique violation.
// Callers use it to tell apart which column collided on tables with more
// than one unique index.
func UniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}
