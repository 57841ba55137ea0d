package model

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("already exists")

	// ErrNoRowsAffected is returned when a mutation that passed its ownership
	// check reports zero affected rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
