package core

import "errors"

// Sentinel errors shared across packages. Callers match with errors.Is.
var (
	// ErrNotFound is returned by storage backends for missing keys.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered is returned when a caller registers twice.
	ErrAlreadyRegistered = errors.New("wallet already registered")

	// ErrWalletNotFound is returned when an operation references an
	// address that was never registered.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrCorruptState is returned when the persisted aggregate blob
	// cannot be decoded. Treated as unrecoverable.
	ErrCorruptState = errors.New("corrupt registry state")
)
