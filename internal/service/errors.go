package service

import "errors"

// Sentinel errors of the purge service. Store errors are wrapped behind them,
// so callers can match both with [errors.Is].
var (
	// ErrFetchingCandidates is returned when the candidate query fails.
	ErrFetchingCandidates = errors.New("failed to fetch purge candidates")

	// ErrNarrowingFailed is returned when an elimination pass fails.
	ErrNarrowingFailed = errors.New("failed to narrow candidates")

	// ErrResolvingRegistry is returned when the installed plugins cannot be
	// read, so the active groups are unknown.
	ErrResolvingRegistry = errors.New("failed to resolve registry")

	// ErrInvalidRegistry is returned by Validate for structural or schema
	// problems of the registry.
	ErrInvalidRegistry = errors.New("invalid registry")

	// ErrInvalidIdentity is returned by Validate when the identity table or
	// its soft-delete column is missing.
	ErrInvalidIdentity = errors.New("identity table does not match the database")

	// ErrBackupMismatch is returned when an archived row does not carry the
	// id it was archived under. Such a row is never written back.
	ErrBackupMismatch = errors.New("backup does not match its record id")

	// ErrReadingStatuses is returned when the ledger cannot be read.
	ErrReadingStatuses = errors.New("failed to read ledger statuses")
)
