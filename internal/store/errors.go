package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRecordNotFound is returned when a host record addressed by table and
	// id does not exist. Snapshotting a missing record is a precondition
	// failure for a purge.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrRecordAlreadyExists is returned when re-inserting a record whose
	// primary key is already taken.
	ErrRecordAlreadyExists = errors.New("record already exists")

	// ErrBackupNotFound is returned when no archived copy exists for the
	// requested table and user.
	ErrBackupNotFound = errors.New("backup was not found")

	// ErrTransient marks failures that may succeed when the job runs again
	// (connection loss, deadlock, busy database).
	ErrTransient = errors.New("transient database error")

	// ErrUnsupportedDriver is returned for drivers other than pgx and sqlite3.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrInvalidIdentifier is returned when a table or column name cannot be
	// used as a bare SQL identifier.
	ErrInvalidIdentifier = errors.New("invalid table or column name")

	// ErrEmptySnapshot is returned when inserting a snapshot without fields.
	ErrEmptySnapshot = errors.New("snapshot has no fields")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a result
	// row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingSnapshot is returned when a snapshot cannot be serialized
	// or deserialized.
	ErrEncodingSnapshot = errors.New("failed to encode record snapshot")
)
