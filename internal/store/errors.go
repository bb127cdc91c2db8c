package store

import "errors"

// Domain errors. Handlers map these to HTTP statuses; the sync engine matches
// them with errors.Is.
var (
	// ErrTaskNotFound is returned when the requested task id does not exist
	// in the queried store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskAlreadyExists is returned by Create when the id is already
	// taken. This is the conflict that lets a client treat a repeated create
	// as convergence instead of double-creating.
	ErrTaskAlreadyExists = errors.New("task already exists")

	// ErrCursorNotFound is returned when the local replica has no persisted
	// sync cursor yet (first sync).
	ErrCursorNotFound = errors.New("sync cursor not found")
)

// Infrastructure errors shared by the SQL-backed repositories.
var (
	ErrBuildingSQLQuery      = errors.New("error building SQL query")
	ErrExecutingQuery        = errors.New("error executing query")
	ErrScanningRow           = errors.New("error scanning row")
	ErrScanningRows          = errors.New("error scanning rows")
	ErrBeginningTransaction  = errors.New("error beginning transaction")
	ErrCommittingTransaction = errors.New("error committing transaction")
)
