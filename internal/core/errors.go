package core

import (
	"errors"
	"fmt"
)

// Code categorizes core errors.
type Code string

const (
	// CodeStorageUnavailable means the engine could not open or operate on
	// a database. During load or switch this demotes the core instead of
	// propagating past it.
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"

	// CodeNameConflict means create was called with an existing or
	// reserved database name.
	CodeNameConflict Code = "NAME_CONFLICT"

	// CodeImportInvalid means an imported document is missing required
	// fields or violates the snapshot schema.
	CodeImportInvalid Code = "IMPORT_INVALID"

	// CodeSyncFailure means a flush transaction did not complete.
	CodeSyncFailure Code = "SYNC_FAILURE"

	// CodeBlockedDeletion means a database file could not be removed,
	// most likely because another consumer still holds a handle.
	CodeBlockedDeletion Code = "BLOCKED_DELETION"

	// CodeConfirmRequired means the operation would discard pending
	// unsynced data and the caller has not confirmed the discard.
	CodeConfirmRequired Code = "CONFIRM_REQUIRED"
)

// CoreError is the typed error surfaced by core operations.
type CoreError struct {
	Code     Code
	Message  string
	Database string // affected database name, if any
	Err      error  // underlying cause, if any
}

// Error implements the error interface.
func (e *CoreError) Error() string {
	switch {
	case e.Database != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s (database=%s): %v", e.Code, e.Message, e.Database, e.Err)
	case e.Database != "":
		return fmt.Sprintf("%s: %s (database=%s)", e.Code, e.Message, e.Database)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *CoreError) Unwrap() error {
	return e.Err
}

func newError(code Code, database, message string, err error) *CoreError {
	return &CoreError{Code: code, Message: message, Database: database, Err: err}
}

func hasCode(err error, code Code) bool {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsNameConflict reports whether err is a NAME_CONFLICT core error.
func IsNameConflict(err error) bool { return hasCode(err, CodeNameConflict) }

// IsImportInvalid reports whether err is an IMPORT_INVALID core error.
func IsImportInvalid(err error) bool { return hasCode(err, CodeImportInvalid) }

// IsConfirmRequired reports whether err asks the caller to confirm a
// destructive discard before retrying.
func IsConfirmRequired(err error) bool { return hasCode(err, CodeConfirmRequired) }

// IsStorageUnavailable reports whether err is a STORAGE_UNAVAILABLE core error.
func IsStorageUnavailable(err error) bool { return hasCode(err, CodeStorageUnavailable) }

// IsSyncFailure reports whether err is a SYNC_FAILURE core error.
func IsSyncFailure(err error) bool { return hasCode(err, CodeSyncFailure) }

// IsBlockedDeletion reports whether err marks a best-effort deletion that
// could not remove the database file.
func IsBlockedDeletion(err error) bool { return hasCode(err, CodeBlockedDeletion) }
