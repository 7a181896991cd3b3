package backup

import (
	"errors"
	"fmt"
)

// BackupError represents errors that occur during backup operations
type BackupError struct {
	Type    BackupErrorType `json:"type"`
	Message string          `json:"message"`
	Cause   error           `json:"-"`
}

// Error implements the error interface
func (e *BackupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause error
func (e *BackupError) Unwrap() error {
	return e.Cause
}

// BackupErrorType represents different types of backup errors
type BackupErrorType string

const (
	// BackupErrorTypeIO covers file read, copy, and mkdir failures during a
	// run. The run aborts, the partial backup folder is removed, and the
	// manifest is left unchanged.
	BackupErrorTypeIO BackupErrorType = "IO_ERROR"

	// BackupErrorTypePersistence covers manifest write failures after a
	// successful copy phase. The backup folder exists on disk but is not
	// reflected in the manifest; such orphaned folders under the backup root
	// are detectable by operators and are never silently swallowed.
	BackupErrorTypePersistence BackupErrorType = "PERSISTENCE_ERROR"

	// BackupErrorTypeCorruption marks an unparsable manifest on load. It is
	// logged and recovered from, not surfaced to callers.
	BackupErrorTypeCorruption BackupErrorType = "CORRUPTION_ERROR"

	BackupErrorTypeValidation    BackupErrorType = "VALIDATION_ERROR"
	BackupErrorTypeConfiguration BackupErrorType = "CONFIGURATION_ERROR"
)

// NewBackupError creates a new BackupError
func NewBackupError(errorType BackupErrorType, message string, cause error) *BackupError {
	return &BackupError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors
func NewIOError(message string, cause error) *BackupError {
	return NewBackupError(BackupErrorTypeIO, message, cause)
}

func NewPersistenceError(message string, cause error) *BackupError {
	return NewBackupError(BackupErrorTypePersistence, message, cause)
}

func NewCorruptionError(message string, cause error) *BackupError {
	return NewBackupError(BackupErrorTypeCorruption, message, cause)
}

func NewValidationError(message string, cause error) *BackupError {
	return NewBackupError(BackupErrorTypeValidation, message, cause)
}

func NewConfigurationError(message string, cause error) *BackupError {
	return NewBackupError(BackupErrorTypeConfiguration, message, cause)
}

// IsErrorType reports whether err (or any error it wraps) is a BackupError
// of the given type.
func IsErrorType(err error, errorType BackupErrorType) bool {
	var backupErr *BackupError
	if errors.As(err, &backupErr) {
		return backupErr.Type == errorType
	}
	return false
}
