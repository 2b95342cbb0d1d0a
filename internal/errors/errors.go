package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/studyline/internal/logger"
)

// Error taxonomy. Component errors wrap one of these with %w so callers can
// branch with errors.Is regardless of which engine produced them.
var (
	// ErrNotFound marks a bad plan/day/topic reference. No state was mutated.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidConfiguration marks input rejected before any persistence write.
	ErrInvalidConfiguration = stderrors.New("invalid configuration")
	// ErrPersistence marks a store write that did not durably succeed. The
	// previously stored snapshot remains authoritative.
	ErrPersistence = stderrors.New("persistence failure")
)

// Persistence wraps a store error as ErrPersistence, keeping the cause.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// IsNotFound reports whether err is a NotFound condition
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

// IsInvalidConfiguration reports whether err is an InvalidConfiguration condition
func IsInvalidConfiguration(err error) bool {
	return stderrors.Is(err, ErrInvalidConfiguration)
}

// IsPersistence reports whether err is a PersistenceFailure condition
func IsPersistence(err error) bool {
	return stderrors.Is(err, ErrPersistence)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
