package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/habitnudge/internal/logger"
)

// ErrPrecondition marks caller or configuration defects. These are never
// expected at runtime and must surface instead of being degraded silently.
var ErrPrecondition = stderrors.New("precondition violation")

var (
	ErrEmptyTemplatePool = fmt.Errorf("%w: empty template pool", ErrPrecondition)
	ErrMissingHabitID    = fmt.Errorf("%w: missing habit id", ErrPrecondition)
	ErrInvalidConfig     = fmt.Errorf("%w: invalid configuration", ErrPrecondition)
)

// IsPrecondition reports whether err is, or wraps, a precondition violation.
func IsPrecondition(err error) bool {
	return stderrors.Is(err, ErrPrecondition)
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
		logger.Error("Command execution failed", "error", err, "precondition", IsPrecondition(err))
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
