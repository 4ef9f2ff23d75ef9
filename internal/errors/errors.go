package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/captainslog/internal/constants"
	"github.com/julianstephens/captainslog/internal/logger"
	"github.com/julianstephens/captainslog/internal/logstore"
)

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

// UserMessage maps a log store error to the short message shown in the UI.
// Storage failures get fallback, which names the action that failed.
func UserMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, logstore.ErrNotFound):
		return constants.MsgLogNotFound
	case stderrors.Is(err, logstore.ErrEmptyContent):
		return constants.MsgContentRequired
	case stderrors.Is(err, logstore.ErrInvalidCollection):
		return constants.MsgInvalidBackup
	default:
		return fallback
	}
}
