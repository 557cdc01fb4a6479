package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
	WarnLogger  *log.Logger

	debugEnabled = os.Getenv("ENVIRONMENT") == "development"
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Configure switches debug output on for the given environment.
func Configure(environment string) {
	debugEnabled = environment == "development"
}

// SetOutput redirects every level to w. Tests use it to silence output.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
	DebugLogger.SetOutput(w)
	WarnLogger.SetOutput(w)
}

func Info(format string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(format, v...))
}

func Error(format string, v ...interface{}) {
	ErrorLogger.Output(2, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) {
	if debugEnabled {
		DebugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

func Warn(format string, v ...interface{}) {
	WarnLogger.Output(2, fmt.Sprintf(format, v...))
}

// LogSideEffectError records a failed best-effort step that did not fail the request.
func LogSideEffectError(action, resourceID string, err error) {
	Warn("side effect failed: action=%s, id=%s, error=%v", action, resourceID, err)
}
