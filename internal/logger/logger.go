package logger

import (
	"fmt"
	"log"
	"os"
)

var (
	debugEnabled bool
	debugLogger  = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	infoLogger   = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	errorLogger  = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
)

// Init enables or disables debug logging.
func Init(debug bool) {
	debugEnabled = debug
	if debugEnabled {
		Debug("debug logging enabled")
	}
}

// Debug logs a debug message if debug mode is enabled.
func Debug(format string, v ...any) {
	if debugEnabled {
		_ = debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs an info message.
func Info(format string, v ...any) {
	_ = infoLogger.Output(2, fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(format string, v ...any) {
	_ = errorLogger.Output(2, fmt.Sprintf(format, v...))
}
