package log

import (
	"io"
	"log"
	"os"

	"github.com/rs/zerolog"
)

var (
	// InfoLogger for standard, non-error messages.
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	// ErrorLogger for error messages.
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	// AccessLogger records one structured event per HTTP request.
	AccessLogger = NewAccessLogger(os.Stdout)
)

// NewAccessLogger returns a JSON request logger writing to w.
func NewAccessLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Str("service", "chord-suggest").
		Timestamp().
		Logger()
}
