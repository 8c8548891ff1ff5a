package report

import (
	"io"
	"os"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// Width bounds text lines. Zero means the terminal width of Writer.
	Width int

	// MaxDepth limits tree outlines. Zero means no limit.
	MaxDepth int

	// ShowPositions adds line:col positions to tree outlines.
	ShowPositions bool

	// ShowEvents lists every change notification fired during a commit.
	ShowEvents bool

	// Compact uses minified JSON.
	Compact bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer: os.Stdout,
		Format: FormatText,
		Color:  "auto",
	}
}
