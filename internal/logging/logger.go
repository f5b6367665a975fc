package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger at the given level and returns its
// handler so it can be combined with others later.
func Setup(level int) slog.Handler {
	handler := NewJSONHandler(os.Stdout, level)
	slog.SetDefault(slog.New(handler))
	return handler
}

// NewJSONHandler uses slog's numeric levels: -4 debug, 0 info, 4 warn, 8 error.
func NewJSONHandler(w io.Writer, level int) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(level),
	})
}
