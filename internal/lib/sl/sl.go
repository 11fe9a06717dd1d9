// Package sl provides small slog attribute helpers.
package sl

import "log/slog"

// Err wraps an error as a structured "error" attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
