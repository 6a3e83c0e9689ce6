// Package logfields centralizes slog attribute keys so log lines from the
// loader, the pipeline stages and the CLI share one schema.
package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names.
const (
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyQuery      = "query"
	KeyScope      = "scope"
	KeyMinimize   = "minimize"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyWorker     = "worker"
	KeyError      = "error"
)

func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Query(q string) slog.Attr        { return slog.String(KeyQuery, q) }
func Scope(s string) slog.Attr        { return slog.String(KeyScope, s) }
func Minimize(on bool) slog.Attr      { return slog.Bool(KeyMinimize, on) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Worker(id int) slog.Attr         { return slog.Int(KeyWorker, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Since returns the elapsed time from start as a duration_ms attribute.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

// Error returns the error message, or an empty string for nil.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
