package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyDocument   = "document"
	KeyLayout     = "layout"
	KeyCollection = "collection"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Document(d string) slog.Attr      { return slog.String(KeyDocument, d) }
func Layout(l string) slog.Attr        { return slog.String(KeyLayout, l) }
func Collection(c string) slog.Attr    { return slog.String(KeyCollection, c) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(o string) slog.Attr        { return slog.String(KeyOutput, o) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
