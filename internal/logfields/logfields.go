package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile     = "file"
	KeyPath     = "path"
	KeyProject  = "project"
	KeyLine     = "line"
	KeyCount    = "count"
	KeyDryRun   = "dry_run"
	KeyError    = "error"
	KeyDropped  = "dropped"
	KeyExpanded = "expanded"
	KeyRenamed  = "renamed"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(f string) slog.Attr      { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Project(p string) slog.Attr   { return slog.String(KeyProject, p) }
func Line(n int) slog.Attr         { return slog.Int(KeyLine, n) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }
func DryRun(b bool) slog.Attr      { return slog.Bool(KeyDryRun, b) }
func Dropped(n int) slog.Attr      { return slog.Int(KeyDropped, n) }
func Expanded(n int) slog.Attr     { return slog.Int(KeyExpanded, n) }
func Renamed(n int) slog.Attr      { return slog.Int(KeyRenamed, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
