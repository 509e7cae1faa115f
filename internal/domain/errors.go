package domain

import "errors"

// Failure kinds. Sources wrap their errors with one of these so the
// service can classify a failure without knowing the source type.
// Fetch, parse and auth failures are per-source and recoverable; a
// write failure is fatal for the run.
var (
	ErrFetch = errors.New("fetch failed")
	ErrParse = errors.New("feed malformed")
	ErrAuth  = errors.New("authentication rejected")
	ErrWrite = errors.New("write failed")
)

// ErrKind names the failure class of err for log output.
func ErrKind(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrWrite):
		return "write"
	default:
		return "unknown"
	}
}
