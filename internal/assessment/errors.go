package assessment

import "errors"

var (
	ErrSessionNotFound  = errors.New("assessment session not found")
	ErrInvalidAnswer    = errors.New("invalid answer")
	ErrResetUnavailable = errors.New("start over is only available on the results step")
	ErrNotAtResults     = errors.New("results are only available on the results step")
)

// MessageKey returns the translation key used to show err to a visitor.
func MessageKey(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return "errors.sessionNotFound"
	case errors.Is(err, ErrInvalidAnswer):
		return "errors.invalidAnswer"
	case errors.Is(err, ErrResetUnavailable):
		return "errors.resetUnavailable"
	case errors.Is(err, ErrNotAtResults):
		return "errors.notAtResults"
	default:
		return "errors.internal"
	}
}
