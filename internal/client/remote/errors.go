package remote

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fintrack/internal/common"
)

// ConflictError reports a create rejected because a matching record already
// exists remotely. RemoteID carries the existing record's id when the server
// includes it in the response; otherwise it is zero.
//
// errors.Is(err, common.ErrConflict) matches it.
type ConflictError struct {
	RemoteID int64
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("conflict: %s", e.Message)
	}
	return "conflict"
}

func (e *ConflictError) Unwrap() error { return common.ErrConflict }

// mapStatus converts an HTTP error status plus the decoded envelope into a
// sentinel error callers can match with errors.Is.
func mapStatus(status int, env envelope) error {
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, env.Message)
	case http.StatusUnauthorized:
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		ce := &ConflictError{Message: env.Message}
		if len(env.Data) > 0 {
			var d idData
			if err := decodeData(env.Data, &d); err == nil {
				ce.RemoteID = d.ID
			}
		}
		return ce
	default:
		if env.Message != "" {
			return fmt.Errorf("%w: %s", common.ErrInternal, env.Message)
		}
		return fmt.Errorf("%w: status %d", common.ErrInternal, status)
	}
}
