package api

import (
	"errors"
	"net/http"

	"github.com/okian/tierlist/internal/adapters/ethos"
	"github.com/okian/tierlist/internal/adapters/export"
	service "github.com/okian/tierlist/internal/app"
	"github.com/okian/tierlist/internal/domain/board"
	"github.com/okian/tierlist/internal/domain/placement"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal error")
)

// Error ties a failure to the handler that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op
	}
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap records op on err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind records op and kind on err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps an error to its HTTP status and envelope code.
func classify(err error) (int, string) {
	var apiErr *ethos.APIError
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ethos.ErrEmptyUsername),
		errors.Is(err, board.ErrEmptyIdentifier):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, board.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, service.ErrLookupInFlight),
		errors.Is(err, service.ErrExportInFlight):
		return http.StatusConflict, "in_flight"
	case errors.Is(err, placement.ErrDeleteModeOff):
		return http.StatusConflict, "delete_mode_off"
	case errors.Is(err, ethos.ErrNotFound),
		errors.Is(err, board.ErrUnknownEntry),
		errors.Is(err, board.ErrUnknownContainer),
		errors.Is(err, placement.ErrNotDraggable),
		errors.Is(err, service.ErrNoImage):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ethos.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrBusy):
		return http.StatusTooManyRequests, "backpressure"
	case errors.As(err, &apiErr),
		errors.Is(err, ethos.ErrBadPayload),
		errors.Is(err, ethos.ErrRequestFailed):
		return http.StatusBadGateway, "upstream"
	case errors.Is(err, export.ErrInvalidOptions):
		return http.StatusInternalServerError, "misconfigured"
	case errors.Is(err, export.ErrNoClipboard),
		errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// message is the text shown to the user for err.
func message(err error) string {
	var e *Error
	for errors.As(err, &e) {
		switch {
		case e.Err != nil:
			err = e.Err
		case e.Kind != nil:
			err = e.Kind
		default:
			return e.Op
		}
	}
	return ethos.Message(err)
}
