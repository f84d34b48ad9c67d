package api

import (
	"errors"
	"net/http"

	repository "github.com/agustinnadalich/conexus-play-sub000/internal/adapters/repository"
	service "github.com/agustinnadalich/conexus-play-sub000/internal/app"
	"github.com/agustinnadalich/conexus-play-sub000/internal/domain/chartclick"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrInternal      = errors.New("internal error")
	ErrUnavailable   = errors.New("service unavailable")
)

// Error is an API failure tagged with the operation and a kind that decides
// the response status.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Op + ": " + e.Kind.Error()
	case e.Op == "":
		return e.Err.Error()
	default:
		return e.Op + ": " + e.Err.Error()
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind returns an error of kind without a further cause.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind tags err with kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap tags err with the kind its cause implies.
func Wrap(op string, err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, repository.ErrMatchNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidMatchID),
		errors.Is(err, service.ErrBatchTooLarge),
		errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, chartclick.ErrUnknownKind),
		errors.Is(err, chartclick.ErrMalformedPayload):
		return ErrBadRequest
	case errors.Is(err, service.ErrNotStarted):
		return ErrUnavailable
	default:
		return ErrInternal
	}
}

// statusOf maps an error to the response status and error code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity, "unprocessable"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
