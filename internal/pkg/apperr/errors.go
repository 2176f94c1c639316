// Package apperr holds the error taxonomy shared by the use cases. Handlers
// translate these into HTTP responses; the use cases never see HTTP.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// Internal marks err as an unexpected failure while keeping the cause for
// logging.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrInternal, err)
}

type FieldError struct {
	Param string
	Msg   string
}

// ValidationError lists every field-level violation of one input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Param+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Add(param, msg string) {
	e.Fields = append(e.Fields, FieldError{Param: param, Msg: msg})
}

// OrNil returns e when it holds violations.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
