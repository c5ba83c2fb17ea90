// Package apperrors classifies request failures into the kinds the HTTP layer
// knows how to present. A Failure carries the notice shown to the user.
package apperrors

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindUnavailable
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Failure struct {
	Kind   Kind
	Notice string
	Status int
}

func (f *Failure) Error() string {
	return f.Notice
}

func newFailure(kind Kind, status int, notice string) error {
	return &Failure{Kind: kind, Notice: notice, Status: status}
}

func Validation(notice string) error {
	return newFailure(KindValidation, http.StatusBadRequest, notice)
}

// Duplicate is a validation failure reported with 409.
func Duplicate(notice string) error {
	return newFailure(KindValidation, http.StatusConflict, notice)
}

func Unauthenticated(notice string) error {
	return newFailure(KindUnauthenticated, http.StatusUnauthorized, notice)
}

func Forbidden(notice string) error {
	return newFailure(KindForbidden, http.StatusForbidden, notice)
}

func NotFound(notice string) error {
	return newFailure(KindNotFound, http.StatusNotFound, notice)
}

func Unavailable(notice string) error {
	return newFailure(KindUnavailable, http.StatusServiceUnavailable, notice)
}

func Conflict(notice string) error {
	return newFailure(KindConflict, http.StatusConflict, notice)
}

// As returns the first Failure in err's chain.
func As(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func KindOf(err error) Kind {
	if f, ok := As(err); ok {
		return f.Kind
	}
	return KindInternal
}

// Present returns the HTTP status and notice for err. Anything that is not a
// Failure is reported as a generic internal error.
func Present(err error) (int, string) {
	if f, ok := As(err); ok {
		return f.Status, f.Notice
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
