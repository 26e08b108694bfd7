// Package apperr defines the error taxonomy shared by the service and HTTP layers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindConfiguration
	KindStorageDrift
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConfiguration:
		return "configuration"
	case KindStorageDrift:
		return "storage_drift"
	default:
		return "internal"
	}
}

// Error carries a safe, caller-facing message. Err holds the underlying cause and
// is never rendered to clients.
type Error struct {
	Kind        Kind
	Code        string
	Message     string
	Remediation []string
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by Kind and Code so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func newErr(k Kind, code, msg string) *Error {
	return &Error{Kind: k, Code: code, Message: msg}
}

func Validation(code, msg string) *Error     { return newErr(KindValidation, code, msg) }
func Authentication(code, msg string) *Error { return newErr(KindAuthentication, code, msg) }
func Authorization(code, msg string) *Error  { return newErr(KindAuthorization, code, msg) }
func NotFound(code, msg string) *Error       { return newErr(KindNotFound, code, msg) }
func Conflict(code, msg string) *Error       { return newErr(KindConflict, code, msg) }
func StorageDrift(code, msg string) *Error   { return newErr(KindStorageDrift, code, msg) }
func Internal(code, msg string) *Error       { return newErr(KindInternal, code, msg) }

// Configuration builds a server misconfiguration error. Remediation lists the
// operator steps that fix it.
func Configuration(code, msg string, remediation ...string) *Error {
	e := newErr(KindConfiguration, code, msg)
	e.Remediation = remediation
	return e
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
