package pkgerror

import (
	"errors"
	"net/http"
)

// ErrNotFound is returned by stores and sinks for a missing record.
var ErrNotFound = errors.New("resource not found")

// Type is the broad class of an Error.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "server"
	case TypeBusiness:
		return "business"
	case TypeValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Code decides the HTTP status an Error is reported with.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidInput
	CodeNotFound
	CodeUnavailable
)

var statusByCode = map[Code]int{
	CodeInternal:     http.StatusInternalServerError,
	CodeInvalidInput: http.StatusUnprocessableEntity,
	CodeNotFound:     http.StatusNotFound,
	CodeUnavailable:  http.StatusServiceUnavailable,
}

// Error is a client-facing failure. Msg and Details are safe to return to
// callers; the wrapped error is for logs only.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	details map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	return e.errType.String() + " error"
}

func (e *Error) Msg() string                { return e.msg }
func (e *Error) Type() Type                 { return e.errType }
func (e *Error) Code() Code                 { return e.code }
func (e *Error) Details() map[string]string { return e.details }
func (e *Error) Unwrap() error              { return e.err }

func (e *Error) StatusCode() int {
	if status, ok := statusByCode[e.code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// withDetail returns a details map carrying err's text under "details".
func withDetail(err error, extra map[string]string) map[string]string {
	details := map[string]string{"details": ""}
	if err != nil {
		details["details"] = err.Error()
	}
	for k, v := range extra {
		details[k] = v
	}
	return details
}

// NewServer hides err behind a generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput reports a single bad argument; err's text becomes the
// client-facing message.
func NewInvalidInput(err error) error {
	msg := "Validation failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{err: err, msg: msg, errType: TypeValidation, code: CodeInvalidInput}
}

// NewValidation reports per-field failures, keyed by field name.
func NewValidation(fields map[string]string) error {
	return &Error{
		err:     errors.New("validation failed"),
		msg:     "Validation failed",
		errType: TypeValidation,
		code:    CodeInvalidInput,
		details: fields,
	}
}

// NewUnavailable marks an upstream (source) that could not be reached or
// returned unusable data.
func NewUnavailable(source string, err error) error {
	return &Error{
		err:     err,
		msg:     "External data source unavailable",
		errType: TypeServer,
		code:    CodeUnavailable,
		details: withDetail(err, map[string]string{"source": source}),
	}
}

// NewStore reports a rejected persistence operation with its detail exposed.
func NewStore(err error) error {
	return &Error{
		err:     err,
		msg:     "Database error",
		errType: TypeServer,
		code:    CodeInternal,
		details: withDetail(err, nil),
	}
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.code == code
}
