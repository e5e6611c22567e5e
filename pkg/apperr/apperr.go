package apperr

import "net/http"

// Kind classifies a failure independently of transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Stable machine-readable codes returned in the error envelope so clients
// can branch without parsing messages.
const (
	CodeEmailNotFound      = "EMAIL_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountSuspended   = "ACCOUNT_SUSPENDED"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeValidation         = "VALIDATION_ERROR"
)

// Error is the failure type services return to the HTTP layer. The HTTP
// layer serializes it as-is and performs no additional mapping.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]string
	status  int // optional override of the default Kind mapping
}

func (e *Error) Error() string { return e.Message }

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithCode attaches a stable client-facing code.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetails attaches field-level details (field name -> message).
func (e *Error) WithDetails(details map[string]string) *Error {
	e.Details = details
	return e
}

// WithStatus overrides the HTTP status derived from the Kind. The login
// flow uses this to surface an unknown email as 401 rather than 404, so
// the transport never distinguishes identity failures.
func (e *Error) WithStatus(status int) *Error {
	e.status = status
	return e
}

// HTTPStatus maps the error to a response status.
func (e *Error) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a 400 validation failure with field details.
func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Details: details}
}

// Conflict builds a 409 duplicate-key failure.
func Conflict(message string, details map[string]string) *Error {
	return &Error{Kind: KindConflict, Message: message, Details: details}
}

// NotFound builds a 404 failure.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Unauthorized builds a 401 failure.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden builds a 403 failure.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal builds a 500 failure.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
