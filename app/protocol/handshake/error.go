package handshake

import "fmt"

// ErrorKind identifies which handshake outcome failed, per spec §7's
// handshake error taxonomy.
type ErrorKind int

// Handshake error kinds.
const (
	ErrConnectionClosed ErrorKind = iota
	ErrUnexpectedMessage
	ErrNonceReuse
	ErrObsoleteVersion
	ErrSerialization
)

var errorKindNames = map[ErrorKind]string{
	ErrConnectionClosed:  "ConnectionClosed",
	ErrUnexpectedMessage: "UnexpectedMessage",
	ErrNonceReuse:        "NonceReuse",
	ErrObsoleteVersion:   "ObsoleteVersion",
	ErrSerialization:     "Serialization",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned whenever a handshake fails to produce a Client. Any
// error at any arrow of the state machine terminates the task (spec
// §4.9); the concrete outcome is always one of these kinds.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying I/O or serialization error, if any, so
// callers can still errors.As/errors.Is through it.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is supports errors.Is against another *Error by matching on Kind
// alone, the same convention as externalapi.TransactionError.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// NewError returns an Error of the given kind wrapping cause, with a
// formatted message.
func NewError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: cause}
}
