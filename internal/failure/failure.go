// Package failure defines the closed set of failure conditions a request can
// end in and the classifier that turns any of them into the JSON error
// envelope returned to clients.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags a failure condition.  The zero value is KindUnclassified so an
// Error built without a kind falls through to the 500 branch.
type Kind int

const (
	KindUnclassified Kind = iota
	KindNotFound
	KindValidation
	KindMalformedBody
	KindForeignKey
	KindStorage
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "DATA_NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindMalformedBody:
		return "MALFORMED_BODY"
	case KindForeignKey:
		return "FOREIGN_KEY_CONSTRAINT"
	case KindStorage:
		return "DATABASE_ERROR"
	default:
		return "UNCLASSIFIED"
	}
}

// FieldError describes one violated field of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error is a typed failure condition.  Fields is only meaningful for
// KindValidation and FromBody only for KindMalformedBody.
type Error struct {
	Kind     Kind
	Fields   []FieldError
	FromBody bool
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(e.Kind.String()))
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound is raised when the requested record does not exist.
func NotFound() *Error { return &Error{Kind: KindNotFound} }

// Validation is raised when one or more fields violate the model rules.
func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// MalformedBody is raised when the request body could not be decoded.
// fromBody marks failures produced while parsing the request body.
func MalformedBody(err error, fromBody bool) *Error {
	return &Error{Kind: KindMalformedBody, FromBody: fromBody, Err: err}
}

// ForeignKey wraps a referential-integrity violation reported by the database.
func ForeignKey(err error) *Error { return &Error{Kind: KindForeignKey, Err: err} }

// Storage wraps any other error reported by the database engine.
func Storage(err error) *Error { return &Error{Kind: KindStorage, Err: err} }

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnclassified.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnclassified
}

// Named is implemented by errors that carry their own condition name.
type Named interface {
	Name() string
}

// NameOf returns the condition name echoed back for unclassified failures.
func NameOf(err error) string {
	var n Named
	if errors.As(err, &n) {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return "Error"
}
