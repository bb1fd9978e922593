package failure

import (
	"errors"
	"net/http"
)

const (
	StatusNotFound   = "NOT_FOUND"
	StatusBadRequest = "BAD_REQUEST"
)

// Response is the error envelope.  Status is omitted for unclassified
// failures.
type Response struct {
	Code   int    `json:"code"`
	Status string `json:"status,omitempty"`
	Errors []any  `json:"errors"`
}

type message struct {
	Message string `json:"message"`
}

// Classify maps err to its error envelope.  It is total: nil and errors
// outside this package are reported as unclassified.
func Classify(err error) Response {
	var fe *Error
	if !errors.As(err, &fe) {
		return unclassified(err)
	}

	switch fe.Kind {
	case KindNotFound:
		return Response{
			Code:   http.StatusNotFound,
			Status: StatusNotFound,
			Errors: []any{message{Message: "Data Not Found"}},
		}
	case KindStorage:
		return Response{
			Code:   http.StatusBadRequest,
			Status: StatusBadRequest,
			Errors: []any{message{Message: "Database Error"}},
		}
	case KindValidation:
		details := make([]any, 0, len(fe.Fields))
		for _, f := range fe.Fields {
			details = append(details, f)
		}
		return Response{Code: http.StatusBadRequest, Status: StatusBadRequest, Errors: details}
	case KindMalformedBody:
		details := []any{}
		if fe.FromBody {
			details = append(details, "Invalid JSON format")
		}
		return Response{Code: http.StatusBadRequest, Status: StatusBadRequest, Errors: details}
	case KindForeignKey:
		return Response{
			Code:   http.StatusBadRequest,
			Status: StatusBadRequest,
			Errors: []any{"Foreign key constraint error"},
		}
	default:
		return unclassified(fe.Err)
	}
}

func unclassified(err error) Response {
	return Response{
		Code:   http.StatusInternalServerError,
		Errors: []any{NameOf(err)},
	}
}
