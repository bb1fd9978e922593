package failure

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type namedError struct{ name string }

func (e namedError) Error() string { return "boom" }
func (e namedError) Name() string  { return e.name }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not found",
			err:  NotFound(),
			want: `{"code":404,"status":"NOT_FOUND","errors":[{"message":"Data Not Found"}]}`,
		},
		{
			name: "storage fault",
			err:  Storage(errors.New("syntax error at or near")),
			want: `{"code":400,"status":"BAD_REQUEST","errors":[{"message":"Database Error"}]}`,
		},
		{
			name: "validation",
			err: Validation(
				FieldError{Field: "title", Type: "Validation error", Message: "Title must not be empty"},
				FieldError{Field: "rating", Type: "Validation error", Message: "rating must be a number"},
			),
			want: `{"code":400,"status":"BAD_REQUEST","errors":[` +
				`{"field":"title","type":"Validation error","message":"Title must not be empty"},` +
				`{"field":"rating","type":"Validation error","message":"rating must be a number"}]}`,
		},
		{
			name: "malformed body with marker",
			err:  MalformedBody(errors.New("unexpected EOF"), true),
			want: `{"code":400,"status":"BAD_REQUEST","errors":["Invalid JSON format"]}`,
		},
		{
			name: "malformed body without marker",
			err:  &Error{Kind: KindMalformedBody},
			want: `{"code":400,"status":"BAD_REQUEST","errors":[]}`,
		},
		{
			name: "foreign key",
			err:  ForeignKey(errors.New("fk")),
			want: `{"code":400,"status":"BAD_REQUEST","errors":["Foreign key constraint error"]}`,
		},
		{
			name: "named unclassified",
			err:  namedError{name: "UnexpectedError"},
			want: `{"code":500,"errors":["UnexpectedError"]}`,
		},
		{
			name: "plain error",
			err:  errors.New("Database error"),
			want: `{"code":500,"errors":["Error"]}`,
		},
		{
			name: "unclassified kind keeps wrapped name",
			err:  &Error{Err: namedError{name: "ConnectionRefused"}},
			want: `{"code":500,"errors":["ConnectionRefused"]}`,
		},
		{
			name: "wrapped failure",
			err:  fmt.Errorf("find movie: %w", NotFound()),
			want: `{"code":404,"status":"NOT_FOUND","errors":[{"message":"Data Not Found"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(Classify(tt.err))
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestClassifyNilIsInternal(t *testing.T) {
	resp := Classify(nil)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	require.Empty(t, resp.Status)
	require.Equal(t, []any{"Error"}, resp.Errors)
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", NotFound())))
	require.Equal(t, KindStorage, KindOf(Storage(errors.New("x"))))
	require.Equal(t, KindUnclassified, KindOf(errors.New("x")))
}

func TestErrorMessage(t *testing.T) {
	err := Validation(FieldError{Field: "title", Type: "notNull Violation", Message: "Title must not be null"})
	require.Equal(t, "validation_error; title: Title must not be null", err.Error())

	wrapped := Storage(errors.New("deadlock"))
	require.Equal(t, "database_error: deadlock", wrapped.Error())
	require.ErrorIs(t, wrapped, wrapped.Err)
}
