// Package handler contains the HTTP handlers of the movies API.  Handlers
// never write error responses themselves: they return failures and the
// echo error handler installed by ErrorHandler renders the envelope.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movies-api/internal/failure"
	"github.com/iliyamo/movies-api/internal/model"
	"github.com/iliyamo/movies-api/internal/queue"
	"github.com/iliyamo/movies-api/internal/repository"
)

const deletedMessage = "Movie has been deleted successfully"

// MovieHandler serves the /movies resource.
type MovieHandler struct {
	Movies repository.MovieStore // Movies provides movie persistence
	Events queue.Publisher       // Events receives a MovieEvent after each committed mutation
}

// NewMovieHandler constructs a MovieHandler and panics if store is nil.  A
// nil publisher disables events.
func NewMovieHandler(store repository.MovieStore, events queue.Publisher) *MovieHandler {
	if store == nil {
		panic("nil store passed to NewMovieHandler")
	}
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &MovieHandler{Movies: store, Events: events}
}

type dataResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type messageResponse struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type createdID struct {
	ID int64 `json:"id"`
}

// List handles GET /movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]model.MovieView, 0, len(movies))
	for _, m := range movies {
		views = append(views, m.View())
	}
	return c.JSON(http.StatusOK, dataResponse{Code: http.StatusOK, Status: "OK", Data: views})
}

// Get handles GET /movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	m, err := h.Movies.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if m == nil {
		return failure.NotFound()
	}
	return c.JSON(http.StatusOK, dataResponse{Code: http.StatusOK, Status: "OK", Data: m.View()})
}

// Create handles POST /movies.
func (h *MovieHandler) Create(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var created *model.Movie
	err = h.Movies.InTx(ctx, func(movies repository.Movies) error {
		created, err = movies.Create(ctx, fields)
		return err
	})
	if err != nil {
		return err
	}

	h.publish(ctx, queue.MovieCreated, *created)
	return c.JSON(http.StatusCreated, dataResponse{
		Code:   http.StatusCreated,
		Status: "CREATED",
		Data:   createdID{ID: created.ID},
	})
}

// Update handles PATCH /movies/:id.  Only the fields present in the body
// change; the response carries the stored record as is.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var updated *model.Movie
	err = h.Movies.InTx(ctx, func(movies repository.Movies) error {
		current, err := movies.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return failure.NotFound()
		}
		updated, err = movies.Update(ctx, id, fields)
		if err != nil {
			return err
		}
		if updated == nil {
			return failure.NotFound()
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.publish(ctx, queue.MovieUpdated, *updated)
	return c.JSON(http.StatusCreated, dataResponse{Code: http.StatusCreated, Status: "UPDATED", Data: updated})
}

// Delete handles DELETE /movies/:id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var deleted model.Movie
	err = h.Movies.InTx(ctx, func(movies repository.Movies) error {
		current, err := movies.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return failure.NotFound()
		}
		n, err := movies.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return failure.NotFound()
		}
		deleted = *current
		return nil
	})
	if err != nil {
		return err
	}

	h.publish(ctx, queue.MovieDeleted, deleted)
	return c.JSON(http.StatusOK, messageResponse{Code: http.StatusOK, Status: "DELETED", Message: deletedMessage})
}

// publish sends the event in the background; the response never waits for
// the broker.
func (h *MovieHandler) publish(ctx context.Context, typ queue.EventType, m model.Movie) {
	ev := queue.NewMovieEvent(typ, m)
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		_ = h.Events.Publish(ctx, ev)
	}()
}

// movieID parses the :id path parameter.  Anything that is not a positive
// integer cannot match a record and is reported as not found.
func movieID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NotFound()
	}
	return id, nil
}

// bindFields decodes the JSON body.  A body that is not JSON is read as
// empty so the usual field validation reports it.  Syntax errors become
// malformed-body failures and type mismatches on a known field become
// validation failures; any other binder error is returned unchanged.
func bindFields(c echo.Context) (model.MovieFields, error) {
	var f model.MovieFields
	err := c.Bind(&f)
	if err == nil {
		return f, nil
	}

	cause := err
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusUnsupportedMediaType {
			return model.MovieFields{}, nil
		}
		if he.Internal != nil {
			cause = he.Internal
		}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(cause, &typeErr) && typeErr.Field != "" {
		return f, failure.Validation(failure.FieldError{
			Field:   typeErr.Field,
			Type:    "Validation error",
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type)),
		})
	}
	var syntaxErr *json.SyntaxError
	if errors.As(cause, &syntaxErr) || errors.As(cause, &typeErr) || errors.Is(cause, io.ErrUnexpectedEOF) {
		return f, failure.MalformedBody(cause, true)
	}
	return f, err
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Pointer:
		return jsonTypeName(t.Elem())
	default:
		return t.String()
	}
}
