package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movies-api/internal/failure"
	"github.com/iliyamo/movies-api/internal/metrics"
)

// httpErrorResponse reports errors raised by echo itself (unknown route,
// method not allowed, body too large).  They keep their status code and
// carry no status label.
type httpErrorResponse struct {
	Code   int   `json:"code"`
	Errors []any `json:"errors"`
}

// ErrorHandler is the echo HTTPErrorHandler of the API.  It renders every
// failure returned by a handler with failure.Classify.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code int
		body any
	)
	var he *echo.HTTPError
	if failure.KindOf(err) == failure.KindUnclassified && errors.As(err, &he) {
		code = he.Code
		body = httpErrorResponse{Code: he.Code, Errors: []any{httpErrorMessage(he)}}
	} else {
		resp := failure.Classify(err)
		code, body = resp.Code, resp
		metrics.FailuresTotal.WithLabelValues(failure.KindOf(err).String()).Inc()
		if code >= http.StatusInternalServerError {
			slog.Error("request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err)
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		slog.Warn("write error response failed", "error", writeErr)
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
