// Package middleware contains the echo middleware of the movies API.
package middleware

import "github.com/labstack/echo/v4"

type rejection struct {
	Code   int      `json:"code"`
	Status string   `json:"status"`
	Errors []string `json:"errors"`
}

// reject writes the error envelope for requests stopped before a handler.
func reject(c echo.Context, code int, status, msg string) error {
	return c.JSON(code, rejection{Code: code, Status: status, Errors: []string{msg}})
}
