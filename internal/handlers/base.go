package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// BindRequest binds and validates a request body.
func BindRequest[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return v, httperror.WrapError(http.StatusBadRequest, err)
	}
	return v, nil
}

// ParseEditorID reads the editor session id path parameter.
func ParseEditorID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "missing id")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", httperror.NewHTTPError(http.StatusBadRequest, "invalid id: must be a valid UUID")
	}
	return id, nil
}
