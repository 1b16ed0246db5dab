package middleware

import (
	"errors"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/vine/pkg/context"
	"github.com/Ramsey-B/vine/pkg/tracing"
)

type ErrorResponse struct {
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	TraceID   string         `json:"trace_id,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// problem is the client-facing description of a handler error.
type problem struct {
	code    int
	message string
	meta    map[string]any
}

// describe maps err onto a status and message. Errors that are neither
// echo nor http errors become an opaque 500 so internal detail never leaks.
func describe(err error) problem {
	if httperror.IsHTTPError(err) {
		he := httperror.ToHTTPError(err)
		return problem{code: httperror.GetStatusCode(err), message: he.Error(), meta: he.Meta}
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		p := problem{code: ee.Code, message: http.StatusText(ee.Code)}
		if msg, ok := ee.Message.(string); ok && msg != "" {
			p.message = msg
		}
		return p
	}

	return problem{code: http.StatusInternalServerError, message: http.StatusText(http.StatusInternalServerError)}
}

// Error renders every error returned by a handler as an ErrorResponse.
// HEAD requests get the status only.
func Error(logger ectologger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		p := describe(err)

		log := logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"status": p.code,
			"method": c.Request().Method,
			"path":   c.Path(),
		})
		if id := context.GetEditorID(ctx); id != "" {
			log = log.WithField("editor_id", id)
		}
		if p.code >= http.StatusInternalServerError {
			log.Error("request failed")
		} else {
			log.Debug("request rejected")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(p.code)
			return
		}
		_ = c.JSON(p.code, ErrorResponse{
			Message:   p.message,
			RequestID: context.GetRequestID(ctx),
			TraceID:   tracing.GetTraceID(ctx),
			Meta:      p.meta,
		})
	}
}
