package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/vine/pkg/context"
)

// Context copies request metadata into the request context and echoes the
// request id back to the caller. Routes with an :id parameter address an
// editor session, so the id is recorded as the editor id.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetReferer(ctx, req.Referer())
			if editorID := c.Param("id"); editorID != "" {
				ctx = context.SetEditorID(ctx, editorID)
			}

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
