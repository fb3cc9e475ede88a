package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "AlphaLabs/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recovery converts panics into 500 responses instead of tearing down the server.
func Recovery(log *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered",
						applogger.Any("panic", r),
						applogger.String("uri", c.Request().RequestURI),
						applogger.String("stack", string(debug.Stack())),
					)
					err = echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("%v", r))
				}
			}()
			return next(c)
		}
	}
}
