package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// recoverStackSize bounds the stack trace captured on panic.
const recoverStackSize = 4 << 10

// Recover returns middleware that catches panics from handlers, logs the
// panic with a stack trace, and returns a 500 response instead of
// crashing the server.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, recoverStackSize)
					stack = stack[:runtime.Stack(stack, false)]

					log.Error().
						Str("request_id", GetRequestID(c)).
						Interface("panic", r).
						Bytes("stack", stack).
						Msg("Handler panic recovered")

					err = echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("%v", r))
				}
			}()
			return next(c)
		}
	}
}
