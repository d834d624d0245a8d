package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// HTTPErrorHandler returns an echo error handler that renders every error
// as {"error": message}. Classified errors keep their status and message;
// echo's own HTTPErrors pass through; anything else becomes a logged 500.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		switch e := err.(type) {
		case *echo.HTTPError:
			status = e.Code
			if s, ok := e.Message.(string); ok {
				message = s
			} else {
				message = http.StatusText(status)
			}
		default:
			status = Status(err)
			message = ClientMessage(err)
		}

		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, map[string]string{"error": message})
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
