package response

import (
	"errors"
	"net/http"

	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is a route handler that returns a result or an error instead of
// writing to the response directly.
type Handler func(c *gin.Context) (*Result, error)

// Wrap converts a Handler into a gin handler that always answers with the
// envelope shape. It is the single chokepoint between handlers and the
// transport layer: coded errors map to their status, anything else becomes
// INTERNAL_ERROR, and panics are recovered into the same path so no failure
// mode can escape unwrapped.
func Wrap(log *logger.Logger, h Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Handler panicked",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path))
				writeError(c, &Error{Code: CodeInternal, Message: "internal server error"})
			}
		}()

		result, err := h(c)
		if err != nil {
			var coded *Error
			if !errors.As(err, &coded) {
				log.Error("Handler failed",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path))
				coded = &Error{Code: CodeInternal, Message: "internal server error"}
			} else if HTTPStatus(coded.Code) >= http.StatusInternalServerError {
				log.Error("Handler failed",
					zap.String("code", string(coded.Code)),
					zap.String("message", coded.Message),
					zap.String("path", c.Request.URL.Path))
			}
			writeError(c, coded)
			return
		}

		if result == nil {
			result = OK(nil)
		}

		c.JSON(result.Status, Envelope{
			Success: true,
			Data:    result.Data,
			Meta:    result.Meta,
		})
	}
}

func writeError(c *gin.Context, e *Error) {
	c.JSON(HTTPStatus(e.Code), Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	})
}
