package http

import (
	"errors"
	"net/http"

	"parceltrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrInvariantViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newError(err error) (int, Error) {
	code := statusOf(err)
	body := Error{Code: code, Message: err.Error()}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields()
	} else if field := errs.FieldOf(err); field != "" && code == http.StatusUnprocessableEntity {
		body.Fields = []string{field}
	}

	if code == http.StatusInternalServerError && !errors.Is(err, errs.ErrPersistence) {
		body.Message = "internal error"
	}
	return code, body
}

func (s *Server) fail(ctx echo.Context, err error) error {
	code, body := newError(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
	}
	return ctx.JSON(code, body)
}

// ErrorHandler renders echo's own errors (routing, binding) in the API's
// error shape.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if ctx.Request().Method == http.MethodHead {
		_ = ctx.NoContent(code)
		return
	}
	_ = ctx.JSON(code, Error{Code: code, Message: message})
}
