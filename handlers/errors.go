package handlers

import (
	"errors"
	"net/http"
	"strings"

	"personnel_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgInternal = "Erreur interne du serveur"

// statusFor maps a service error kind to its HTTP status
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindDependencyBlocked:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// serviceError converts an error returned by the services package into an
// *echo.HTTPError. Internal errors are logged and answered with a generic message.
func serviceError(c echo.Context, err error) error {
	var se *services.Error
	if errors.As(err, &se) {
		return echo.NewHTTPError(statusFor(se.Kind), se.Message)
	}

	zap.L().Error("Request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return echo.NewHTTPError(http.StatusInternalServerError, msgInternal).SetInternal(err)
}

// errorBody is the envelope of /api/auth errors
type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// HTTPErrorHandler renders every error as JSON: {statusCode, error, message}
// under /api/auth, {error} everywhere else.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he, ok := err.(*echo.HTTPError)
	if !ok {
		he = serviceError(c, err).(*echo.HTTPError)
	}

	message := msgInternal
	if m, ok := he.Message.(string); ok {
		message = m
	} else if he.Code < http.StatusInternalServerError {
		message = http.StatusText(he.Code)
	}

	var body interface{} = map[string]string{"error": message}
	if strings.HasPrefix(c.Request().URL.Path, "/api/auth") {
		body = errorBody{StatusCode: he.Code, Error: http.StatusText(he.Code), Message: message}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(he.Code)
	} else {
		writeErr = c.JSON(he.Code, body)
	}
	if writeErr != nil {
		zap.L().Warn("Failed to write error response", zap.Error(writeErr))
	}
}
