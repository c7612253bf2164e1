// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

// ErrorCodeInvalidAccessToken tells a client its access token is unusable and
// it should call the refresh endpoint.
const ErrorCodeInvalidAccessToken = "InvalidAccessToken"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message   string       `json:"message"`
	ErrorCode string       `json:"errorCode,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

var kindStatus = map[auth.Kind]int{
	auth.KindConflict:     http.StatusConflict,
	auth.KindUnauthorized: http.StatusUnauthorized,
	auth.KindNotFound:     http.StatusNotFound,
	auth.KindValidation:   http.StatusBadRequest,
	auth.KindInternal:     http.StatusInternalServerError,
}

// StatusOf maps an engine failure to its HTTP status.
func StatusOf(err error) int {
	if status, ok := kindStatus[auth.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// renderError writes err as JSON and aborts the chain. Internal failures are
// logged with their oops context and shown only as a generic message.
func renderError(c *gin.Context, logger *slog.Logger, err error) {
	status := StatusOf(err)
	body := ErrorResponse{Message: auth.PublicMessage(err)}
	if errutil.Code(err) == auth.CodeInvalidAccessToken {
		body.ErrorCode = ErrorCodeInvalidAccessToken
	}
	if status == http.StatusInternalServerError {
		errutil.LogErrorContext(c.Request.Context(), logger, "request failed", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
	c.AbortWithStatusJSON(status, body)
}

// renderBindError writes a request binding failure as 400.
func renderBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Path: fe.Field(), Message: fieldMessage(fe)})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request",
			Errors:  fields,
		})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
}

// renderUnauthorized writes a 401 carrying the InvalidAccessToken code.
func renderUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Message:   message,
		ErrorCode: ErrorCodeInvalidAccessToken,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "eqfield":
		return "Passwords don't match"
	default:
		return fmt.Sprintf("Failed %s validation", fe.Tag())
	}
}
