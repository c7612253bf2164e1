// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"

	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrStale is returned by a conditional write whose precondition no longer holds.
var ErrStale = errors.New("stale write")

// Kind classifies a failure for callers that render it.
type Kind string

// Failure kinds.
const (
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation"
	KindInternal     Kind = "internal"
)

// Failure codes with a public meaning.
const (
	CodeEmailTaken          = "AUTH_EMAIL_TAKEN"
	CodeInvalidCredentials  = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidRefreshToken = "AUTH_INVALID_REFRESH_TOKEN"
	CodeSessionExpired      = "AUTH_SESSION_EXPIRED"
	CodeInvalidAccessToken  = "AUTH_INVALID_ACCESS_TOKEN"
	CodeInvalidCode         = "AUTH_INVALID_CODE"
	CodeUserNotFound        = "AUTH_USER_NOT_FOUND"
	CodeVerifyFailed        = "AUTH_VERIFY_FAILED"
	CodeValidationFailed    = "AUTH_VALIDATION_FAILED"
	CodeInvalidEmail        = "USER_INVALID_EMAIL"
	CodeInvalidPassword     = "USER_INVALID_PASSWORD"
)

// InternalMessage is shown for every internal failure.
const InternalMessage = "Internal Server Error"

type failure struct {
	kind    Kind
	message string
}

var failures = map[string]failure{
	CodeEmailTaken:          {KindConflict, "Email already in use"},
	CodeInvalidCredentials:  {KindUnauthorized, "Invalid email or password"},
	CodeInvalidRefreshToken: {KindUnauthorized, "Invalid refresh token"},
	CodeSessionExpired:      {KindUnauthorized, "Session expired"},
	CodeInvalidAccessToken:  {KindUnauthorized, "Invalid access token"},
	CodeInvalidCode:         {KindNotFound, "Invalid or expired verification code"},
	CodeUserNotFound:        {KindNotFound, "User not found"},
	CodeVerifyFailed:        {KindInternal, "Failed to verify email"},
	CodeValidationFailed:    {KindValidation, "Invalid request"},
	CodeInvalidEmail:        {KindValidation, "Invalid email address"},
	CodeInvalidPassword:     {KindValidation, "Password must be between 6 and 255 characters"},
}

// fail builds the failure registered under code. attrs are key/value pairs
// attached as oops context.
func fail(code string, attrs ...any) error {
	f, ok := failures[code]
	if !ok {
		f = failure{KindInternal, InternalMessage}
	}
	builder := oops.Code(code)
	if len(attrs) > 0 {
		builder = builder.With(attrs...)
	}
	return builder.Errorf("%s", f.message)
}

// KindOf classifies err by its oops code. Errors without a registered code
// are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if f, ok := failures[errutil.Code(err)]; ok {
		return f.kind
	}
	return KindInternal
}

// PublicMessage returns the message that is safe to show to a client.
func PublicMessage(err error) string {
	f, ok := failures[errutil.Code(err)]
	if !ok || f.kind == KindInternal {
		return InternalMessage
	}
	return f.message
}
