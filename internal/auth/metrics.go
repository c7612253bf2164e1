// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

// Operation names reported to a MetricsRecorder.
const (
	OpCreateAccount     = "create_account"
	OpLogin             = "login"
	OpRefresh           = "refresh"
	OpLogout            = "logout"
	OpVerifyEmail       = "verify_email"
	OpSendPasswordReset = "send_password_reset"
	OpResetPassword     = "reset_password"
	OpAuthenticate      = "authenticate"
	OpGetUser           = "get_user"
)

// OutcomeSuccess is reported for operations that returned no error. Failed
// operations report their Kind.
const OutcomeSuccess = "success"

// MetricsRecorder receives engine outcomes.
type MetricsRecorder interface {
	RecordOperation(operation, outcome string)
	RecordSessionExtended()
}

type nopMetrics struct{}

func (nopMetrics) RecordOperation(string, string) {}
func (nopMetrics) RecordSessionExtended()         {}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return string(KindOf(err))
}
