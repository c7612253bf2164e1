// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements account, session and verification-code lifecycles.
//
// # Domain Types
//
// User, Session and VerificationCode are created through their constructors,
// which validate input:
//   - Credentials.Create builds a User and is the only path that hashes a password
//   - NewSession builds a Session with an expiry in the future
//   - NewVerificationCode builds a typed, expiring single-use code
//
// Repositories receive pre-validated values and only persist them.
//
// # Service
//
// Service is the lifecycle engine. It composes the credential store, the
// session and verification-code repositories and a token codec:
//   - CreateAccount and LoginUser start a new session and issue a token pair
//   - RefreshAccessToken issues a fresh access token and extends the session
//     when it is close to expiry
//   - LogoutUser deletes the session named by an access token
//   - VerifyEmail, SendPasswordReset and ResetPassword redeem codes
//
// Failures are oops errors whose code maps to a Kind; see KindOf.
package auth
