// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package token signs and verifies the compact expiring tokens handed to clients.
//
// Two kinds exist. Access tokens name a user and a session and live for
// minutes. Refresh tokens name only a session and live for weeks; the user is
// always resolved through the session, so deleting the session invalidates the
// refresh token even while its signature is still good.
//
// Each kind is signed with its own secret. A Codec refuses to be built when the
// two secrets are equal, so one kind can never verify as the other.
package token
