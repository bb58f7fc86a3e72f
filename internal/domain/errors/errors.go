// Package errors defines the domain error sentinels shared by services,
// repositories and the HTTP boundary. Callers match them with errors.Is;
// repositories translate driver errors into them so nothing above the
// persistence layer ever inspects a pg error code.
package errors

import "errors"

var (
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists signals a uniqueness violation.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrForbidden signals an authenticated caller lacking the capability.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials covers every login failure: unknown identifier,
	// wrong password, inactive account. One sentinel, one response.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers every token verification failure: malformed,
	// bad signature, expired, wrong type, unknown jti.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked signals an access token whose jti is blocklisted.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrReuseDetected signals rotation of an already-consumed refresh
	// token. By the time a caller sees it, the cascade revocation of the
	// user's active refresh tokens has completed.
	ErrReuseDetected = errors.New("refresh token reuse detected")

	// ErrConflict signals a lost concurrent update, such as losing the
	// rotation race for a refresh token.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition signals an issue status change outside the
	// workflow table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCriticalNeedsComment signals closing a critical issue that has no
	// comments yet.
	ErrCriticalNeedsComment = errors.New("critical issue requires a comment before closing")
)
