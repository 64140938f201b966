// Package service implements the domain operations of the blog: user
// registration and credential checks, post and comment lifecycle, and
// the image bookkeeping tied to both. Sentinel errors defined here let
// handlers translate failure modes into HTTP status codes without
// inspecting error strings.
package service

import "errors"

// ErrNotFound is returned when a lookup by id or name matches nothing.
// Delete-type operations do NOT return it; they are idempotent no-ops.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken signals a registration conflict on the username,
// compared case-insensitively. Handlers map it to HTTP 409.
var ErrUsernameTaken = errors.New("username already taken")

// ErrEmailTaken signals a registration conflict on the email address,
// compared case-insensitively. Handlers map it to HTTP 409.
var ErrEmailTaken = errors.New("email already taken")

// ErrInvalidCredentials is returned by Authenticate for an unknown
// username or a wrong password; callers cannot tell which.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrCommentLength is returned when a comment body is outside the
// accepted 5-500 character range.
var ErrCommentLength = errors.New("comment must be between 5 and 500 characters")
