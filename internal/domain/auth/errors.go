package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email already present in the directory.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRole marks a role outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
)
