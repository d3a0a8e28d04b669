package application

import "errors"

var (
	ErrEmailExists              = errors.New("email already registered")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidPassword          = errors.New("invalid password")
	ErrEmailNotVerified         = errors.New("user is not verified")
	ErrUserNotFound             = errors.New("user not found")
	ErrResultNotFound           = errors.New("result not found")
	ErrNoResults                = errors.New("no results found for this user")
)
