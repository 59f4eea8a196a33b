package auth

import "errors"

var (
	UserNotFoundErr  = errors.New("user not found")
	RoleLookupErr    = errors.New("role lookup failed")
	SessionCreateErr = errors.New("failed to create session")
	SessionDeleteErr = errors.New("failed to delete sessions")
)
