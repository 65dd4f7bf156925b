package auth

import "errors"

var (
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrTokenExpired      = errors.New("token is expired")
	ErrTokenNotVerified  = errors.New("token is not verified")
	ErrWrongTokenType    = errors.New("incorrect token type")
	ErrSessionRevoked    = errors.New("session token was revoked")
	ErrUserNotFound      = errors.New("user not found")
	ErrInactiveUser      = errors.New("user is inactive")
	ErrInsufficientRole  = errors.New("role is not allowed for this action")
	ErrDuplicateIdentity = errors.New("external identity conflicts with an existing user")
)
