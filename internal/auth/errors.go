package auth

import "errors"

// ErrInvalidToken indicates the token failed signature or claims validation.
var ErrInvalidToken = errors.New("invalid or expired token")
