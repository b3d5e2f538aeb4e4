package client

import "errors"

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUnlicensed   = errors.New("version not available")
	ErrBadRequest   = errors.New("bad request")
)
