package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrRemote                = errors.New("remote call failed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPlayerNotIndexed      = errors.New("player not found in search index")
	ErrRateLimited           = errors.New("too many actions")
	ErrClosed                = errors.New("view controller closed")
)
