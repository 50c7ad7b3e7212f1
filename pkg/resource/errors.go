package resource

import "errors"

// ErrNotFound indicates an unknown or revoked locator
var ErrNotFound = errors.New("resource not found")
