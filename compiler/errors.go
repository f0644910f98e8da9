package compiler

import "errors"

// ErrEmptySource is returned immediately when the caller supplies an
// empty source string.
var ErrEmptySource = errors.New("compiler: source must not be empty")
