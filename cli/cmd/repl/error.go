package repl

import "errors"

// ErrOutOfBounds is returned by [History.Entry] for an index outside the
// history.
var ErrOutOfBounds = errors.New("index out of range")
