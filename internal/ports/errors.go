package ports

import "errors"

// ErrVersionMismatch is returned by UserRepository.ReplaceLocations when the
// stored list changed since it was read.
var ErrVersionMismatch = errors.New("location list version mismatch")
