package fluid

import "errors"

// ErrInvalidConfig is returned (wrapped) by New for malformed grids,
// parameters, strategies or bodies.
var ErrInvalidConfig = errors.New("fluid: invalid configuration")
