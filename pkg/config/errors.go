package config

import "errors"

// ErrInvalidConfiguration is returned for unknown configuration ids or
// incompatible setups (e.g. a loader config whose word-matcher presence
// disagrees with a saved index).
var ErrInvalidConfiguration = errors.New("config: invalid configuration")
