package engine

import "errors"

// ErrIndexNotReady marks a search attempted before CalculateWeights has
// ever succeeded. Search prefers returning it via an empty Result
// rather than surfacing an error, so concurrent index+search workloads
// stay safe (spec.md §7 "IndexNotReady").
var ErrIndexNotReady = errors.New("engine: index not ready")
