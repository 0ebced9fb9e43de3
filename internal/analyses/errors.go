package analyses

import "errors"

// ErrInvalidProviderOutput means both providers responded but at least one
// result failed cross-validation. A server-side fault, not user-actionable.
var ErrInvalidProviderOutput = errors.New("invalid provider output")
