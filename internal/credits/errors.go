package credits

import "errors"

// ErrInsufficientCredits means the balance cannot cover the requested
// deduction. The balance is left untouched when this is returned.
var ErrInsufficientCredits = errors.New("insufficient credits")
