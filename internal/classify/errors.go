package classify

import "errors"

// ErrUnknownTieBreak is returned by ParseTieBreak for unknown names.
var ErrUnknownTieBreak = errors.New("unknown tie break")
