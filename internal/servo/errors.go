package servo

import "errors"

// ErrUnknownDriver is returned by ParseDriver for an unrecognized name.
var ErrUnknownDriver = errors.New("unknown servo driver")
