package defrag

import "errors"

var ErrResultNotFound = errors.New("result not found")
