package hasher

import "errors"

var ErrInvalidDigest = errors.New("invalid digest length")
