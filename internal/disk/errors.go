package disk

import "errors"

var ErrMalformedInput = errors.New("malformed disk map")
