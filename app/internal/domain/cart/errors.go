package cart

import "errors"

var ErrCorruptBlob = errors.New("corrupt cart data")
