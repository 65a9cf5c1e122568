package files

import "errors"

var ErrNotFound = errors.New("file not found")
