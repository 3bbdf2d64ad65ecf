package keybackend

import "errors"

// ErrKeyNotFound is returned when the access key id does not exist in the store.
var ErrKeyNotFound = errors.New("access key id not found")
