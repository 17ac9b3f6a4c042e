package catalog

import "errors"

// ErrInvalidCatalog is returned when a catalog fails to decode or validate.
var ErrInvalidCatalog = errors.New("invalid catalog")
