package scenario

import "errors"

// ErrUnknownScenario is returned for a scenario type with no projection.
var ErrUnknownScenario = errors.New("unknown scenario type")
