package readiness

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel kinds for unavailable results.
var (
	// ErrServiceNotDefined is a configuration error: a requested code has
	// no service definition.
	ErrServiceNotDefined = errors.New("service not defined")
	// ErrNoMembers means there is no team to score.
	ErrNoMembers = errors.New("no team members")
)

// UnavailableError is a typed caller error. It unwraps to its Kind.
type UnavailableError struct {
	Code   string
	Reason string
	Kind   error
}

func (e *UnavailableError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("readiness unavailable: %s", e.Reason)
	}
	return fmt.Sprintf("service %q unavailable: %s", e.Code, e.Reason)
}

func (e *UnavailableError) Unwrap() error { return e.Kind }

// MarshalJSON renders the error for API responses.
func (e *UnavailableError) MarshalJSON() ([]byte, error) {
	kind := ""
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	return json.Marshal(struct {
		Code   string `json:"code,omitempty"`
		Reason string `json:"reason"`
		Kind   string `json:"kind"`
	}{e.Code, e.Reason, kind})
}

// UnmarshalJSON restores the error, mapping the kind back to its sentinel.
func (e *UnavailableError) UnmarshalJSON(data []byte) error {
	var raw struct {
		Code   string `json:"code"`
		Reason string `json:"reason"`
		Kind   string `json:"kind"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Code, e.Reason = raw.Code, raw.Reason
	switch raw.Kind {
	case "":
		e.Kind = nil
	case ErrServiceNotDefined.Error():
		e.Kind = ErrServiceNotDefined
	case ErrNoMembers.Error():
		e.Kind = ErrNoMembers
	default:
		e.Kind = errors.New(raw.Kind)
	}
	return nil
}
