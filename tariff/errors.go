/*
errors.go - Centralized error types for the tariff engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The calculator itself never surfaces an error: malformed business input
  degrades to a zero-valued breakdown. Errors here belong to the edges
  around it - policy table validation at load time, and enum parsing at
  the input boundary.

USAGE:
  Boundary code rejects bad enums before they reach the engine:

    zone, err := tariff.ParseZone(req.Zone)
    if errors.Is(err, tariff.ErrUnknownZone) { ... 400 ... }

SEE ALSO:
  - policy.go: Validate() produces PolicyError values
  - types.go: Parse helpers produce UnknownEnumError values
*/
package tariff

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPolicy is returned when a policy table fails validation.
	ErrInvalidPolicy = errors.New("invalid policy table")

	// ErrUnknownZone is returned by ParseZone for unrecognized zones.
	ErrUnknownZone = errors.New("unknown zone")

	// ErrUnknownDayType is returned by ParseDayType for unrecognized day types.
	ErrUnknownDayType = errors.New("unknown day type")

	// ErrUnknownTier is returned by ParseTier for unrecognized membership tiers.
	ErrUnknownTier = errors.New("unknown membership tier")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PolicyError describes a single policy table validation failure.
type PolicyError struct {
	Zone   Zone   // empty for table-level problems
	Field  string // e.g. "cutoff_time", "weekday.per_hour"
	Reason string
}

func (e *PolicyError) Error() string {
	if e.Zone == "" {
		return fmt.Sprintf("policy: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("policy: zone %s: %s: %s", e.Zone, e.Field, e.Reason)
}

func (e *PolicyError) Unwrap() error { return ErrInvalidPolicy }

// UnknownEnumError reports an unrecognized enum value at the input boundary.
type UnknownEnumError struct {
	Kind  string // "zone", "day_type", "member_tier"
	Value string
	Err   error
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("%s: unrecognized value %q", e.Kind, e.Value)
}

func (e *UnknownEnumError) Unwrap() error { return e.Err }

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownZone) ||
		errors.Is(err, ErrUnknownDayType) ||
		errors.Is(err, ErrUnknownTier)
}
