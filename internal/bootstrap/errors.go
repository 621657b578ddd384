package bootstrap

import (
	"errors"
	"fmt"
)

// ErrNoZones is returned when a new node must be placed but no zones are known.
var ErrNoZones = errors.New("no zones available for new nodes")

// ErrZoneUnknown is returned when a provisioned node reports no zone.
var ErrZoneUnknown = errors.New("provisioned node reports no zone")

// DiscoveryError reports a failed or inconsistent PlacementOracle lookup.
// It aborts the whole planning run.
type DiscoveryError struct {
	Op       string
	Identity NodeIdentity
	Err      error
}

func (e *DiscoveryError) Error() string {
	if e.Identity.Ordinal == 0 {
		return fmt.Sprintf("discovery %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("discovery %s %s: %v", e.Op, e.Identity.Tag(), e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
