package types

// Readiness is the derived work state of an issue. It is computed from the
// issue's status and the statuses of its blockers, never stored.
type Readiness string

// Readiness values.
const (
	ReadinessClosed     Readiness = "closed"
	ReadinessInProgress Readiness = "in_progress"
	ReadinessBlocked    Readiness = "blocked"
	ReadinessReady      Readiness = "ready"
)

// String returns the readiness as its display string.
func (r Readiness) String() string {
	return string(r)
}

// ComputeReadiness derives readiness from a status and the number of the
// issue's blockers that are not closed:
//
//   - closed status is terminal regardless of blockers
//   - in_progress passes through
//   - any other status (open or store-defined) is blocked when at least one
//     blocker is open, ready otherwise
func ComputeReadiness(status Status, openBlockers int) Readiness {
	switch status {
	case StatusClosed:
		return ReadinessClosed
	case StatusInProgress:
		return ReadinessInProgress
	default:
		if openBlockers > 0 {
			return ReadinessBlocked
		}
		return ReadinessReady
	}
}
