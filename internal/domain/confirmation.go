package domain

// Confirmations returns the confirmation depth reached by the event at the given block number.
// The result is negative when the current block is behind the event's block.
func (e *Event) Confirmations(currentBlockNumber uint64) int64 {
	return int64(currentBlockNumber) - int64(e.BlockNumber) //nolint:gosec,G115
}

// HasReachedTarget reports whether the event has at least TargetConfirmation confirmations
func (e *Event) HasReachedTarget(currentBlockNumber uint64) bool {
	return e.Confirmations(currentBlockNumber) >= int64(e.TargetConfirmation) //nolint:gosec,G115
}

// IsExactlyConfirmed reports whether the confirmation depth equals TargetConfirmation
func (e *Event) IsExactlyConfirmed(currentBlockNumber uint64) bool {
	return e.Confirmations(currentBlockNumber) == int64(e.TargetConfirmation) //nolint:gosec,G115
}

// HasPassedTarget reports whether the confirmation depth is strictly above TargetConfirmation
func (e *Event) HasPassedTarget(currentBlockNumber uint64) bool {
	return e.Confirmations(currentBlockNumber) > int64(e.TargetConfirmation) //nolint:gosec,G115
}

// IsExpired reports whether an emitted event is old enough to be removed from the store.
// Only emitted events expire; the threshold is TargetConfirmation scaled by multiplier.
func (e *Event) IsExpired(currentBlockNumber uint64, multiplier float64) bool {
	if !e.Emitted {
		return false
	}

	return float64(e.Confirmations(currentBlockNumber)) >= float64(e.TargetConfirmation)*multiplier
}

// Status returns the confirmation progress summary of the event group
func (g *EventGroup) Status(currentBlockNumber uint64) ConfirmationStatus {
	return ConfirmationStatus{
		Event:              g.Event,
		TransactionHash:    g.TransactionHash,
		Confirmations:      int64(currentBlockNumber) - int64(g.BlockNumber), //nolint:gosec,G115
		TargetConfirmation: g.TargetConfirmation,
	}
}

// EventIDs returns the IDs of the given events
func EventIDs(events []Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

// Partition splits events into those matching the predicate and the rest, preserving order
func Partition(events []Event, predicate func(*Event) bool) (matched []Event, rest []Event) {
	for i := range events {
		if predicate(&events[i]) {
			matched = append(matched, events[i])
		} else {
			rest = append(rest, events[i])
		}
	}
	return matched, rest
}
