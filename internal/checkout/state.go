package checkout

// State tracks where a placement attempt is in its lifecycle. The interactive
// surface polls it to show progress while external calls are in flight.
type State string

const (
	StateIdle            State = "Idle"
	StateSubmitting      State = "Submitting"
	StateAwaitingPayment State = "AwaitingPayment"
	StatePersisting      State = "Persisting"
	StateNotifying       State = "Notifying"
	StateCompleted       State = "Completed"
	StateFailed          State = "Failed"
)

// Active reports whether a placement attempt currently owns the workflow.
// AwaitingPayment counts as active: the shopper must confirm or cancel the
// pending payment before submitting again.
func (s State) Active() bool {
	switch s {
	case StateSubmitting, StateAwaitingPayment, StatePersisting, StateNotifying:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}
