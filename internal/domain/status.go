package domain

type Status string

const (
	StatusPlaced        Status = "placed"
	StatusConfirmed     Status = "confirmed"
	StatusInPreparation Status = "in_preparation"
	StatusReady         Status = "ready"
	StatusDelivered     Status = "delivered"
	StatusCancelled     Status = "cancelled"
)

// fulfilment order; cancelled sits outside the line
var fulfilment = []Status{
	StatusPlaced,
	StatusConfirmed,
	StatusInPreparation,
	StatusReady,
	StatusDelivered,
}

// transitions lists every allowed move. Forward steps may skip stages,
// cancellation is open to every non-terminal state.
var transitions = buildTransitions()

func buildTransitions() map[Status]map[Status]bool {
	t := make(map[Status]map[Status]bool, len(fulfilment)+1)
	for i, from := range fulfilment {
		next := make(map[Status]bool)
		for _, to := range fulfilment[i+1:] {
			next[to] = true
		}
		if from != StatusDelivered {
			next[StatusCancelled] = true
		}
		t[from] = next
	}
	t[StatusCancelled] = map[Status]bool{}
	return t
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return &StateError{From: from, To: to, Reason: "unknown status"}
	}
	if from.Terminal() {
		return &StateError{From: from, To: to, Reason: "order is already " + string(from)}
	}
	if !CanTransition(from, to) {
		return &StateError{From: from, To: to, Reason: "transition not allowed"}
	}
	return nil
}

// AllowedTransitions returns the statuses reachable from s in fulfilment order.
func AllowedTransitions(s Status) []Status {
	var out []Status
	for _, to := range fulfilment[1:] {
		if CanTransition(s, to) {
			out = append(out, to)
		}
	}
	if CanTransition(s, StatusCancelled) {
		out = append(out, StatusCancelled)
	}
	return out
}
