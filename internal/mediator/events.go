package mediator

// Event names dispatched to listeners.
const (
	EventValueChange = "valueChange"
	EventStateChange = "stateChange"
)

// Event is a notification payload delivered to listeners.
type Event interface {
	Name() string
}

// ValueChange reports a successful shared-year transition.
type ValueChange struct {
	Old int
	New int
}

func (ValueChange) Name() string { return EventValueChange }

// StateChange reports a generic state-bag write, including unvalidated
// ones made through SetValue.
type StateChange struct {
	Key string
	Old any
	New any
}

func (StateChange) Name() string { return EventStateChange }

// ListenerFunc receives events for one event name.
type ListenerFunc func(Event)

// Subscription identifies one registered listener so it can be removed.
// Go functions are not comparable, so removal is by token rather than
// by callback identity.
type Subscription struct {
	event string
	id    uint64
}

type subscriber struct {
	id uint64
	fn ListenerFunc
}
