package trickle

// Event is a sealed interface representing a streaming event.
// Transport/protocol errors come from Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventFragment carries one incremental piece of generated text.
type EventFragment struct {
	Text string
}

func (EventFragment) event() {}

// EventDone carries the final full text. It replaces everything received so
// far rather than being appended to it.
type EventDone struct {
	Result string
}

func (EventDone) event() {}

// Interface compliance checks.
var (
	_ Event = EventFragment{}
	_ Event = EventDone{}
)
