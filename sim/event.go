package sim

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in ticks) and an Execute method that
// advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(env *Environment)
}

// funcEvent adapts a plain function to the Event interface.
type funcEvent struct {
	time int64
	fn   func(env *Environment)
}

func (e *funcEvent) Timestamp() int64 { return e.time }

func (e *funcEvent) Execute(env *Environment) { e.fn(env) }
