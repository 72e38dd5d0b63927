package sim

import "github.com/sirupsen/logrus"

// Environment drives the simulation: it owns the virtual clock and the
// event heap. Events execute in (timestamp, schedule order); the clock
// advances only as events are processed.
type Environment struct {
	clock int64
	heap  *EventHeap
}

// NewEnvironment creates an environment with the clock at tick 0.
func NewEnvironment() *Environment {
	return &Environment{heap: NewEventHeap()}
}

// Now returns the current virtual time in ticks.
func (env *Environment) Now() int64 { return env.clock }

// Pending returns the number of scheduled events not yet executed.
func (env *Environment) Pending() int { return env.heap.Len() }

// Schedule queues an event for execution. An event stamped in the past
// executes at the current tick; the clock never moves backwards.
func (env *Environment) Schedule(e Event) {
	env.heap.Schedule(e)
}

// ScheduleFunc queues fn to run at tick at.
func (env *Environment) ScheduleFunc(at int64, fn func(env *Environment)) {
	env.Schedule(&funcEvent{time: at, fn: fn})
}

// Timeout returns a completion that fires d ticks from now.
func (env *Environment) Timeout(d int64) *Completion {
	c := NewCompletion()
	env.ScheduleFunc(env.clock+d, func(env *Environment) { c.Fire(env) })
	return c
}

// Run executes events in order until the heap drains or the next event
// lies beyond horizon.
func (env *Environment) Run(horizon int64) {
	for env.heap.Len() > 0 {
		ev := env.heap.PopNext()
		if ev.Timestamp() > env.clock {
			env.clock = ev.Timestamp()
		}
		if env.clock > horizon {
			break
		}
		logrus.Tracef("[tick %07d] executing %T", env.clock, ev)
		ev.Execute(env)
	}
	logrus.Infof("[tick %07d] simulation ended", env.clock)
}
