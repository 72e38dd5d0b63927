package sim

// Completion is a one-shot event handle on the virtual clock. Components
// subscribe callbacks that run when the completion fires; a completion
// fires at most once.
type Completion struct {
	fired bool
	at    int64
	subs  []func(env *Environment)
}

// NewCompletion creates an unfired completion.
func NewCompletion() *Completion { return &Completion{} }

// Fired reports whether the completion has fired.
func (c *Completion) Fired() bool { return c.fired }

// At returns the tick the completion fired at. Meaningful only once Fired
// reports true.
func (c *Completion) At() int64 { return c.at }

// Fire marks the completion fired at the current tick and invokes
// subscribers in subscription order. Firing twice is a no-op.
func (c *Completion) Fire(env *Environment) {
	if c.fired {
		return
	}
	c.fired = true
	c.at = env.Now()
	subs := c.subs
	c.subs = nil
	for _, fn := range subs {
		fn(env)
	}
}

// Subscribe registers fn to run when the completion fires. If the
// completion has already fired, fn runs immediately.
func (c *Completion) Subscribe(env *Environment, fn func(env *Environment)) {
	if c.fired {
		fn(env)
		return
	}
	c.subs = append(c.subs, fn)
}

// AllOf returns a completion that fires once every member has fired.
// It fires immediately for an empty set. Members that have already fired
// count as satisfied.
func AllOf(env *Environment, events ...*Completion) *Completion {
	out := NewCompletion()
	remaining := len(events)
	if remaining == 0 {
		out.Fire(env)
		return out
	}
	for _, ev := range events {
		ev.Subscribe(env, func(env *Environment) {
			remaining--
			if remaining == 0 {
				out.Fire(env)
			}
		})
	}
	return out
}
