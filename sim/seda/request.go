package seda

import "github.com/hdfs-sim/hdfs-sim/sim"

// Demand is one entry of a request's demand set: amount units against one
// resource. Demands are an ordered slice rather than a map so resource
// acquisition order, and with it event ordering, is identical on every run.
type Demand struct {
	Resource *Resource
	Amount   float64
}

// Request is a composable unit of staged work: a demand set against one
// stage, downstream requests submitted alongside it, and blocking
// completions that gate its own completion.
//
// The completion fires once the request's own resource work has finished
// and every blocking completion has fired. Downstream requests are
// submitted at the same instant as the request itself; they are not gated
// on its completion. Request trees never contain cycles.
type Request struct {
	stage      Stage
	clientID   int
	demands    []Demand
	downstream []*Request
	blocking   []*sim.Completion
	done       *sim.Completion
	submitted  bool
}

// NewRequest builds a request targeting stage with the given demand set.
func NewRequest(stage Stage, clientID int, demands ...Demand) *Request {
	return &Request{
		stage:    stage,
		clientID: clientID,
		demands:  demands,
		done:     sim.NewCompletion(),
	}
}

// Stage returns the request's target stage.
func (r *Request) Stage() Stage { return r.stage }

// ClientID returns the requester identity.
func (r *Request) ClientID() int { return r.clientID }

// Demands returns the demand set in declaration order.
func (r *Request) Demands() []Demand { return r.demands }

// DemandOn returns the amount demanded against res, or 0 if res is not in
// the demand set.
func (r *Request) DemandOn(res *Resource) float64 {
	for _, d := range r.demands {
		if d.Resource == res {
			return d.Amount
		}
	}
	return 0
}

// Downstream returns the requests submitted alongside this one.
func (r *Request) Downstream() []*Request { return r.downstream }

// Done returns the request's completion event.
func (r *Request) Done() *sim.Completion { return r.done }

// AddDownstream links d for submission alongside this request.
func (r *Request) AddDownstream(d *Request) {
	r.downstream = append(r.downstream, d)
}

// AddBlocking gates this request's completion on c.
func (r *Request) AddBlocking(c *sim.Completion) {
	r.blocking = append(r.blocking, c)
}

// Submit hands the request to its stage and submits every downstream
// request at the same instant. Submitting twice is a no-op. All downstream
// and blocking links must be wired before the first Submit.
func (r *Request) Submit(env *sim.Environment) {
	if r.submitted {
		return
	}
	r.submitted = true
	r.stage.Submit(env, r)
	for _, d := range r.downstream {
		d.Submit(env)
	}
}

// AllDone returns this request's completion plus, recursively, the
// completions of every downstream request.
func (r *Request) AllDone() []*sim.Completion {
	out := []*sim.Completion{r.done}
	for _, d := range r.downstream {
		out = append(out, d.AllDone()...)
	}
	return out
}

// finish wires the completion: it fires once work has fired and every
// blocking completion has fired.
func (r *Request) finish(env *sim.Environment, work *sim.Completion) {
	parts := make([]*sim.Completion, 0, 1+len(r.blocking))
	parts = append(parts, work)
	parts = append(parts, r.blocking...)
	sim.AllOf(env, parts...).Subscribe(env, func(env *sim.Environment) {
		r.done.Fire(env)
	})
}
