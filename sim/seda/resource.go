// Package seda implements the staged resource-scheduling engine: named
// fixed-capacity resources with a pluggable queueing discipline, processing
// stages with pluggable scheduling, and composable stage requests that
// declare demand against a node's resources.
package seda

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/hdfs-sim/hdfs-sim/sim"
)

// Queue is the queueing discipline for acquisitions waiting on a resource.
// The default is unbounded FIFO.
type Queue interface {
	Push(a *Acquisition)
	Pop() *Acquisition
	Len() int
}

// Acquisition is one queued demand against a resource.
type Acquisition struct {
	ClientID int
	Busy     int64
	done     *sim.Completion
}

type fifoQueue struct {
	items []*Acquisition
}

func (q *fifoQueue) Push(a *Acquisition) { q.items = append(q.items, a) }

func (q *fifoQueue) Pop() *Acquisition {
	a := q.items[0]
	q.items = q.items[1:]
	return a
}

func (q *fifoQueue) Len() int { return len(q.items) }

// Resource is a named, fixed-capacity shared resource. A demand amount is
// translated into busy time through the service rate (demand units per
// tick); a granted acquisition holds one capacity slot for its busy time.
type Resource struct {
	name      string
	capacity  int
	rate      float64
	inService int
	waiting   Queue
}

// NewResource creates a resource with the default unbounded FIFO
// discipline. rate must be positive.
func NewResource(name string, capacity int, rate float64) *Resource {
	return NewResourceWithQueue(name, capacity, rate, &fifoQueue{})
}

// NewResourceWithQueue creates a resource with an explicit queueing
// discipline.
func NewResourceWithQueue(name string, capacity int, rate float64, q Queue) *Resource {
	return &Resource{name: name, capacity: capacity, rate: rate, waiting: q}
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// Capacity returns the number of concurrent holders the resource admits.
func (r *Resource) Capacity() int { return r.capacity }

// Rate returns the service rate in demand units per tick.
func (r *Resource) Rate() float64 { return r.rate }

// InService returns the number of acquisitions currently holding a slot.
func (r *Resource) InService() int { return r.inService }

// QueueLen returns the number of acquisitions waiting for a slot.
func (r *Resource) QueueLen() int { return r.waiting.Len() }

// Acquire submits a demand for amount units. The returned completion fires
// once the demand has been granted a slot and its busy time has elapsed.
// Busy time is amount/rate ticks rounded up, so positive work always
// advances the clock. Non-positive amounts complete immediately without
// holding capacity.
func (r *Resource) Acquire(env *sim.Environment, clientID int, amount float64) *sim.Completion {
	done := sim.NewCompletion()
	if amount <= 0 {
		done.Fire(env)
		return done
	}
	busy := int64(math.Ceil(amount / r.rate))
	if busy < 1 {
		busy = 1
	}
	r.waiting.Push(&Acquisition{ClientID: clientID, Busy: busy, done: done})
	r.dispatch(env)
	return done
}

// dispatch grants waiting acquisitions while capacity slots are free.
func (r *Resource) dispatch(env *sim.Environment) {
	for r.inService < r.capacity && r.waiting.Len() > 0 {
		a := r.waiting.Pop()
		r.inService++
		logrus.Tracef("resource %s: client %d holds a slot for %d ticks", r.name, a.ClientID, a.Busy)
		env.ScheduleFunc(env.Now()+a.Busy, func(env *sim.Environment) {
			r.inService--
			a.done.Fire(env)
			r.dispatch(env)
		})
	}
}
