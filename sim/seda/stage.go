package seda

import (
	"github.com/sirupsen/logrus"

	"github.com/hdfs-sim/hdfs-sim/sim"
)

// Stage accepts composed requests and runs their resource work under its
// scheduling discipline.
type Stage interface {
	Name() string
	Submit(env *sim.Environment, req *Request)
}

// OnDemandStage runs every submitted request immediately with unlimited
// concurrency. It is the default stage variant.
type OnDemandStage struct {
	name string
}

// NewOnDemandStage creates an on-demand stage.
func NewOnDemandStage(name string) *OnDemandStage {
	return &OnDemandStage{name: name}
}

// Name returns the stage name.
func (s *OnDemandStage) Name() string { return s.name }

// Submit starts the request's resource work immediately.
func (s *OnDemandStage) Submit(env *sim.Environment, req *Request) {
	logrus.Tracef("stage %s: running request from client %d", s.name, req.clientID)
	req.finish(env, runDemands(env, req))
}

// runDemands issues every positive demand against its resource and returns
// a completion firing once all of them have been serviced. Demands are
// issued concurrently; the resources queue them independently.
func runDemands(env *sim.Environment, req *Request) *sim.Completion {
	var parts []*sim.Completion
	for _, d := range req.demands {
		if d.Amount <= 0 {
			continue
		}
		parts = append(parts, d.Resource.Acquire(env, req.clientID, d.Amount))
	}
	return sim.AllOf(env, parts...)
}

// WorkerStage runs requests through a fixed pool of handlers with an
// unbounded FIFO backlog. A handler is occupied from the moment it picks a
// request until that request's resource work completes; blocking links do
// not occupy the handler.
type WorkerStage struct {
	name    string
	workers int
	busy    int
	backlog []*Request
}

// NewWorkerStage creates a stage with the given handler count (minimum 1).
func NewWorkerStage(name string, workers int) *WorkerStage {
	if workers < 1 {
		workers = 1
	}
	return &WorkerStage{name: name, workers: workers}
}

// Name returns the stage name.
func (s *WorkerStage) Name() string { return s.name }

// Workers returns the handler pool size.
func (s *WorkerStage) Workers() int { return s.workers }

// Backlog returns the number of requests waiting for a handler.
func (s *WorkerStage) Backlog() int { return len(s.backlog) }

// Submit enqueues the request for the next free handler.
func (s *WorkerStage) Submit(env *sim.Environment, req *Request) {
	s.backlog = append(s.backlog, req)
	s.dispatch(env)
}

func (s *WorkerStage) dispatch(env *sim.Environment) {
	for s.busy < s.workers && len(s.backlog) > 0 {
		req := s.backlog[0]
		s.backlog = s.backlog[1:]
		s.busy++
		logrus.Tracef("stage %s: handler picked request from client %d (%d queued)",
			s.name, req.clientID, len(s.backlog))
		work := runDemands(env, req)
		work.Subscribe(env, func(env *sim.Environment) {
			s.busy--
			s.dispatch(env)
		})
		req.finish(env, work)
	}
}
