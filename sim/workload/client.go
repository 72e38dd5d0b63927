package workload

import (
	"github.com/sirupsen/logrus"

	"github.com/hdfs-sim/hdfs-sim/sim"
	"github.com/hdfs-sim/hdfs-sim/sim/hdfs"
)

// Client is a closed-loop workload: num_instances independent loops, each
// cycling lookup -> read -> write -> think against the cluster facade and
// waiting for each phase's completion before moving on. A monitor reports
// and resets window statistics every monitor interval, so memory stays
// O(1) regardless of run length.
type Client struct {
	env  *sim.Environment
	fs   *hdfs.HDFS
	name string
	id   int

	numInstances    int
	lookupTime      float64
	readSize        float64
	writeSize       float64
	thinkTime       int64
	monitorInterval int64

	// window counters, reset on every monitor report
	windowReqs    int
	windowLatency int64
	windowMax     int64

	// run totals
	totalReqs    int
	totalLatency int64
	maxLatency   int64
	windowAvgs   []float64
}

// NewClient builds a client from a validated spec and starts its instances
// and monitor on env.
func NewClient(env *sim.Environment, fs *hdfs.HDFS, spec ClientSpec) *Client {
	c := &Client{
		env:             env,
		fs:              fs,
		name:            *spec.ClientName,
		id:              *spec.ClientID,
		numInstances:    *spec.NumInstances,
		lookupTime:      *spec.LookupTime,
		readSize:        *spec.ReadSize,
		writeSize:       *spec.WriteSize,
		thinkTime:       *spec.ThinkTime,
		monitorInterval: spec.monitorInterval(),
	}
	for i := 0; i < c.numInstances; i++ {
		c.env.ScheduleFunc(env.Now(), func(env *sim.Environment) { c.beginCycle(env) })
	}
	c.scheduleMonitor()
	return c
}

// Name returns the client display name.
func (c *Client) Name() string { return c.name }

// ID returns the client identity used in request demand descriptors.
func (c *Client) ID() int { return c.id }

// beginCycle starts one lookup -> read -> write -> think iteration.
func (c *Client) beginCycle(env *sim.Environment) {
	start := env.Now()
	c.lookup(env, start)
}

func (c *Client) lookup(env *sim.Environment, start int64) {
	if c.lookupTime <= 0 {
		c.read(env, start)
		return
	}
	req, _ := c.fs.LookupRequest(c.id, c.lookupTime)
	req.Submit(env)
	// Wait for every completion the metadata composition produced, not just
	// the primary one; namenode variants may extend the request tree.
	done := sim.AllOf(env, req.AllDone()...)
	done.Subscribe(env, func(env *sim.Environment) { c.read(env, start) })
}

func (c *Client) read(env *sim.Environment, start int64) {
	if c.readSize <= 0 {
		c.write(env, start)
		return
	}
	req, done := c.fs.ReadRequest(c.id, c.readSize)
	req.Submit(env)
	done.Subscribe(env, func(env *sim.Environment) { c.write(env, start) })
}

func (c *Client) write(env *sim.Environment, start int64) {
	if c.writeSize <= 0 {
		c.finishCycle(env, start)
		return
	}
	// The client issues from outside the cluster: no originating node, so
	// locality-first placement does not apply.
	req, ackDone := c.fs.WriteRequest(nil, c.id, c.writeSize)
	req.Submit(env)
	ackDone.Subscribe(env, func(env *sim.Environment) { c.finishCycle(env, start) })
}

// finishCycle records the cycle latency and schedules the next cycle.
// A lookup + a read + a write counts as one request.
func (c *Client) finishCycle(env *sim.Environment, start int64) {
	latency := env.Now() - start
	c.windowReqs++
	c.windowLatency += latency
	if latency > c.windowMax {
		c.windowMax = latency
	}
	c.totalReqs++
	c.totalLatency += latency
	if latency > c.maxLatency {
		c.maxLatency = latency
	}

	next := func(env *sim.Environment) { c.beginCycle(env) }
	switch {
	case c.thinkTime > 0:
		env.Timeout(c.thinkTime).Subscribe(env, next)
	case latency == 0:
		// Idle cycle with no think time: cost one tick so the event loop
		// keeps advancing instead of spinning at the current instant.
		env.Timeout(1).Subscribe(env, next)
	default:
		env.ScheduleFunc(env.Now(), next)
	}
}

func (c *Client) scheduleMonitor() {
	c.env.Timeout(c.monitorInterval).Subscribe(c.env, func(env *sim.Environment) {
		c.report(env)
		c.scheduleMonitor()
	})
}

// report emits one statistics line for the window and resets the window
// counters.
func (c *Client) report(env *sim.Environment) {
	avg := 0.0
	if c.windowReqs > 0 {
		avg = float64(c.windowLatency) / float64(c.windowReqs)
	}
	logrus.WithFields(logrus.Fields{
		"client":      c.name,
		"client_id":   c.id,
		"requests":    c.windowReqs,
		"avg_latency": avg,
		"max_latency": c.windowMax,
		"tick":        env.Now(),
	}).Info("client window statistics")
	if c.windowReqs > 0 {
		c.windowAvgs = append(c.windowAvgs, avg)
	}
	c.windowReqs = 0
	c.windowLatency = 0
	c.windowMax = 0
}

// TotalRequests returns the number of completed cycles over the whole run.
func (c *Client) TotalRequests() int { return c.totalReqs }

// TotalLatency returns the summed cycle latency over the whole run.
func (c *Client) TotalLatency() int64 { return c.totalLatency }

// MaxLatency returns the largest cycle latency observed over the whole run.
func (c *Client) MaxLatency() int64 { return c.maxLatency }

// WindowAverages returns the average latency of each non-empty reporting
// window, in emission order.
func (c *Client) WindowAverages() []float64 { return c.windowAvgs }
