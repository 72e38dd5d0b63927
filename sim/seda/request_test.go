package seda

import (
	"testing"

	"github.com/hdfs-sim/hdfs-sim/sim"
)

func TestRequest_DemandOn(t *testing.T) {
	stage := NewOnDemandStage("s")
	io := NewResource("io", 1, 1.0)
	net := NewResource("net", 1, 1.0)
	other := NewResource("other", 1, 1.0)
	req := NewRequest(stage, 1,
		Demand{Resource: io, Amount: 64e3},
		Demand{Resource: net, Amount: 0},
	)

	if got := req.DemandOn(io); got != 64e3 {
		t.Errorf("DemandOn(io): got %v, want 64000", got)
	}
	if got := req.DemandOn(net); got != 0 {
		t.Errorf("DemandOn(net): got %v, want 0", got)
	}
	if got := req.DemandOn(other); got != 0 {
		t.Errorf("DemandOn(other): got %v, want 0", got)
	}
}

func TestRequest_AllDone_CollectsDownstreamTree(t *testing.T) {
	// GIVEN a request tree: root -> {a, b}, a -> {c}
	stage := NewOnDemandStage("s")
	root := NewRequest(stage, 1)
	a := NewRequest(stage, 1)
	b := NewRequest(stage, 1)
	c := NewRequest(stage, 1)
	a.AddDownstream(c)
	root.AddDownstream(a)
	root.AddDownstream(b)

	// WHEN AllDone is collected
	all := root.AllDone()

	// THEN it contains every completion in the tree exactly once
	if len(all) != 4 {
		t.Fatalf("AllDone returned %d completions, want 4", len(all))
	}
	want := []*sim.Completion{root.Done(), a.Done(), c.Done(), b.Done()}
	for i, comp := range all {
		if comp != want[i] {
			t.Errorf("AllDone[%d] is not the expected completion", i)
		}
	}
}

func TestRequest_Submit_Idempotent(t *testing.T) {
	// GIVEN a submitted request
	env := sim.NewEnvironment()
	stage := NewWorkerStage("s", 1)
	res := NewResource("r", 1, 1.0)
	req := NewRequest(stage, 1, Demand{Resource: res, Amount: 5})

	// WHEN submitted twice
	req.Submit(env)
	req.Submit(env)

	// THEN the stage saw it once
	if stage.Backlog() != 0 {
		t.Errorf("backlog %d after double submit, want 0 (one picked, none queued)", stage.Backlog())
	}
	env.Run(100)
	if req.Done().At() != 5 {
		t.Errorf("completed at %d, want 5 (double submit must not re-run work)", req.Done().At())
	}
}
