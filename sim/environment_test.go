package sim

import "testing"

func TestEnvironment_Run_AdvancesClockInOrder(t *testing.T) {
	// GIVEN functions scheduled at out-of-order ticks
	env := NewEnvironment()
	var order []int64
	env.ScheduleFunc(20, func(env *Environment) { order = append(order, env.Now()) })
	env.ScheduleFunc(5, func(env *Environment) { order = append(order, env.Now()) })
	env.ScheduleFunc(10, func(env *Environment) { order = append(order, env.Now()) })

	// WHEN the environment runs
	env.Run(100)

	// THEN each function observed its own tick, in order
	want := []int64{5, 10, 20}
	if len(order) != len(want) {
		t.Fatalf("executed %d events, want %d", len(order), len(want))
	}
	for i, at := range order {
		if at != want[i] {
			t.Errorf("execution[%d] at tick %d, want %d", i, at, want[i])
		}
	}
}

func TestEnvironment_Run_StopsAtHorizon(t *testing.T) {
	// GIVEN one event inside and one beyond the horizon
	env := NewEnvironment()
	var executed []int64
	env.ScheduleFunc(50, func(env *Environment) { executed = append(executed, env.Now()) })
	env.ScheduleFunc(500, func(env *Environment) { executed = append(executed, env.Now()) })

	// WHEN run with horizon 100
	env.Run(100)

	// THEN only the in-horizon event executed
	if len(executed) != 1 || executed[0] != 50 {
		t.Errorf("executed %v, want [50]", executed)
	}
}

func TestEnvironment_Timeout_FiresAfterDuration(t *testing.T) {
	env := NewEnvironment()
	var firedAt int64 = -1
	env.ScheduleFunc(10, func(env *Environment) {
		env.Timeout(25).Subscribe(env, func(env *Environment) {
			firedAt = env.Now()
		})
	})

	env.Run(1000)

	if firedAt != 35 {
		t.Errorf("timeout fired at %d, want 35", firedAt)
	}
}

func TestEnvironment_ScheduleInPast_RunsAtCurrentTick(t *testing.T) {
	// GIVEN an event that schedules another event with a stale timestamp
	env := NewEnvironment()
	var firedAt int64 = -1
	env.ScheduleFunc(40, func(env *Environment) {
		env.ScheduleFunc(0, func(env *Environment) { firedAt = env.Now() })
	})

	env.Run(1000)

	// THEN the clock never moves backwards
	if firedAt != 40 {
		t.Errorf("stale event ran at %d, want 40", firedAt)
	}
}
