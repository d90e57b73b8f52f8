package evaluator

import "testing"

func TestEnvironmentLookup(t *testing.T) {
	env := NewEnvironment()
	global := env.Global()
	env.Set(global, "x", 1.0)

	inner := env.Push(global)
	env.Set(inner, "y", 2.0)
	if v, ok := env.Get(inner, "x"); !ok || v != 1.0 {
		t.Errorf("x through parent: got %v, %v", v, ok)
	}
	if _, ok := env.Get(global, "y"); ok {
		t.Error("y must not leak into the global frame")
	}
	if !env.Update(inner, "x", 3.0) {
		t.Fatal("update of x failed")
	}
	if v, _ := env.Get(global, "x"); v != 3.0 {
		t.Errorf("update should reach the defining frame, got %v", v)
	}
	if env.Update(inner, "missing", 1.0) {
		t.Error("update of an undefined name must fail")
	}
}

func TestEnvironmentRelease(t *testing.T) {
	env := NewEnvironment()
	mark := env.Mark()
	a := env.Push(env.Global())
	env.Push(a)
	env.Release(mark)
	if env.Len() != 1 {
		t.Errorf("expected only the global frame, got %d", env.Len())
	}

	// a captured frame outlives its arena slot
	mark = env.Mark()
	outer := env.Push(env.Global())
	env.Set(outer, "n", 5.0)
	captured := env.Capture(outer)
	env.Push(outer)
	env.Release(mark)
	if env.Len() != 1 {
		t.Fatalf("expected only the global frame, got %d", env.Len())
	}
	inner := env.PushCaptured(captured)
	if v, ok := env.Get(inner, "n"); !ok || v != 5.0 {
		t.Errorf("captured frame lost its bindings: %v, %v", v, ok)
	}
	if !env.Update(inner, "n", 6.0) {
		t.Fatal("update through a captured frame failed")
	}
	again := env.PushCaptured(captured)
	if v, _ := env.Get(again, "n"); v != 6.0 {
		t.Errorf("captured frame is shared, got %v", v)
	}

	// the global frame is never released
	env.Release(0)
	if env.Len() != 1 {
		t.Errorf("expected the global frame to survive, got %d", env.Len())
	}
}

func TestLambdasInLoopsDoNotGrowTheArena(t *testing.T) {
	env := NewEnvironment()
	var kept []Captured
	for i := 0; i < 1000; i++ {
		mark := env.Mark()
		body := env.Push(env.Global())
		env.Set(body, "i", float64(i))
		kept = append(kept, env.Capture(body))
		env.Release(mark)
	}
	if env.Len() != 1 {
		t.Errorf("arena kept %d slots after the loop", env.Len())
	}
	for i, c := range kept {
		if v, _ := env.Get(env.PushCaptured(c), "i"); v != float64(i) {
			t.Fatalf("capture %d sees %v", i, v)
		}
	}
}
