package lifecycle

import "testing"

func TestTriggerFiresEachListenerOncePerOccurrence(t *testing.T) {
	tr := NewTrigger("hidden")
	var a, b int
	tr.Register(func() { a++ })
	tr.Register(func() { b++ })

	tr.Fire()
	tr.Fire()

	if a != 2 || b != 2 {
		t.Errorf("expected each listener called twice over two occurrences, got a=%d b=%d", a, b)
	}
	if tr.Fired() != 2 {
		t.Errorf("Fired() = %d, want 2", tr.Fired())
	}
}

func TestOnceTriggerIgnoresSecondOccurrence(t *testing.T) {
	tr := NewOnceTrigger("unload")
	calls := 0
	tr.Register(func() { calls++ })

	if !tr.Fire() {
		t.Fatal("first Fire() = false, want true")
	}
	if tr.Fire() {
		t.Error("second Fire() = true, want false")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestLateListenersRunAfterRegularOnes(t *testing.T) {
	tr := NewTrigger("hidden")
	var order []string
	tr.RegisterLate(func() { order = append(order, "flush") })
	tr.Register(func() { order = append(order, "cls") })
	cancel := tr.RegisterLate(func() { order = append(order, "dropped") })
	tr.Register(func() { order = append(order, "lcp") })
	cancel()

	tr.Fire()

	want := []string{"cls", "lcp", "flush"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTriggerCancel(t *testing.T) {
	tr := NewTrigger("hidden")
	calls := 0
	cancel := tr.Register(func() { calls++ })
	kept := 0
	tr.Register(func() { kept++ })

	cancel()
	cancel()
	tr.Fire()

	if calls != 0 {
		t.Errorf("cancelled listener invoked %d times", calls)
	}
	if kept != 1 {
		t.Errorf("remaining listener invoked %d times, want 1", kept)
	}
	if tr.Listeners() != 1 {
		t.Errorf("Listeners() = %d, want 1", tr.Listeners())
	}
}

func TestTriggerListenerRegisteredDuringFire(t *testing.T) {
	tr := NewTrigger("x")
	late := 0
	tr.Register(func() {
		tr.Register(func() { late++ })
	})
	tr.Fire()
	if late != 0 {
		t.Errorf("listener registered during fire ran in the same occurrence")
	}
}

func TestVisibilityFiresOnTransitionOnly(t *testing.T) {
	v := NewVisibility()
	calls := 0
	v.Hidden().Register(func() { calls++ })

	if !v.Set(StateHidden) {
		t.Error("expected Hidden to fire on visible -> hidden")
	}
	if v.Set(StateHidden) {
		t.Error("repeated hidden state must not re-fire")
	}
	v.Set(StateVisible)
	v.Set(StateHidden)

	if calls != 2 {
		t.Errorf("expected 2 hidden occurrences, got %d", calls)
	}
	if v.State() != StateHidden {
		t.Errorf("State() = %q, want hidden", v.State())
	}
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	cancel := bus.Subscribe("hero-rendered", func() { calls++ })

	bus.Dispatch("hero-rendered")
	bus.Dispatch("other")
	cancel()
	bus.Dispatch("hero-rendered")

	if calls != 1 {
		t.Errorf("expected 1 delivery, got %d", calls)
	}
}
