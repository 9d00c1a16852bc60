package timer

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		elapsed, goal int
		want          float64
	}{
		{0, 0, 0},
		{100, 0, 0},
		{0, 1500, 0},
		{750, 1500, 0.5},
		{1500, 1500, 1},
		{3000, 1500, 1},
	}
	for _, tt := range tests {
		if got := Progress(tt.elapsed, tt.goal); got != tt.want {
			t.Errorf("Progress(%d, %d) = %v, want %v", tt.elapsed, tt.goal, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		0:     "00:00:00",
		59:    "00:00:59",
		1500:  "00:25:00",
		3661:  "01:01:01",
		-5:    "00:00:00",
		36000: "10:00:00",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestStartRejectsEmptyName(t *testing.T) {
	c := NewController(nil, nil)
	form := Form{WorkType: "Study"}

	_, errs := c.Start(func() FieldErrors { return Validate(form) })
	if errs["name"] != "Session name is required" {
		t.Fatalf("expected name error, got %v", errs)
	}
	if c.Running() {
		t.Fatal("expected controller to stay idle")
	}
}

func TestValidateWorkType(t *testing.T) {
	errs := Validate(Form{Name: "Read"})
	if errs["workType"] != "Please select a work type" {
		t.Fatalf("expected workType error, got %v", errs)
	}
	if len(Validate(Form{Name: "Read", WorkType: "Study"})) != 0 {
		t.Fatal("expected valid form")
	}
}

func TestStopHandsOffElapsed(t *testing.T) {
	var handed []int
	c := NewController(func(elapsed int) { handed = append(handed, elapsed) }, nil)

	gen, errs := c.Start(nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	for i := 0; i < 90; i++ {
		c.Tick(gen)
	}

	if got := c.Stop(); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if len(handed) != 1 || handed[0] != 90 {
		t.Fatalf("expected handoff of 90, got %v", handed)
	}
	if c.Elapsed() != 0 || c.Running() {
		t.Fatalf("expected cleared idle controller, elapsed=%d running=%v", c.Elapsed(), c.Running())
	}

	// Stopping again is a no-op
	if got := c.Stop(); got != 0 || len(handed) != 1 {
		t.Fatalf("expected idle stop to do nothing, got %d %v", got, handed)
	}
}

func TestStaleTicksAreDropped(t *testing.T) {
	c := NewController(nil, nil)

	oldGen, _ := c.Start(nil)
	c.Tick(oldGen)
	c.Stop()

	newGen, _ := c.Start(nil)
	if c.Tick(oldGen) {
		t.Fatal("tick from the previous run must be dropped")
	}
	if !c.Tick(newGen) {
		t.Fatal("tick from the live run must be accepted")
	}
	if c.Elapsed() != 1 {
		t.Fatalf("expected exactly one second, got %d", c.Elapsed())
	}
}

func TestTickWhileIdleIgnored(t *testing.T) {
	c := NewController(nil, nil)
	if c.Tick(c.Generation()) {
		t.Fatal("idle controller must not tick")
	}
}

func TestResetFromAnyState(t *testing.T) {
	for _, running := range []bool{false, true} {
		resets := 0
		c := NewController(nil, func() { resets++ })
		c.SetGoal(1500)
		if running {
			gen, _ := c.Start(nil)
			c.Tick(gen)
			c.Tick(gen)
		}

		gen := c.Generation()
		c.Reset()

		if c.Running() || c.Elapsed() != 0 || c.Goal() != 0 {
			t.Fatalf("running=%v: expected cleared controller, got elapsed=%d goal=%d", running, c.Elapsed(), c.Goal())
		}
		if resets != 1 {
			t.Fatalf("running=%v: expected form reset once, got %d", running, resets)
		}
		if c.Tick(gen) {
			t.Fatalf("running=%v: tick after reset must be dropped", running)
		}
	}
}

func TestForceIdle(t *testing.T) {
	c := NewController(nil, nil)
	gen, _ := c.Start(nil)
	c.ForceIdle()
	if c.Running() || c.Tick(gen) {
		t.Fatal("expected idle controller without live ticks")
	}
}

func TestGoalLabel(t *testing.T) {
	tests := map[int]string{0: "None", 1500: "25 min", 2700: "45 min", 3600: "1 hour", 7200: "2 hours", 5400: "1h 30m"}
	for in, want := range tests {
		if got := GoalLabel(in); got != want {
			t.Errorf("GoalLabel(%d) = %q, want %q", in, got, want)
		}
	}
}
