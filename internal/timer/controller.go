package timer

import "fmt"

// State of the stopwatch. There is no paused state
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Controller is the stopwatch behind a session. Each accepted tick is
// worth exactly one second. Ticks carry the generation that scheduled them
// and ticks from an older generation are dropped, so only one tick chain is
// ever live. Not safe for concurrent use; drive it from the UI loop
type Controller struct {
	state      State
	elapsed    int
	goal       int
	generation uint64

	onComplete func(elapsed int)
	onReset    func()
}

// NewController returns an idle controller. onComplete receives the frozen
// elapsed seconds on Stop; onReset runs on Reset. Either may be nil
func NewController(onComplete func(elapsed int), onReset func()) *Controller {
	return &Controller{onComplete: onComplete, onReset: onReset}
}

// Start runs validate and, when it reports no errors, starts a new tick
// generation. The generation is returned for scheduling ticks
func (c *Controller) Start(validate func() FieldErrors) (uint64, FieldErrors) {
	if c.state == Running {
		return c.generation, nil
	}
	if validate != nil {
		if errs := validate(); len(errs) > 0 {
			return c.generation, errs
		}
	}
	c.generation++
	c.state = Running
	return c.generation, nil
}

// Tick adds one second when gen is the live generation
func (c *Controller) Tick(gen uint64) bool {
	if c.state != Running || gen != c.generation {
		return false
	}
	c.elapsed++
	return true
}

// Stop freezes the elapsed time, hands it to onComplete and clears the
// counter. Stopping while idle does nothing and returns 0
func (c *Controller) Stop() int {
	if c.state != Running {
		return 0
	}
	frozen := c.elapsed
	c.state = Idle
	c.generation++
	if c.onComplete != nil {
		c.onComplete(frozen)
	}
	c.elapsed = 0
	return frozen
}

// Reset clears elapsed and goal from any state and resets the form
func (c *Controller) Reset() {
	c.state = Idle
	c.generation++
	c.elapsed = 0
	c.goal = 0
	if c.onReset != nil {
		c.onReset()
	}
}

// ForceIdle stops the tick chain without completing
func (c *Controller) ForceIdle() {
	if c.state == Running {
		c.generation++
	}
	c.state = Idle
}

func (c *Controller) SetGoal(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.goal = seconds
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Running() bool { return c.state == Running }
func (c *Controller) Elapsed() int { return c.elapsed }
func (c *Controller) Goal() int { return c.goal }
func (c *Controller) Generation() uint64 { return c.generation }
func (c *Controller) Progress() float64 { return Progress(c.elapsed, c.goal) }
func (c *Controller) Clock() string { return FormatClock(c.elapsed) }

// Progress is min(elapsed/goal, 1), or 0 without a goal
func Progress(elapsed, goal int) float64 {
	if goal <= 0 || elapsed <= 0 {
		return 0
	}
	if elapsed >= goal {
		return 1
	}
	return float64(elapsed) / float64(goal)
}

// FormatClock renders seconds as HH:MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
