package timer

import (
	"fmt"
	"strings"
)

// Form is the session form next to the timer
type Form struct {
	Name        string
	WorkType    string
	ProjectID   string // empty for none
	Notes       string
	GoalSeconds int // 0 for no goal
}

// FieldErrors maps a form field to its message. Empty means valid
type FieldErrors map[string]string

// GoalOptions are the quick goal choices offered by the form
var GoalOptions = []int{0, 25 * 60, 45 * 60, 60 * 60}

// Validate is the default start check for the form
func Validate(f Form) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Session name is required"
	}
	if strings.TrimSpace(f.WorkType) == "" {
		errs["workType"] = "Please select a work type"
	}
	if f.GoalSeconds < 0 {
		errs["goal"] = "Goal cannot be negative"
	}
	return errs
}

// GoalLabel renders a goal for display
func GoalLabel(seconds int) string {
	switch {
	case seconds <= 0:
		return "None"
	case seconds%3600 == 0:
		if seconds == 3600 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", seconds/3600)
	case seconds >= 3600:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	default:
		return fmt.Sprintf("%d min", seconds/60)
	}
}
