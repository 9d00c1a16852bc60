package parser

import (
	"regexp"
	"strings"

	"github.com/balkashynov/worktime/internal/models"
)

var (
	projectRegex  = regexp.MustCompile(`@([a-zA-Z0-9_-]+)`)
	workTypeRegex = regexp.MustCompile(`\+([a-zA-Z]+)`)
	goalRegex     = regexp.MustCompile(`goal:([^\s]+)`)
)

// ParsedSession is a session form parsed from one line of input
type ParsedSession struct {
	Name        string
	Project     string // project name, matched case-insensitively by the caller
	WorkType    string
	GoalSeconds int
	Errors      []string
}

// ParseSessionTitle extracts metadata from a session title using natural syntax
// Syntax: "Write design doc @backend +deep goal:25m"
func ParseSessionTitle(input string) ParsedSession {
	result := ParsedSession{
		Name:   input,
		Errors: []string{},
	}

	// Extract project (@project-name)
	if m := projectRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Project = m[1]
		input = projectRegex.ReplaceAllString(input, "")
	}

	// Extract work type (+deep, +meeting, +code, etc.)
	if m := workTypeRegex.FindStringSubmatch(input); len(m) > 1 {
		workType := models.NormalizeWorkType(m[1])
		if models.IsKnownWorkType(workType) {
			result.WorkType = workType
		} else {
			result.Errors = append(result.Errors, "Unknown work type '"+m[1]+"'. Use: deep, light, meeting, study, or coding")
		}
		input = workTypeRegex.ReplaceAllString(input, "")
	}

	// Extract goal (goal:25m, goal:1h30m, goal:45)
	if m := goalRegex.FindStringSubmatch(input); len(m) > 1 {
		goal, err := ParseGoal(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid goal '"+m[1]+"': "+err.Error())
		} else {
			result.GoalSeconds = goal
		}
		input = goalRegex.ReplaceAllString(input, "")
	}

	// Clean up the name (remove extra spaces)
	result.Name = strings.Join(strings.Fields(input), " ")

	return result
}
