package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxGoalSeconds caps a goal at one day
const maxGoalSeconds = 24 * 60 * 60

var (
	compactGoalRegex = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)
	wordyGoalRegex   = regexp.MustCompile(`^(\d+)\s*(min|mins|minute|minutes|hour|hours|hr|hrs)$`)
	bareGoalRegex    = regexp.MustCompile(`^(\d+)$`)
)

// ParseGoal parses a session goal into seconds
// Supported formats:
// - none or 0 (no goal)
// - 25 (minutes)
// - 25m, 1h, 1h30m
// - 45 min, 2 hours
func ParseGoal(input string) (int, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "none" || input == "0" {
		return 0, nil
	}

	seconds, err := parseGoalSeconds(input)
	if err != nil {
		return 0, err
	}
	if seconds < 60 || seconds > maxGoalSeconds {
		return 0, fmt.Errorf("goal must be between 1 minute and 24 hours")
	}
	return seconds, nil
}

func parseGoalSeconds(input string) (int, error) {
	// Bare number means minutes
	if m := bareGoalRegex.FindStringSubmatch(input); len(m) == 2 {
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number")
		}
		return minutes * 60, nil
	}

	if m := wordyGoalRegex.FindStringSubmatch(input); len(m) == 3 {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid number")
		}
		switch m[2] {
		case "hour", "hours", "hr", "hrs":
			return amount * 3600, nil
		default:
			return amount * 60, nil
		}
	}

	if m := compactGoalRegex.FindStringSubmatch(input); len(m) == 3 && (m[1] != "" || m[2] != "") {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*3600 + minutes*60, nil
	}

	return 0, fmt.Errorf("invalid goal format. Use: 25, 25m, 1h30m, 45 min, or 2 hours")
}
