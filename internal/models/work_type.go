package models

import "strings"

// WorkTypes are the work types offered by the client form. The server
// accepts any non-empty value
var WorkTypes = []string{"Deep Work", "Light Work", "Meeting", "Study", "Coding"}

// NormalizeWorkType maps short aliases like "deep" or "code" onto one of
// WorkTypes. Unknown values are returned trimmed and unchanged
func NormalizeWorkType(input string) string {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "deep", "deep work", "deepwork":
		return "Deep Work"
	case "light", "light work", "lightwork":
		return "Light Work"
	case "meeting", "meet":
		return "Meeting"
	case "study":
		return "Study"
	case "coding", "code":
		return "Coding"
	default:
		return input
	}
}

// IsKnownWorkType reports whether the value is one of WorkTypes
func IsKnownWorkType(workType string) bool {
	for _, wt := range WorkTypes {
		if wt == workType {
			return true
		}
	}
	return false
}
