package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/balkashynov/worktime/internal/client"
)

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
	faintColor   = color.New(color.Faint)
	boldColor    = color.New(color.Bold)
)

// printError writes err to stderr. Field level API errors get one line each
func printError(err error) {
	_, _ = errorColor.Fprintf(color.Error, "❌ Error: %s\n", describeError(err))

	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		for _, f := range apiErr.Fields {
			_, _ = errorColor.Fprintf(color.Error, "   %s: %s\n", f.Field, f.Message)
		}
	}
}

func describeError(err error) string {
	var apiErr *client.Error
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 && apiErr.Message == "" {
		return "validation failed"
	}
	return err.Error()
}

func printSuccess(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(color.Output, format+"\n", args...)
}

// fieldErrors turns form validation errors into one error, sorted by field
func fieldErrors(errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, errs[k])
	}
	return errors.New(strings.Join(lines, "; "))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
