package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	shimmerWidthRatio = 0.25
	shimmerSweepTicks = 18 // frames per sweep
	shimmerPauseTicks = 5  // frames between sweeps
)

var (
	shimmerBase      = [3]int{177, 184, 199} // ColorSecondaryText
	shimmerHighlight = [3]int{234, 230, 255}
)

// shimmer sweeps a soft highlight across a label, one step per frame
type shimmer struct {
	center  float64
	paused  int
	enabled bool
}

func newShimmer(enabled bool) *shimmer {
	return &shimmer{enabled: enabled}
}

// advance moves the highlight for a label of length runes
func (s *shimmer) advance(length int) {
	if !s.enabled || length == 0 {
		return
	}
	if s.paused > 0 {
		s.paused--
		if s.paused == 0 {
			s.center = -float64(length) * shimmerWidthRatio
		}
		return
	}

	distance := float64(length) * (1 + 2*shimmerWidthRatio)
	s.center += distance / shimmerSweepTicks
	if s.center >= float64(length)*(1+shimmerWidthRatio) {
		s.paused = shimmerPauseTicks
	}
}

func (s *shimmer) reset() {
	s.center = 0
	s.paused = 0
}

// render colors each rune by its distance from the highlight. lipgloss
// degrades the colors on terminals without truecolor
func (s *shimmer) render(text string) string {
	if !s.enabled {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(text)
	}

	runes := []rune(text)
	sigma := math.Max(shimmerWidthRatio*float64(len(runes))/2, 1)

	var b strings.Builder
	for i, r := range runes {
		dx := float64(i) - s.center
		weight := math.Exp(-(dx * dx) / (2 * sigma * sigma))
		color := blend(shimmerBase, shimmerHighlight, weight)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(r)))
	}
	return b.String()
}

func blend(from, to [3]int, weight float64) string {
	weight = math.Min(math.Max(weight, 0), 1)
	var c [3]int
	for i := range c {
		c[i] = int(float64(from[i])*(1-weight) + float64(to[i])*weight)
	}
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}
