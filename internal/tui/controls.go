package tui

import (
	"fmt"
	"strings"
)

// Slider is the dashboard's year range control. It satisfies the
// mediator's RangeInput contract: the mediator seeds it through
// SetValue and subscribes to user-driven changes through OnChange.
type Slider struct {
	min, max int
	value    int
	onChange func(v int)
}

func NewSlider(min, max int) *Slider {
	return &Slider{min: min, max: max, value: min}
}

// SetValue moves the control without firing the change handler, the
// way a programmatic write to an input element would.
func (s *Slider) SetValue(v int) {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
}

func (s *Slider) OnChange(fn func(v int)) { s.onChange = fn }

func (s *Slider) Value() int { return s.value }

// Step moves the control by delta and fires the change handler, like a
// user dragging the range input. Clamping at a bound without movement
// fires nothing.
func (s *Slider) Step(delta int) {
	s.Jump(s.value + delta)
}

// Jump moves the control to v and fires the change handler when the
// value actually moved.
func (s *Slider) Jump(v int) {
	old := s.value
	s.SetValue(v)
	if s.value != old && s.onChange != nil {
		s.onChange(s.value)
	}
}

// View renders the slider track.
func (s *Slider) View(width int) string {
	if width < 10 {
		width = 10
	}
	span := s.max - s.min
	filled := 0
	if span > 0 {
		filled = (s.value - s.min) * (width - 1) / span
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d [", s.min))
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString("o")
	b.WriteString(strings.Repeat("-", width-1-filled))
	b.WriteString(fmt.Sprintf("] %d", s.max))
	return b.String()
}

// Readout is the dashboard's year display element.
type Readout struct {
	text string
}

func NewReadout() *Readout { return &Readout{} }

func (r *Readout) SetText(s string) { r.text = s }

func (r *Readout) Text() string { return r.text }
