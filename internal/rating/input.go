// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rating implements the star rating control: a hover preview that
// is distinct from the committed value, committed by a click.
package rating

import "strconv"

// DefaultMax is the number of stars when Config.Max is not positive.
const DefaultMax = 5

// Config configures one rating control.
type Config struct {
	// Max is the number of stars.
	Max int

	// Default is the initial committed rating; 0 means unrated.
	Default int

	// Messages, when it has exactly Max entries, labels each value.
	Messages []string

	// OnRate is called with the committed value on every click.
	OnRate func(int)
}

// Star is one rendered star.
type Star struct {
	Value int
	Full  bool
}

// Input is the control state. It is not safe for concurrent use; each
// owner holds its own instance.
type Input struct {
	max      int
	rating   int
	hover    int
	messages []string
	onRate   func(int)
}

// New returns a control for cfg. A Default outside 0..Max is treated as 0.
func New(cfg Config) *Input {
	max := cfg.Max
	if max <= 0 {
		max = DefaultMax
	}
	in := &Input{
		max:      max,
		messages: append([]string(nil), cfg.Messages...),
		onRate:   cfg.OnRate,
	}
	if cfg.Default >= 0 && cfg.Default <= max {
		in.rating = cfg.Default
	}
	return in
}

// Max returns the number of stars.
func (in *Input) Max() int { return in.max }

// Rating returns the committed value, 0 when unrated.
func (in *Input) Rating() int { return in.rating }

// Hovering reports whether a provisional value is shown.
func (in *Input) Hovering() bool { return in.hover > 0 }

// Hover previews n without committing it.
func (in *Input) Hover(n int) {
	if in.valid(n) {
		in.hover = n
	}
}

// Leave ends the preview; the display reverts to the committed value.
func (in *Input) Leave() { in.hover = 0 }

// Click commits n and reports it through OnRate.
func (in *Input) Click(n int) {
	if !in.valid(n) {
		return
	}
	in.rating = n
	if in.onRate != nil {
		in.onRate(n)
	}
}

// Display returns the value the stars currently show.
func (in *Input) Display() int {
	if in.hover > 0 {
		return in.hover
	}
	return in.rating
}

// Label returns the text beside the stars: the message for the displayed
// value when every value has one, otherwise the number, or "" when unrated.
func (in *Input) Label() string {
	v := in.Display()
	if v == 0 {
		return ""
	}
	if len(in.messages) == in.max {
		return in.messages[v-1]
	}
	return strconv.Itoa(v)
}

// Stars returns the stars 1..Max with those up to Display filled.
func (in *Input) Stars() []Star {
	v := in.Display()
	stars := make([]Star, in.max)
	for i := range stars {
		stars[i] = Star{Value: i + 1, Full: i+1 <= v}
	}
	return stars
}

func (in *Input) valid(n int) bool {
	return n >= 1 && n <= in.max
}
