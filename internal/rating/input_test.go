// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var moods = []string{"Terrible", "Bad", "Okay", "Good", "Amazing"}

func TestNewDefaults(t *testing.T) {
	in := New(Config{})
	assert.Equal(t, DefaultMax, in.Max())
	assert.Zero(t, in.Rating())
	assert.Equal(t, "", in.Label())
	assert.Len(t, in.Stars(), DefaultMax)

	assert.Zero(t, New(Config{Max: 5, Default: 9}).Rating(), "out-of-range default is ignored")
	assert.Equal(t, 3, New(Config{Max: 5, Default: 3}).Rating())
}

func TestHoverLeaveClick(t *testing.T) {
	var got []int
	in := New(Config{Max: 10, OnRate: func(n int) { got = append(got, n) }})

	in.Hover(6)
	assert.True(t, in.Hovering())
	assert.Equal(t, 6, in.Display())
	assert.Zero(t, in.Rating(), "hover does not commit")

	in.Leave()
	assert.False(t, in.Hovering())
	assert.Equal(t, 0, in.Display())

	in.Click(8)
	assert.Equal(t, 8, in.Rating())
	assert.Equal(t, 8, in.Display())

	in.Hover(3)
	assert.Equal(t, 3, in.Display())
	in.Leave()
	assert.Equal(t, 8, in.Display(), "leave reverts to the committed value")

	assert.Equal(t, []int{8}, got)
}

func TestOutOfRangeIgnored(t *testing.T) {
	calls := 0
	in := New(Config{Max: 5, Default: 2, OnRate: func(int) { calls++ }})

	in.Click(0)
	in.Click(6)
	in.Click(-1)
	in.Hover(7)

	assert.Equal(t, 2, in.Rating())
	assert.False(t, in.Hovering())
	assert.Zero(t, calls)
}

func TestLabel(t *testing.T) {
	labeled := New(Config{Max: 5, Messages: moods})
	labeled.Hover(1)
	assert.Equal(t, "Terrible", labeled.Label())
	labeled.Click(5)
	labeled.Leave()
	assert.Equal(t, "Amazing", labeled.Label())

	numeric := New(Config{Max: 10})
	numeric.Click(7)
	assert.Equal(t, "7", numeric.Label())

	mismatched := New(Config{Max: 10, Messages: moods})
	mismatched.Click(4)
	assert.Equal(t, "4", mismatched.Label(), "messages are used only when there is one per star")
}

func TestStars(t *testing.T) {
	in := New(Config{Max: 4, Default: 2})
	stars := in.Stars()
	require.Len(t, stars, 4)
	assert.Equal(t, []Star{{1, true}, {2, true}, {3, false}, {4, false}}, stars)

	in.Hover(3)
	assert.True(t, in.Stars()[2].Full)
}

func TestInstancesAreIndependent(t *testing.T) {
	five := New(Config{Max: 5, Messages: moods})
	ten := New(Config{Max: 10})

	five.Click(4)
	ten.Hover(9)

	assert.Equal(t, 4, five.Rating())
	assert.Equal(t, "Good", five.Label())
	assert.Zero(t, ten.Rating())
	assert.Equal(t, 9, ten.Display())
	assert.Equal(t, 5, five.Max())
	assert.Equal(t, 10, ten.Max())
}

func TestMessagesAreCopied(t *testing.T) {
	msgs := append([]string(nil), moods...)
	in := New(Config{Max: 5, Messages: msgs})
	msgs[0] = "changed"
	in.Click(1)
	assert.Equal(t, "Terrible", in.Label())
}
