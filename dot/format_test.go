package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(discImage(), Point{X: 50, Y: 50}, 200, 255))
	dot := tracker.GetDot()
	text := Format(dot)
	assert.True(t, strings.HasPrefix(text, dot.GetID().String()))
	assert.Contains(t, text, "cog (50.00, 50.00)")
	assert.Contains(t, text, "size 41x41")
	assert.Contains(t, text, "gray [200, 255]")
	assert.Equal(t, text, dot.String())
}

func TestDrawDot(t *testing.T) {
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(discImage(), Point{X: 50, Y: 50}, 200, 255))
	display := &recordingDisplay{}
	DrawDot(display, tracker.GetDot(), dotColor)
	assert.Equal(t, 1, display.rects)
	assert.Equal(t, 2*(2*crossHalfSize+1)+len(tracker.GetEdges()), display.points)
}
