package dot

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTrackingDisc(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	require.Equal(t, StateUnbound, tracker.GetState())

	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	assert.Equal(t, StateSeeded, tracker.GetState())
	dot := tracker.GetDot()
	assert.InDelta(t, 50.0, dot.GetCog().X, 0.5)
	assert.InDelta(t, 50.0, dot.GetCog().Y, 0.5)
	assert.InEpsilon(t, math.Pi*20*20, dot.GetSurface(), 0.05)
	assert.Equal(t, 41.0, dot.GetWidth())
	assert.Equal(t, 41.0, dot.GetHeight())
	assert.Equal(t, 255.0, dot.GetMeanGrayLevel())
	assert.Equal(t, BBox{UMin: 30, UMax: 70, VMin: 30, VMax: 70}, dot.GetBBox())
	assert.Equal(t, ImagePoint{U: 70, V: 50}, dot.GetFirstBorder())
	assert.Equal(t, len(dot.GetEdges()), len(dot.GetDirections()))
}

func TestInitTrackingEstimatedBand(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTracking(img, Point{X: 45, Y: 52}))
	dot := tracker.GetDot()
	assert.Equal(t, 182, dot.GetGrayLevelMin())
	assert.Equal(t, 255, dot.GetGrayLevelMax())
	assert.InDelta(t, 1257.0, dot.GetSurface(), 1)
}

func TestInitTrackingFailureKeepsState(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	err := tracker.InitTrackingWithBand(img, Point{X: 5, Y: 5}, 200, 255)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateUnbound, tracker.GetState())

	err = tracker.InitTracking(img, Point{X: -10, Y: 5})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, StateUnbound, tracker.GetState())
}

func TestInitTrackingSizedTemplate(t *testing.T) {
	img := discImage()

	template := NewDot()
	template.SetSize(41)
	assert.InDelta(t, math.Pi*41*41/4, template.GetSurface(), 1e-9)
	tracker := NewDotTracker(template, DefaultStrategy())
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	assert.Equal(t, StateSeeded, tracker.GetState())

	template = NewDot()
	template.SetSize(20)
	tracker = NewDotTracker(template, DefaultStrategy())
	err := tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255)
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.Contains(t, err.Error(), string(CheckSize))
	assert.Equal(t, StateUnbound, tracker.GetState())
}

func TestTrackStaticDisc(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	start := tracker.GetCog()
	for i := 0; i < 100; i++ {
		require.NoError(t, tracker.Track(img), "frame %d", i)
		assert.Less(t, euclideanDistance(start, tracker.GetCog()), 0.1, "frame %d", i)
	}
	assert.Equal(t, StateTracking, tracker.GetState())
}

func TestTrackSeedIndependence(t *testing.T) {
	img := discImage()
	first := NewDotTrackerDefault()
	second := NewDotTrackerDefault()
	require.NoError(t, first.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	require.NoError(t, second.InitTrackingWithBand(img, Point{X: 40, Y: 45}, 200, 255))
	tolerance := (1 - DefaultParams().SizePrecision) * first.GetDot().GetWidth()
	assert.Less(t, euclideanDistance(first.GetCog(), second.GetCog()), tolerance)
}

func TestTrackMovingDisc(t *testing.T) {
	tracker := NewDotTrackerDefault()
	frame := func(cu float64) Image {
		raw := newGray(160, 100, 0)
		drawDisc(raw, cu, 50, 12, 255)
		return FromGray(raw)
	}
	require.NoError(t, tracker.InitTracking(frame(30), Point{X: 30, Y: 50}))
	for i := 1; i <= 20; i++ {
		cu := 30 + 4*float64(i)
		require.NoError(t, tracker.Track(frame(cu)), "frame %d", i)
		assert.InDelta(t, cu, tracker.GetCog().X, 1e-9)
		assert.InDelta(t, 50.0, tracker.GetCog().Y, 1e-9)
	}
}

func TestTrackLostKeepsPublishedState(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	tracker.SetComputeMoments(true)
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	require.NoError(t, tracker.Track(img))
	before := tracker.GetDot()

	blank := FromGray(newGray(100, 100, 0))
	err := tracker.Track(blank)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateLost, tracker.GetState())

	after := tracker.GetDot()
	opts := cmp.AllowUnexported(Dot{}, GrayLevelModel{})
	if diff := cmp.Diff(before, after, opts); diff != "" {
		t.Errorf("Published state changed after failed track (-before +after):\n%s", diff)
	}

	require.NoError(t, tracker.Track(img), "lost tracker may retrace")
	assert.Equal(t, StateTracking, tracker.GetState())
}

func TestTrackRejectsResizedDot(t *testing.T) {
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(discImage(), Point{X: 50, Y: 50}, 200, 255))

	raw := newGray(100, 100, 0)
	drawDisc(raw, 50, 50, 8, 255)
	err := tracker.Track(FromGray(raw))
	assert.ErrorIs(t, err, ErrInvalidShape)
	assert.Equal(t, StateLost, tracker.GetState())
	assert.Equal(t, 41.0, tracker.GetDot().GetWidth())
}

func TestReacquire(t *testing.T) {
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(discImage(), Point{X: 50, Y: 50}, 200, 255))
	id := tracker.GetDot().GetID()

	raw := newGray(100, 100, 0)
	drawDisc(raw, 75, 50, 20, 255)
	moved := FromGray(raw)
	require.Error(t, tracker.Track(moved))
	require.Equal(t, StateLost, tracker.GetState())

	require.NoError(t, tracker.Reacquire(moved))
	assert.Equal(t, StateTracking, tracker.GetState())
	assert.InDelta(t, 75.0, tracker.GetCog().X, 1e-9)
	assert.InDelta(t, 50.0, tracker.GetCog().Y, 1e-9)
	assert.Equal(t, id, tracker.GetDot().GetID(), "identity survives reacquisition")
	assert.True(t, tracker.GetDot().GetArea().Empty(), "search area must not leak into the tracker")

	require.NoError(t, tracker.Track(moved))

	blank := FromGray(newGray(100, 100, 0))
	err := tracker.Reacquire(blank)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, StateLost, tracker.GetState())
}

func TestAdoptSearchResult(t *testing.T) {
	img := fourDiscsImage()
	template := NewDot()
	template.SetGrayLevelMin(200)
	tracker := NewDotTracker(template, DefaultStrategy())

	dots, err := NewAreaSearcher(template, DefaultStrategy()).SearchDotsInArea(img, NewArea(100, 100, 100, 100))
	require.NoError(t, err)
	require.Len(t, dots, 1)
	require.NoError(t, tracker.Adopt(dots[0]))
	assert.Equal(t, StateTracking, tracker.GetState())
	require.NoError(t, tracker.Track(img))
	assert.InDelta(t, 160.0, tracker.GetCog().X, 1e-9)
	assert.InDelta(t, 160.0, tracker.GetCog().Y, 1e-9)

	assert.ErrorIs(t, tracker.Adopt(nil), ErrNotFound)
}

func TestResetAndNotInitialized(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	assert.ErrorIs(t, tracker.Track(img), ErrNotInitialized)
	assert.ErrorIs(t, tracker.Reacquire(img), ErrNotInitialized)

	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	tracker.Reset()
	assert.Equal(t, StateUnbound, tracker.GetState())
	assert.Empty(t, tracker.GetEdges())
	assert.ErrorIs(t, tracker.Track(img), ErrNotInitialized)
}

func TestTrackerArea(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	assert.ErrorIs(t, tracker.SetArea(img, NewArea(0, 0, 0, 0)), ErrInvalidArea)

	require.NoError(t, tracker.SetArea(img, NewArea(0, 0, 60, 100)))
	err := tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255)
	assert.ErrorIs(t, err, ErrNotFound, "disc is cut by the area")

	require.NoError(t, tracker.SetArea(img, NewArea(20, 20, 60, 60)))
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
}

func TestTrackerGraphics(t *testing.T) {
	img := discImage()
	display := &recordingDisplay{}
	tracker := NewDotTrackerDefault()
	tracker.SetDisplay(display)
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	assert.Zero(t, display.points, "graphics are opt-in")

	tracker.SetGraphics(true)
	require.NoError(t, tracker.Track(img))
	assert.Equal(t, 1, display.rects)
	assert.Greater(t, display.points, 2*len(tracker.GetEdges()))
}

func TestMomentsPublication(t *testing.T) {
	img := discImage()
	tracker := NewDotTrackerDefault()
	require.NoError(t, tracker.InitTrackingWithBand(img, Point{X: 50, Y: 50}, 200, 255))
	assert.Zero(t, tracker.GetDot().GetMoments().M20)
	assert.NotZero(t, tracker.GetDot().GetMoments().M00)

	tracker.SetComputeMoments(true)
	require.NoError(t, tracker.Track(img))
	moments := tracker.GetDot().GetMoments()
	assert.NotZero(t, moments.M20)
	assert.InDelta(t, moments.Mu20, moments.Mu02, 1e-6)
	assert.InDelta(t, 0.0, moments.Mu11, 1e-6)
}
