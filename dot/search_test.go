package dot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourDiscsImage() Image {
	img := newGray(200, 200, 0)
	for _, c := range []Point{{X: 40, Y: 40}, {X: 160, Y: 40}, {X: 40, Y: 160}, {X: 160, Y: 160}} {
		drawDisc(img, c.X, c.Y, 10, 255)
	}
	return FromGray(img)
}

func bandReference(min, max int) *Dot {
	reference := NewDot()
	reference.SetGrayLevelMin(min)
	reference.SetGrayLevelMax(max)
	return reference
}

func TestSearchDotsInImage(t *testing.T) {
	img := fourDiscsImage()
	searcher := NewAreaSearcher(bandReference(200, 255), DefaultStrategy())
	gridWidth, gridHeight := searcher.GridSize()
	assert.Equal(t, 1, gridWidth)
	assert.Equal(t, 1, gridHeight)

	dots, err := searcher.SearchDotsInImage(img)
	require.NoError(t, err)
	require.Len(t, dots, 4)
	threshold := mergeDistanceFactor * 21
	for i := range dots {
		assert.InDelta(t, 317.0, dots[i].GetSurface(), 20)
		for j := i + 1; j < len(dots); j++ {
			assert.Greater(t, dots[i].DistanceTo(dots[j]), threshold)
			assert.NotEqual(t, dots[i].GetID(), dots[j].GetID())
		}
	}
}

func TestSearchDotsWithSizedReference(t *testing.T) {
	img := fourDiscsImage()
	reference := bandReference(200, 255)
	reference.SetWidth(21)
	reference.SetHeight(21)
	reference.SetSurface(317)
	searcher := NewAreaSearcher(reference, DefaultStrategy())
	gridWidth, _ := searcher.GridSize()
	assert.Equal(t, 9, gridWidth)

	dots, err := searcher.SearchDotsInImage(img)
	require.NoError(t, err)
	assert.Len(t, dots, 4)

	// Reference twice larger rejects every disc
	reference.SetWidth(42)
	reference.SetHeight(42)
	reference.SetSurface(1268)
	dots, err = NewAreaSearcher(reference, DefaultStrategy()).SearchDotsInImage(img)
	require.NoError(t, err)
	assert.Empty(t, dots)
}

func TestSearchOrderAndOwnership(t *testing.T) {
	raw := newGray(120, 60, 0)
	drawDisc(raw, 30, 30, 8, 255)
	drawDisc(raw, 80, 30, 8, 255)
	img := FromGray(raw)
	reference := bandReference(200, 255)
	searcher := NewAreaSearcher(reference, DefaultStrategy())

	dots, err := searcher.SearchDotsInImage(img)
	require.NoError(t, err)
	require.Len(t, dots, 2)
	assert.InDelta(t, 80.0, dots[0].GetCog().X, 1e-9, "closest to area center comes first")
	assert.InDelta(t, 30.0, dots[1].GetCog().X, 1e-9)

	dots[0].GetEdges()[0] = ImagePoint{U: -1, V: -1}
	again, err := searcher.SearchDotsInImage(img)
	require.NoError(t, err)
	assert.NotEqual(t, ImagePoint{U: -1, V: -1}, again[0].GetEdges()[0], "results must not share state")
	assert.Equal(t, 0.0, reference.GetSurface(), "reference must not change")
}

func TestSearchInvalidArea(t *testing.T) {
	img := discImage()
	searcher := NewAreaSearcher(bandReference(200, 255), DefaultStrategy())

	_, err := searcher.SearchDotsInArea(img, NewArea(10, 10, 0, 5))
	assert.ErrorIs(t, err, ErrInvalidArea)
	_, err = searcher.SearchDotsInArea(img, NewArea(10, 10, -4, 5))
	assert.ErrorIs(t, err, ErrInvalidArea)
	_, err = searcher.SearchDotsInArea(img, NewArea(150, 150, 10, 10))
	assert.ErrorIs(t, err, ErrInvalidArea)
}

func TestSearchNoDots(t *testing.T) {
	img := FromGray(newGray(60, 60, 0))
	dots, err := NewAreaSearcher(bandReference(200, 255), DefaultStrategy()).SearchDotsInImage(img)
	require.NoError(t, err)
	assert.Empty(t, dots)
}

func TestSearchCustomStrategy(t *testing.T) {
	img := fourDiscsImage()
	created := 0
	strategy := Strategy{
		NewCandidate: func(reference *Dot) *Dot {
			created++
			return reference.newCandidate()
		},
	}
	dots, err := NewAreaSearcher(bandReference(200, 255), strategy).SearchDotsInArea(img, NewArea(0, 0, 100, 100))
	require.NoError(t, err)
	require.Len(t, dots, 1)
	assert.Equal(t, 1, created)
	assert.InDelta(t, 40.0, dots[0].GetCog().X, 1e-9)
}

func TestSearchMergeKeepsBetterMargin(t *testing.T) {
	img := discImage()
	first := tracedDot(t, img, ImagePoint{U: 50, V: 50})
	second := first.Clone()
	second.SetID(first.GetID())
	second.cog.X += 1

	st := &searchState{}
	st.merge(first, 0.5)
	st.merge(second, 0.8)
	require.Len(t, st.accepted, 1)
	assert.Same(t, second, st.accepted[0].underlying)

	st.merge(first, 0.1)
	require.Len(t, st.accepted, 1)
	assert.Same(t, second, st.accepted[0].underlying)
}

func TestSortByDistance(t *testing.T) {
	near, far, tie := NewDot(), NewDot(), NewDot()
	dots := sortByDistance([]*distanceDot{
		{underlying: far, distance: 9},
		{underlying: near, distance: 1},
		{underlying: tie, distance: 9},
	})
	require.Len(t, dots, 3)
	assert.Same(t, near, dots[0])
	assert.Same(t, far, dots[1])
	assert.Same(t, tie, dots[2])
	assert.Empty(t, sortByDistance(nil))
}
