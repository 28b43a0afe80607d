package dot

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

const minMeanGrayLevelSamples = 10

// measure traces border from first pixel and computes mean gray level of the region
func measure(img Image, tracer *BorderTracer, membership Membership, first ImagePoint) (*Contour, float64, error) {
	contour, err := tracer.TraceContour(first)
	if err != nil {
		return nil, 0, err
	}
	mean, err := meanGrayLevel(img, membership, contour)
	if err != nil {
		return nil, 0, err
	}
	return contour, mean, nil
}

// computeDot finds the border right of seed and traces it with the dot configuration
func computeDot(img Image, dot *Dot, seed ImagePoint, membership Membership, display Display) (*Contour, float64, error) {
	tracer := NewBorderTracer(img, membership, dot.searchArea(img))
	if dot.graphics && display != nil {
		tracer.SetDisplay(display)
	}
	first, err := tracer.FindFirstBorder(seed, dot.width, dot.params.MaxSizeSearchDistancePrecision)
	if err != nil {
		return nil, 0, err
	}
	return measure(img, tracer, membership, first)
}

// meanGrayLevel averages good pixels on the row and the column through the center of gravity.
// Diagonals of the box are added when there are too few of them
func meanGrayLevel(img Image, membership Membership, contour *Contour) (float64, error) {
	box := contour.BBox
	cog := contour.Moments.Centroid()
	cu, cv := int(cog.X), int(cog.Y)
	levels := make([]float64, 0, (box.UMax-box.UMin)+(box.VMax-box.VMin)+2)
	add := func(u, v int) {
		if membership.HasGoodLevel(img, u, v) {
			levels = append(levels, float64(img.Level(u, v)))
		}
	}
	for u := box.UMin; u <= box.UMax; u++ {
		add(u, cv)
	}
	for v := box.VMin; v <= box.VMax; v++ {
		add(cu, v)
	}
	if len(levels) < minMeanGrayLevelSamples {
		n := minInt(box.UMax-box.UMin, box.VMax-box.VMin)
		for i := 0; i <= n; i++ {
			add(box.UMin+i, box.VMin+i)
			add(box.UMax-i, box.VMin+i)
		}
	}
	if len(levels) == 0 {
		return 0, errors.Wrapf(ErrInvalidShape, "no good gray level inside box %+v", box)
	}
	return stat.Mean(levels, nil), nil
}
