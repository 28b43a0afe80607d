package dot

import (
	"image/color"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Contour is a closed traced border with moments of the region it encloses
type Contour struct {
	FirstBorder ImagePoint
	// Directions[i] is the code of the step that reached Edges[i]
	Directions []int
	Edges      []ImagePoint
	Moments    Moments
	BBox       BBox
}

// BorderTracer follows 8-connected borders of regions accepted by membership inside area
type BorderTracer struct {
	img        Image
	membership Membership
	area       Area
	display    Display
}

func NewBorderTracer(img Image, membership Membership, area Area) *BorderTracer {
	return &BorderTracer{
		img:        img,
		membership: membership,
		area:       area,
	}
}

// SetDisplay enables drawing of every traced border point
func (bt *BorderTracer) SetDisplay(display Display) {
	bt.display = display
}

// MaxSteps returns cap of trace iterations
func (bt *BorderTracer) MaxSteps() int {
	return 4 * 2 * (bt.area.Width + bt.area.Height)
}

func (bt *BorderTracer) member(u, v int) bool {
	return bt.area.Contains(u, v) && bt.membership.HasGoodLevel(bt.img, u, v)
}

// FindFirstBorder walks right from the seed along its row up to the last member pixel.
// With known dot width the walk may not exceed width/(maxSizeSearchDistancePrecision + 0.001)
func (bt *BorderTracer) FindFirstBorder(seed ImagePoint, width, maxSizeSearchDistancePrecision float64) (ImagePoint, error) {
	if !inImage(bt.img, seed.U, seed.V) {
		return ImagePoint{}, errors.Wrapf(ErrOutOfBounds, "seed (%d, %d)", seed.U, seed.V)
	}
	if !bt.member(seed.U, seed.V) {
		return ImagePoint{}, errors.Wrapf(ErrNotFound, "seed (%d, %d) has no good level", seed.U, seed.V)
	}
	maxRun := 0.0
	if width > 0 {
		maxRun = width / (maxSizeSearchDistancePrecision + precisionEps)
	}
	u := seed.U
	for {
		next := u + 1
		if next > bt.area.Right() {
			return ImagePoint{}, errors.Wrapf(ErrNotFound, "row %d from %d leaves search area without transition", seed.V, seed.U)
		}
		if !bt.member(next, seed.V) {
			break
		}
		if !inImage(bt.img, next, seed.V) {
			return ImagePoint{}, errors.Wrapf(ErrOutOfBounds, "border scan at (%d, %d)", next, seed.V)
		}
		u = next
		if maxRun > 0 && float64(u-seed.U) > maxRun {
			return ImagePoint{}, errors.Wrapf(ErrNotFound, "row %d from %d runs past %.1f pixels", seed.V, seed.U, maxRun)
		}
	}
	return ImagePoint{U: u, V: seed.V}, nil
}

// sweep probes neighbours of p counterclockwise starting with code start
func (bt *BorderTracer) sweep(p ImagePoint, start int) (int, bool) {
	for i := 0; i < 8; i++ {
		code := freemanNorm(start + i)
		q := FreemanMove(p, code)
		if bt.member(q.U, q.V) {
			return code, true
		}
	}
	return -1, false
}

// TraceContour follows the border from its rightmost pixel keeping the region on the left.
// East neighbour of the first border pixel must not be a member
func (bt *BorderTracer) TraceContour(first ImagePoint) (*Contour, error) {
	if !inImage(bt.img, first.U, first.V) {
		return nil, errors.Wrapf(ErrOutOfBounds, "first border (%d, %d)", first.U, first.V)
	}
	firstDir, ok := bt.sweep(first, FreemanEast)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidShape, "isolated pixel (%d, %d)", first.U, first.V)
	}
	maxSteps := bt.MaxSteps()
	acc := NewMomentAccumulator(first)
	directions := make([]int, 0, 64)
	edges := make([]ImagePoint, 0, 64)

	p := first
	dir := firstDir
	for step := 0; ; step++ {
		if step >= maxSteps {
			return nil, errors.Wrapf(ErrBorderTrace, "no closure from (%d, %d) after %d steps", first.U, first.V, maxSteps)
		}
		acc.Step(p, dir)
		next := FreemanMove(p, dir)
		if !inImage(bt.img, next.U, next.V) {
			return nil, errors.Wrapf(ErrOutOfBounds, "trace step %d to (%d, %d)", step, next.U, next.V)
		}
		directions = append(directions, dir)
		edges = append(edges, next)
		if bt.display != nil {
			bt.display.DrawPoint(next, color.Gray{Y: 128})
		}

		din := dir
		p = next
		dout, _ := bt.sweep(p, din+5)
		acc.Visit(p, din, dout)
		if p == first && dout == firstDir {
			break
		}
		dir = dout
	}

	moments, bbox, err := acc.Finalize()
	if err != nil {
		return nil, errors.Wrapf(err, "contour from (%d, %d)", first.U, first.V)
	}
	if glog.V(3) {
		glog.Infof("traced %d border points from (%d, %d), m00 %.0f", len(edges), first.U, first.V, moments.M00)
	}
	return &Contour{
		FirstBorder: first,
		Directions:  directions,
		Edges:       edges,
		Moments:     moments,
		BBox:        bbox,
	}, nil
}
