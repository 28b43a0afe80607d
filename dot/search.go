package dot

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	mergeIoUThreshold   = 0.5
	minMergeDistance    = 3.0
	mergeDistanceFactor = 0.5
)

// AreaSearcher scans a grid of seeds for dots resembling a reference dot
type AreaSearcher struct {
	reference *Dot
	strategy  Strategy
	display   Display
}

func NewAreaSearcher(reference *Dot, strategy Strategy) *AreaSearcher {
	return &AreaSearcher{
		reference: reference,
		strategy:  strategy.withDefaults(),
	}
}

// SetDisplay enables drawing of traced borders for references with graphics enabled
func (as *AreaSearcher) SetDisplay(display Display) {
	as.display = display
}

// GridSize returns probe step in both directions. Unknown reference size gives step 1
func (as *AreaSearcher) GridSize() (int, int) {
	ref := as.reference
	if ref.width == 0 || ref.height == 0 {
		return 1, 1
	}
	p := ref.params.MaxSizeSearchDistancePrecision
	gridWidth := maxInt(1, int(ref.width*p/math.Sqrt2))
	gridHeight := maxInt(1, int(ref.height*p/math.Sqrt2))
	return gridWidth, gridHeight
}

type searchState struct {
	accepted    []*distanceDot
	badBorders  map[ImagePoint]struct{}
	goodBorders map[ImagePoint]struct{}
}

func (st *searchState) covered(u, v int) bool {
	for _, c := range st.accepted {
		if c.underlying.bbox.Contains(u, v) {
			return true
		}
	}
	return false
}

// merge adds candidate unless it duplicates an accepted one with a better margin
func (st *searchState) merge(candidate *Dot, margin float64) {
	threshold := maxFloat64(minMergeDistance, mergeDistanceFactor*minFloat64(candidate.width, candidate.height))
	for _, c := range st.accepted {
		near := candidate.DistanceTo(c.underlying) < threshold
		overlap := IoU(candidate.bbox.Rectangle(), c.underlying.bbox.Rectangle()) > mergeIoUThreshold
		if !near && !overlap {
			continue
		}
		if margin > c.margin {
			c.underlying = candidate
			c.margin = margin
		}
		return
	}
	st.accepted = append(st.accepted, &distanceDot{underlying: candidate, margin: margin})
}

// SearchDotsInArea returns every valid dot found from grid seeds inside area, closest to the
// area center first. No dots is not an error
func (as *AreaSearcher) SearchDotsInArea(img Image, area Area) ([]*Dot, error) {
	if area.Empty() {
		return nil, errors.Wrapf(ErrInvalidArea, "%dx%d at (%d, %d)", area.Width, area.Height, area.U, area.V)
	}
	area = area.Intersect(img.Width(), img.Height())
	if area.Empty() {
		return nil, errors.Wrapf(ErrInvalidArea, "area is outside %dx%d image", img.Width(), img.Height())
	}
	ref := as.reference
	model := ref.grayLevel
	model.SetArea(area)
	membership := as.strategy.Membership(model)
	validator := NewShapeValidator(img, membership, area).WithSearchDistance()
	gridWidth, gridHeight := as.GridSize()

	st := &searchState{
		badBorders:  make(map[ImagePoint]struct{}),
		goodBorders: make(map[ImagePoint]struct{}),
	}
	probes := 0
	for v := area.V; v <= area.Bottom(); v += gridHeight {
		for u := area.U; u <= area.Right(); u += gridWidth {
			if !membership.HasGoodLevel(img, u, v) {
				continue
			}
			if st.covered(u, v) {
				continue
			}
			probes++
			tracer := NewBorderTracer(img, membership, area)
			if ref.graphics && as.display != nil {
				tracer.SetDisplay(as.display)
			}
			first, err := tracer.FindFirstBorder(ImagePoint{U: u, V: v}, ref.width, ref.params.MaxSizeSearchDistancePrecision)
			if err != nil {
				if isSkippable(err) {
					continue
				}
				return nil, errors.Wrapf(err, "probe (%d, %d)", u, v)
			}
			if _, ok := st.badBorders[first]; ok {
				continue
			}
			if _, ok := st.goodBorders[first]; ok {
				continue
			}
			contour, mean, err := measure(img, tracer, membership, first)
			if err != nil {
				if !isSkippable(err) {
					return nil, errors.Wrapf(err, "probe (%d, %d)", u, v)
				}
				if glog.V(2) {
					glog.Infof("probe (%d, %d) rejected: %v", u, v, err)
				}
				st.badBorders[first] = struct{}{}
				continue
			}
			candidate := as.strategy.NewCandidate(ref)
			candidate.grayLevel.SetArea(area)
			candidate.apply(contour, mean)
			verdict := validator.Validate(candidate, ref)
			if !verdict.Valid {
				if glog.V(2) {
					glog.Infof("candidate at (%.1f, %.1f) failed %s check", candidate.cog.X, candidate.cog.Y, verdict.Failed)
				}
				st.badBorders[first] = struct{}{}
				continue
			}
			st.goodBorders[first] = struct{}{}
			st.merge(candidate, verdict.Margin)
		}
	}

	center := area.Center()
	for _, c := range st.accepted {
		c.distance = euclideanDistance(c.underlying.cog, center)
	}
	dots := sortByDistance(st.accepted)
	if glog.V(1) {
		glog.Infof("search in %dx%d at (%d, %d): %d probes, %d dots", area.Width, area.Height, area.U, area.V, probes, len(dots))
	}
	return dots, nil
}

// SearchDotsInImage searches the whole image
func (as *AreaSearcher) SearchDotsInImage(img Image) ([]*Dot, error) {
	return as.SearchDotsInArea(img, imageArea(img))
}
