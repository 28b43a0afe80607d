package dot

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
)

// Check names a validation stage
type Check string

const (
	CheckNone           = Check("")
	CheckGrayLevel      = Check("gray_level")
	CheckSize           = Check("size")
	CheckShape          = Check("shape")
	CheckSearchDistance = Check("search_distance")
)

const (
	innerEllipseStep = 0.4
	outerEllipseStep = 0.3
)

// Verdict is the outcome of validation. Margin in [0, 1] ranks accepted candidates
type Verdict struct {
	Valid  bool
	Failed Check
	Margin float64
}

func reject(check Check) Verdict {
	return Verdict{Valid: false, Failed: check}
}

// Ellipse describes the ellipse having the same second order moments as a region
type Ellipse struct {
	Center Point
	// A1 >= A2 are the semi axes
	A1 float64
	A2 float64
	// Alpha is orientation of A1 in radians
	Alpha float64
}

// EllipseFromMoments returns equivalent ellipse. Semi axes are 2*sqrt(lambda/m00) for each
// eigenvalue lambda of the central moments matrix
func EllipseFromMoments(m Moments) (Ellipse, bool) {
	if m.M00 <= 0 {
		return Ellipse{}, false
	}
	sym := mat.NewSymDense(2, []float64{
		m.Mu20, m.Mu11,
		m.Mu11, m.Mu02,
	})
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return Ellipse{}, false
	}
	values := eig.Values(nil)
	return Ellipse{
		Center: m.Centroid(),
		A1:     2 * math.Sqrt(maxFloat64(values[1], 0)/m.M00),
		A2:     2 * math.Sqrt(maxFloat64(values[0], 0)/m.M00),
		Alpha:  0.5 * math.Atan2(2*m.Mu11, m.Mu20-m.Mu02),
	}, true
}

// At returns ellipse point at parameter theta with semi axes scaled by coef
func (e Ellipse) At(theta, coef float64) Point {
	cosA, sinA := math.Cos(e.Alpha), math.Sin(e.Alpha)
	cosT, sinT := math.Cos(theta), math.Sin(theta)
	return Point{
		X: e.Center.X + coef*(e.A1*cosA*cosT-e.A2*sinA*sinT),
		Y: e.Center.Y + coef*(e.A1*sinA*cosT+e.A2*cosA*sinT),
	}
}

// ShapeValidator accepts or rejects traced candidates
type ShapeValidator struct {
	img        Image
	membership Membership
	area       Area
	// searchDistance enables size ratio bound used during area search
	searchDistance bool
}

func NewShapeValidator(img Image, membership Membership, area Area) *ShapeValidator {
	return &ShapeValidator{
		img:        img,
		membership: membership,
		area:       area,
	}
}

// WithSearchDistance enables search distance check
func (sv *ShapeValidator) WithSearchDistance() *ShapeValidator {
	sv.searchDistance = true
	return sv
}

// Validate checks candidate against reference. Nil reference skips the size related checks
func (sv *ShapeValidator) Validate(candidate, reference *Dot) Verdict {
	params := candidate.params
	margin := 1.0

	if !sv.checkGrayLevel(candidate) {
		return reject(CheckGrayLevel)
	}
	if reference != nil {
		sizeMargin, ok := checkSize(candidate, reference, params.SizePrecision)
		if !ok {
			return reject(CheckSize)
		}
		margin = minFloat64(margin, sizeMargin)
	}
	if params.EllipsoidShapePrecision != 0 {
		fill, ok := sv.checkShape(candidate, params.EllipsoidShapePrecision)
		if !ok {
			return reject(CheckShape)
		}
		margin = minFloat64(margin, fill)
	}
	if sv.searchDistance && reference != nil {
		if !checkSearchDistance(candidate, reference, params.MaxSizeSearchDistancePrecision) {
			return reject(CheckSearchDistance)
		}
	}
	return Verdict{Valid: true, Failed: CheckNone, Margin: margin}
}

func (sv *ShapeValidator) checkGrayLevel(candidate *Dot) bool {
	spread := (1.0 - candidate.params.GrayLevelPrecision) * 255.0
	lo := float64(candidate.grayLevel.GetMin()) - spread
	hi := float64(candidate.grayLevel.GetMax()) + spread
	return candidate.meanGrayLevel >= lo && candidate.meanGrayLevel <= hi
}

// checkSize requires ref*p - eps < cand < ref/(p + eps) for width and height, with p^2 for surface
func checkSize(candidate, reference *Dot, precision float64) (float64, bool) {
	if precision == 0 || reference.width == 0 || reference.height == 0 || reference.surface == 0 {
		return 1.0, true
	}
	margin := 1.0
	bounded := []struct {
		cand, ref, p float64
	}{
		{candidate.width, reference.width, precision},
		{candidate.height, reference.height, precision},
		{candidate.surface, reference.surface, precision * precision},
	}
	for _, b := range bounded {
		if !(b.ref*b.p-precisionEps < b.cand) || !(b.cand < b.ref/(b.p+precisionEps)) {
			return 0, false
		}
		margin = minFloat64(margin, ratioMargin(b.cand/b.ref, b.p))
	}
	return margin, true
}

// ratioMargin maps ratio r in [p, 1/p] to 1 at r == 1 and 0 at the bounds
func ratioMargin(r, p float64) float64 {
	if p >= 1 || p <= 0 || r <= 0 {
		return 1.0
	}
	return clampFloat64(1.0-math.Abs(math.Log(r))/(-math.Log(p)), 0, 1)
}

// checkShape samples an inner ellipse which must lie in the dot and an outer one which must lie
// in the background. Outer points beyond the search area are ignored
func (sv *ShapeValidator) checkShape(candidate *Dot, precision float64) (float64, bool) {
	ellipse, ok := EllipseFromMoments(candidate.moments)
	if !ok {
		return 0, false
	}
	inner := ellipse
	inner.A1 -= 1.0
	inner.A2 -= 1.0
	for theta := 0.0; theta < 2*math.Pi; theta += innerEllipseStep {
		p := inner.At(theta, precision)
		u, v := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if !sv.membership.HasGoodLevel(sv.img, u, v) {
			if glog.V(2) {
				glog.Infof("inner ellipse point (%d, %d) of dot at (%.1f, %.1f) has no good level", u, v, ellipse.Center.X, ellipse.Center.Y)
			}
			return 0, false
		}
	}
	outer := ellipse
	outer.A1 += 1.0
	outer.A2 += 1.0
	outerCoef := 2.0 - precision
	for theta := 0.0; theta < 2*math.Pi; theta += outerEllipseStep {
		p := outer.At(theta, outerCoef)
		u, v := int(math.Floor(p.X)), int(math.Floor(p.Y))
		if !inImage(sv.img, u, v) || (!sv.area.Empty() && !sv.area.Contains(u, v)) {
			continue
		}
		if !sv.membership.HasReverseLevel(sv.img, u, v) {
			if glog.V(2) {
				glog.Infof("outer ellipse point (%d, %d) of dot at (%.1f, %.1f) has no reverse level", u, v, ellipse.Center.X, ellipse.Center.Y)
			}
			return 0, false
		}
	}
	if ellipse.A1 <= 0 || ellipse.A2 <= 0 {
		return 1.0, true
	}
	fill := candidate.moments.M00 / (math.Pi * ellipse.A1 * ellipse.A2)
	if fill > 1 {
		fill = 1 / fill
	}
	return fill, true
}

// checkSearchDistance bounds the size ratio of candidate and reference by 1/(p + eps)
func checkSearchDistance(candidate, reference *Dot, precision float64) bool {
	if reference.width == 0 || reference.height == 0 || candidate.width == 0 || candidate.height == 0 {
		return true
	}
	limit := 1.0 / (precision + precisionEps)
	widthRatio := maxFloat64(candidate.width, reference.width) / minFloat64(candidate.width, reference.width)
	heightRatio := maxFloat64(candidate.height, reference.height) / minFloat64(candidate.height, reference.height)
	return widthRatio <= limit && heightRatio <= limit
}
