package dot

import (
	"github.com/pkg/errors"
)

// Moments holds raw and central moments of a dot region
type Moments struct {
	M00  float64
	M10  float64
	M01  float64
	M11  float64
	M20  float64
	M02  float64
	Mu11 float64
	Mu20 float64
	Mu02 float64
}

// Centroid returns (m10/m00, m01/m00)
func (m Moments) Centroid() Point {
	if m.M00 == 0 {
		return Point{}
	}
	return Point{X: m.M10 / m.M00, Y: m.M01 / m.M00}
}

// withCentral fills central moments from raw ones
func (m Moments) withCentral() Moments {
	if m.M00 == 0 {
		return m
	}
	cog := m.Centroid()
	m.Mu11 = m.M11 - cog.X*m.M01
	m.Mu20 = m.M20 - cog.X*m.M10
	m.Mu02 = m.M02 - cog.Y*m.M01
	return m
}

// MomentAccumulator sums pixel moments of a region while its border is traced.
//
// Each border pixel visit sweeps the background neighbours between incoming and outgoing
// chain codes. A swept east neighbour closes a pixel run on the right: the row prefix sums
// up to u are added. A swept west neighbour opens a run on the left: the row prefix sums
// up to u-1 are subtracted. Over a closed outer border this equals summation over every
// enclosed pixel
type MomentAccumulator struct {
	moments    Moments
	signedArea float64
	bbox       BBox
	points     int
}

func NewMomentAccumulator(first ImagePoint) *MomentAccumulator {
	return &MomentAccumulator{
		bbox: BBox{UMin: first.U, UMax: first.U, VMin: first.V, VMax: first.V},
	}
}

// Visit accounts pixel p entered with code din and left with code dout
func (acc *MomentAccumulator) Visit(p ImagePoint, din, dout int) {
	count := freemanNorm(dout - din - 5)
	for i := 0; i < count; i++ {
		switch freemanNorm(din + 5 + i) {
		case FreemanEast:
			acc.addRow(p.U, p.V, 1)
		case FreemanWest:
			acc.addRow(p.U-1, p.V, -1)
		}
	}
}

// Step accounts chain step leaving p with code
func (acc *MomentAccumulator) Step(p ImagePoint, code int) {
	du, dv := FreemanStep(code)
	u, v := float64(p.U), float64(p.V)
	acc.signedArea += 0.5 * (float64(du)*v - u*float64(dv))
	next := ImagePoint{U: p.U + du, V: p.V + dv}
	acc.bbox.UMin = minInt(acc.bbox.UMin, next.U)
	acc.bbox.UMax = maxInt(acc.bbox.UMax, next.U)
	acc.bbox.VMin = minInt(acc.bbox.VMin, next.V)
	acc.bbox.VMax = maxInt(acc.bbox.VMax, next.V)
	acc.points++
}

// addRow adds sign * sum over x in [0, u] of f(x, v) for every moment function f
func (acc *MomentAccumulator) addRow(u, v int, sign float64) {
	if u < 0 {
		return
	}
	x := float64(u)
	y := float64(v)
	s0 := x + 1
	s1 := x * (x + 1) / 2
	s2 := x * (x + 1) * (2*x + 1) / 6
	acc.moments.M00 += sign * s0
	acc.moments.M10 += sign * s1
	acc.moments.M20 += sign * s2
	acc.moments.M01 += sign * y * s0
	acc.moments.M11 += sign * y * s1
	acc.moments.M02 += sign * y * y * s0
}

// Finalize checks the closed trace and returns moments with central terms
func (acc *MomentAccumulator) Finalize() (Moments, BBox, error) {
	if acc.signedArea <= 0 {
		return Moments{}, acc.bbox, errors.Wrapf(ErrInvalidShape, "degenerate trace: signed area %v", acc.signedArea)
	}
	if acc.moments.M00 <= 0 {
		return Moments{}, acc.bbox, errors.Wrapf(ErrInvalidShape, "empty region: m00 %v", acc.moments.M00)
	}
	return acc.moments.withCentral(), acc.bbox, nil
}

// MomentsBySummation sums moments over every pixel accepted by the predicate inside the box
func MomentsBySummation(box BBox, inside func(u, v int) bool) Moments {
	m := Moments{}
	for v := box.VMin; v <= box.VMax; v++ {
		for u := box.UMin; u <= box.UMax; u++ {
			if !inside(u, v) {
				continue
			}
			x, y := float64(u), float64(v)
			m.M00++
			m.M10 += x
			m.M01 += y
			m.M11 += x * y
			m.M20 += x * x
			m.M02 += y * y
		}
	}
	return m.withCentral()
}
