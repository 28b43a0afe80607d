package dot

import (
	"image"
	"math"
)

// Rectangle is a floating point rectangle in image coordinates
type Rectangle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func NewRect(x, y, width, height float64) Rectangle {
	return Rectangle{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

func NewRectFrom(rect image.Rectangle) Rectangle {
	return Rectangle{
		X:      float64(rect.Min.X),
		Y:      float64(rect.Min.Y),
		Width:  float64(rect.Dx()),
		Height: float64(rect.Dy()),
	}
}

// Center returns center of the rectangle
func (rect Rectangle) Center() Point {
	return Point{
		X: rect.X + rect.Width/2.0,
		Y: rect.Y + rect.Height/2.0,
	}
}

// Point is a sub-pixel position: X is the column (u), Y is the row (v)
type Point struct {
	X float64
	Y float64
}

func NewPoint(x, y float64) Point {
	return Point{
		X: x,
		Y: y,
	}
}

func NewPointFrom(point ImagePoint) Point {
	return Point{
		X: float64(point.U),
		Y: float64(point.V),
	}
}

// Round returns the nearest pixel
func (p Point) Round() ImagePoint {
	return ImagePoint{
		U: int(math.Round(p.X)),
		V: int(math.Round(p.Y)),
	}
}

// ImagePoint is a pixel position
type ImagePoint struct {
	U int
	V int
}

// Area is an integer search rectangle: pixels [U, U+Width) x [V, V+Height)
type Area struct {
	U      int
	V      int
	Width  int
	Height int
}

func NewArea(u, v, width, height int) Area {
	return Area{
		U:      u,
		V:      v,
		Width:  width,
		Height: height,
	}
}

// AreaAround returns area of given size centered on the point
func AreaAround(center Point, width, height int) Area {
	return Area{
		U:      int(math.Round(center.X)) - width/2,
		V:      int(math.Round(center.Y)) - height/2,
		Width:  width,
		Height: height,
	}
}

// Empty reports whether area contains no pixels
func (a Area) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Right returns last column inside the area
func (a Area) Right() int {
	return a.U + a.Width - 1
}

// Bottom returns last row inside the area
func (a Area) Bottom() int {
	return a.V + a.Height - 1
}

// Contains reports whether pixel (u, v) is inside the area
func (a Area) Contains(u, v int) bool {
	return u >= a.U && u < a.U+a.Width && v >= a.V && v < a.V+a.Height
}

// Center returns sub-pixel center of the area
func (a Area) Center() Point {
	return Point{
		X: float64(a.U) + float64(a.Width-1)/2.0,
		Y: float64(a.V) + float64(a.Height-1)/2.0,
	}
}

// Intersect clips area to the image of given size. Result may be empty
func (a Area) Intersect(width, height int) Area {
	u0 := maxInt(a.U, 0)
	v0 := maxInt(a.V, 0)
	u1 := minInt(a.U+a.Width, width)
	v1 := minInt(a.V+a.Height, height)
	return Area{
		U:      u0,
		V:      v0,
		Width:  maxInt(0, u1-u0),
		Height: maxInt(0, v1-v0),
	}
}

// BBox is the tightest integer box around traced border points (inclusive bounds)
type BBox struct {
	UMin int
	UMax int
	VMin int
	VMax int
}

// Contains reports whether pixel (u, v) lies in the box
func (b BBox) Contains(u, v int) bool {
	return u >= b.UMin && u <= b.UMax && v >= b.VMin && v <= b.VMax
}

// ContainsPoint reports whether sub-pixel point lies in the box
func (b BBox) ContainsPoint(p Point) bool {
	return p.X >= float64(b.UMin) && p.X <= float64(b.UMax) && p.Y >= float64(b.VMin) && p.Y <= float64(b.VMax)
}

// Rectangle converts box to a floating point rectangle covering the pixels
func (b BBox) Rectangle() Rectangle {
	return Rectangle{
		X:      float64(b.UMin),
		Y:      float64(b.VMin),
		Width:  float64(b.UMax - b.UMin + 1),
		Height: float64(b.VMax - b.VMin + 1),
	}
}

func euclideanDistance(p1, p2 Point) float64 {
	return math.Sqrt(math.Pow(float64(p1.X-p2.X), 2) + math.Pow(float64(p1.Y-p2.Y), 2))
}
