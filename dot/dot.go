package dot

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Dot is a region of gray levels within a band: its configuration and the state of its
// last successful trace
type Dot struct {
	id            uuid.UUID
	cog           Point
	width         float64
	height        float64
	surface       float64
	meanGrayLevel float64
	grayLevel     GrayLevelModel
	params        Params
	directions    []int
	edges         []ImagePoint
	moments       Moments
	bbox          BBox
	firstBorder   ImagePoint
	computeMoment bool
	graphics      bool
}

// NewDot returns empty dot with default band and precisions
func NewDot() *Dot {
	params := DefaultParams()
	return &Dot{
		id:        uuid.New(),
		params:    params,
		grayLevel: NewGrayLevelModel(defaultGrayLevelMin, defaultGrayLevelMax, params),
	}
}

// NewDotAt returns empty dot seeded at given position
func NewDotAt(cog Point) *Dot {
	dot := NewDot()
	dot.cog = cog
	return dot
}

// Clone returns deep copy. The copy keeps the identifier
func (dot *Dot) Clone() *Dot {
	clone := *dot
	clone.directions = append([]int(nil), dot.directions...)
	clone.edges = append([]ImagePoint(nil), dot.edges...)
	return &clone
}

// newCandidate returns dot with same configuration and no trace state
func (dot *Dot) newCandidate() *Dot {
	return &Dot{
		id:            uuid.New(),
		width:         dot.width,
		height:        dot.height,
		surface:       dot.surface,
		grayLevel:     dot.grayLevel,
		params:        dot.params,
		computeMoment: true,
	}
}

// GetID returns dot's identifier
func (dot *Dot) GetID() uuid.UUID {
	return dot.id
}

// SetID sets dot's identifier
func (dot *Dot) SetID(newID uuid.UUID) {
	dot.id = newID
}

// GetCog returns center of gravity
func (dot *Dot) GetCog() Point {
	return dot.cog
}

// SetCog moves the seed used by the next trace
func (dot *Dot) SetCog(cog Point) {
	dot.cog = cog
}

// GetWidth returns width of the bounding box or explicitly set width
func (dot *Dot) GetWidth() float64 {
	return dot.width
}

// SetWidth overrides width
func (dot *Dot) SetWidth(width float64) {
	dot.width = maxFloat64(width, 0)
}

// GetHeight returns height of the bounding box or explicitly set height
func (dot *Dot) GetHeight() float64 {
	return dot.height
}

// SetHeight overrides height
func (dot *Dot) SetHeight(height float64) {
	dot.height = maxFloat64(height, 0)
}

// GetSurface returns m00 or explicitly set surface
func (dot *Dot) GetSurface() float64 {
	return dot.surface
}

// SetSurface overrides surface
func (dot *Dot) SetSurface(surface float64) {
	dot.surface = maxFloat64(surface, 0)
}

// SetSize sets width and height to size and surface to the disc of that diameter.
// A sized template makes initialization check the traced dot against it
func (dot *Dot) SetSize(size float64) {
	size = maxFloat64(size, 0)
	dot.width = size
	dot.height = size
	dot.surface = math.Pi * size * size / 4
}

// GetMeanGrayLevel returns mean gray level observed in the last trace
func (dot *Dot) GetMeanGrayLevel() float64 {
	return dot.meanGrayLevel
}

// GetGrayLevelMin returns lower bound of the gray band
func (dot *Dot) GetGrayLevelMin() int {
	return dot.grayLevel.GetMin()
}

// SetGrayLevelMin sets lower bound of the gray band
func (dot *Dot) SetGrayLevelMin(min int) {
	dot.grayLevel.SetMin(min)
}

// GetGrayLevelMax returns upper bound of the gray band
func (dot *Dot) GetGrayLevelMax() int {
	return dot.grayLevel.GetMax()
}

// SetGrayLevelMax sets upper bound of the gray band
func (dot *Dot) SetGrayLevelMax(max int) {
	dot.grayLevel.SetMax(max)
}

// GetGrayLevelModel returns copy of the gray band
func (dot *Dot) GetGrayLevelModel() GrayLevelModel {
	return dot.grayLevel
}

// GetParams returns precision knobs
func (dot *Dot) GetParams() Params {
	return dot.params
}

// SetParams sets precision knobs clamping each one into its domain
func (dot *Dot) SetParams(params Params) {
	dot.params = params.Clamp()
	dot.grayLevel.SetParams(dot.params)
}

func (dot *Dot) SetGrayLevelPrecision(precision float64) {
	params := dot.params
	params.GrayLevelPrecision = precision
	dot.SetParams(params)
}

func (dot *Dot) SetGamma(gamma float64) {
	params := dot.params
	params.Gamma = gamma
	dot.SetParams(params)
}

func (dot *Dot) SetSizePrecision(precision float64) {
	params := dot.params
	params.SizePrecision = precision
	dot.SetParams(params)
}

func (dot *Dot) SetEllipsoidShapePrecision(precision float64) {
	params := dot.params
	params.EllipsoidShapePrecision = precision
	dot.SetParams(params)
}

func (dot *Dot) SetMaxSizeSearchDistancePrecision(precision float64) {
	params := dot.params
	params.MaxSizeSearchDistancePrecision = precision
	dot.SetParams(params)
}

// GetArea returns search area. Empty area means the whole image
func (dot *Dot) GetArea() Area {
	return dot.grayLevel.GetArea()
}

// SetArea restricts the dot to area clipped by the image
func (dot *Dot) SetArea(img Image, area Area) error {
	if area.Empty() {
		return errors.Wrapf(ErrInvalidArea, "%dx%d at (%d, %d)", area.Width, area.Height, area.U, area.V)
	}
	clipped := area.Intersect(img.Width(), img.Height())
	if clipped.Empty() {
		return errors.Wrapf(ErrInvalidArea, "%dx%d at (%d, %d) is outside %dx%d image", area.Width, area.Height, area.U, area.V, img.Width(), img.Height())
	}
	dot.grayLevel.SetArea(clipped)
	return nil
}

// ResetArea makes the whole image searchable
func (dot *Dot) ResetArea() {
	dot.grayLevel.SetArea(Area{})
}

// searchArea returns area clipped by image
func (dot *Dot) searchArea(img Image) Area {
	area := dot.grayLevel.GetArea()
	if area.Empty() {
		return imageArea(img)
	}
	return area.Intersect(img.Width(), img.Height())
}

// GetDirections returns Freeman chain of the border. Be careful: this is not a copy
func (dot *Dot) GetDirections() []int {
	return dot.directions
}

// GetEdges returns border points, one per chain code. Be careful: this is not a copy
func (dot *Dot) GetEdges() []ImagePoint {
	return dot.edges
}

// GetMoments returns moments. Second order terms are zero unless moment computation is enabled
func (dot *Dot) GetMoments() Moments {
	if dot.computeMoment {
		return dot.moments
	}
	return Moments{M00: dot.moments.M00, M10: dot.moments.M10, M01: dot.moments.M01}
}

// GetBBox returns tightest box around border points
func (dot *Dot) GetBBox() BBox {
	return dot.bbox
}

// GetFirstBorder returns pixel the trace started from
func (dot *Dot) GetFirstBorder() ImagePoint {
	return dot.firstBorder
}

// SetComputeMoments enables publication of second order moments
func (dot *Dot) SetComputeMoments(enabled bool) {
	dot.computeMoment = enabled
}

// GetComputeMoments reports whether second order moments are published
func (dot *Dot) GetComputeMoments() bool {
	return dot.computeMoment
}

// SetGraphics enables drawing of border points while tracing
func (dot *Dot) SetGraphics(enabled bool) {
	dot.graphics = enabled
}

// GetGraphics reports whether border points are drawn while tracing
func (dot *Dot) GetGraphics() bool {
	return dot.graphics
}

// DistanceTo returns distance between centers of gravity
func (dot *Dot) DistanceTo(other *Dot) float64 {
	return euclideanDistance(dot.cog, other.cog)
}

// apply publishes trace results
func (dot *Dot) apply(contour *Contour, meanGrayLevel float64) {
	dot.firstBorder = contour.FirstBorder
	dot.directions = contour.Directions
	dot.edges = contour.Edges
	dot.moments = contour.Moments
	dot.bbox = contour.BBox
	dot.cog = contour.Moments.Centroid()
	dot.width = float64(contour.BBox.UMax - contour.BBox.UMin + 1)
	dot.height = float64(contour.BBox.VMax - contour.BBox.VMin + 1)
	dot.surface = contour.Moments.M00
	dot.meanGrayLevel = meanGrayLevel
}
