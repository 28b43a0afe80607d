package dot

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// Membership decides which pixels belong to the dot and which belong to its background
type Membership interface {
	HasGoodLevel(img Image, u, v int) bool
	HasReverseLevel(img Image, u, v int) bool
}

// GrayLevelModel is the inclusive gray band [min, max] restricted to a search area.
// It implements Membership
type GrayLevelModel struct {
	min       int
	max       int
	precision float64
	gamma     float64
	area      Area
}

func NewGrayLevelModel(min, max int, params Params) GrayLevelModel {
	params = params.Clamp()
	model := GrayLevelModel{
		min:       defaultGrayLevelMin,
		max:       defaultGrayLevelMax,
		precision: params.GrayLevelPrecision,
		gamma:     params.Gamma,
	}
	model.SetBand(min, max)
	return model
}

func NewGrayLevelModelDefault() GrayLevelModel {
	return NewGrayLevelModel(defaultGrayLevelMin, defaultGrayLevelMax, DefaultParams())
}

// GetMin returns lower bound of the band
func (model *GrayLevelModel) GetMin() int {
	return model.min
}

// GetMax returns upper bound of the band
func (model *GrayLevelModel) GetMax() int {
	return model.max
}

// GetArea returns restricting area. Empty area means the whole image
func (model *GrayLevelModel) GetArea() Area {
	return model.area
}

// SetArea restricts membership to the area
func (model *GrayLevelModel) SetArea(area Area) {
	model.area = area
}

// SetMin sets lower bound. Bound above current max pushes max up
func (model *GrayLevelModel) SetMin(min int) {
	model.min = clampInt(min, 0, 255)
	if model.max < model.min {
		model.max = model.min
	}
}

// SetMax sets upper bound. Bound below current min pulls min down
func (model *GrayLevelModel) SetMax(max int) {
	model.max = clampInt(max, 0, 255)
	if model.min > model.max {
		model.min = model.max
	}
}

// SetBand sets both bounds, swapping inverted input
func (model *GrayLevelModel) SetBand(min, max int) {
	if min > max {
		min, max = max, min
	}
	model.min = clampInt(min, 0, 255)
	model.max = clampInt(max, 0, 255)
}

// SetParams updates precision and gamma used by band estimation
func (model *GrayLevelModel) SetParams(params Params) {
	params = params.Clamp()
	model.precision = params.GrayLevelPrecision
	model.gamma = params.Gamma
}

// InBand reports whether gray level lies in [min, max]
func (model *GrayLevelModel) InBand(level float64) bool {
	return level >= float64(model.min) && level <= float64(model.max)
}

func (model GrayLevelModel) inArea(img Image, u, v int) bool {
	if !inImage(img, u, v) {
		return false
	}
	return model.area.Empty() || model.area.Contains(u, v)
}

// HasGoodLevel reports whether pixel is inside the area and its level is within the band
func (model GrayLevelModel) HasGoodLevel(img Image, u, v int) bool {
	if !model.inArea(img, u, v) {
		return false
	}
	level := int(img.Level(u, v))
	return level >= model.min && level <= model.max
}

// HasReverseLevel reports whether pixel is inside the area and its level is outside the band
func (model GrayLevelModel) HasReverseLevel(img Image, u, v int) bool {
	if !model.inArea(img, u, v) {
		return false
	}
	level := int(img.Level(u, v))
	return level < model.min || level > model.max
}

// EstimateBand derives the band from the mean level of the seed 3x3 neighbourhood
func (model *GrayLevelModel) EstimateBand(img Image, seed ImagePoint) error {
	if !inImage(img, seed.U, seed.V) {
		return errors.Wrapf(ErrOutOfBounds, "seed (%d, %d) is outside %dx%d image", seed.U, seed.V, img.Width(), img.Height())
	}
	levels := make([]float64, 0, 9)
	for v := seed.V - 1; v <= seed.V+1; v++ {
		for u := seed.U - 1; u <= seed.U+1; u++ {
			if inImage(img, u, v) {
				levels = append(levels, float64(img.Level(u, v)))
			}
		}
	}
	model.AdaptToMean(stat.Mean(levels, nil))
	return nil
}

// AdaptToMean recenters the band on observed mean gray level
func (model *GrayLevelModel) AdaptToMean(mean float64) {
	min, max := BandFromLevel(mean, model.precision, model.gamma)
	model.SetBand(min, max)
}

// BandFromLevel returns band around level. Level is linearized with gamma, widened by (1 - precision)
// and mapped back
func BandFromLevel(level, precision, gamma float64) (int, int) {
	ip := math.Pow(clampFloat64(level, 0, 255)/255.0, 1.0/gamma)
	spread := 1.0 - precision
	min := 0
	if lo := ip - spread; lo >= 0 {
		min = clampInt(int(255.0*math.Pow(lo, gamma)), 0, 255)
	}
	max := clampInt(int(255.0*math.Pow(minFloat64(ip+spread, 1.0), gamma)), 0, 255)
	if min > max {
		min = max
	}
	return min, max
}
