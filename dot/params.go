package dot

import (
	"math"

	"github.com/pkg/errors"
)

const (
	defaultGrayLevelMin = 128
	defaultGrayLevelMax = 255

	minGrayLevelPrecision = 0.005
	minGamma              = 0.01
	maxGamma              = 100.0

	// precisionEps keeps tolerance divisions finite
	precisionEps = 0.001
)

// Params gathers precision knobs of a dot
type Params struct {
	// GrayLevelPrecision in [0.005, 1]. Closer to 1 means a narrower gray band
	GrayLevelPrecision float64 `json:"gray_level_precision"`
	// Gamma of the intensity response used for the gray band estimation
	Gamma float64 `json:"gamma"`
	// SizePrecision in [0, 1]. Zero disables the size check
	SizePrecision float64 `json:"size_precision"`
	// EllipsoidShapePrecision in [0, 1]. Zero disables the shape check
	EllipsoidShapePrecision float64 `json:"ellipsoid_shape_precision"`
	// MaxSizeSearchDistancePrecision in [0, 1]. See DESIGN.md for the exact semantics
	MaxSizeSearchDistancePrecision float64 `json:"max_size_search_distance_precision"`
}

// DefaultParams returns default precision knobs
func DefaultParams() Params {
	return Params{
		GrayLevelPrecision:             0.80,
		Gamma:                          1.5,
		SizePrecision:                  0.65,
		EllipsoidShapePrecision:        0.65,
		MaxSizeSearchDistancePrecision: 0.65,
	}
}

// Validate fails on values outside of their domain
func (p Params) Validate() error {
	if math.IsNaN(p.GrayLevelPrecision) || p.GrayLevelPrecision < minGrayLevelPrecision || p.GrayLevelPrecision > 1 {
		return errors.Errorf("gray level precision must be in [%v, 1], got %v", minGrayLevelPrecision, p.GrayLevelPrecision)
	}
	if math.IsNaN(p.Gamma) || p.Gamma < minGamma || p.Gamma > maxGamma {
		return errors.Errorf("gamma must be in [%v, %v], got %v", minGamma, maxGamma, p.Gamma)
	}
	if math.IsNaN(p.SizePrecision) || p.SizePrecision < 0 || p.SizePrecision > 1 {
		return errors.Errorf("size precision must be in [0, 1], got %v", p.SizePrecision)
	}
	if math.IsNaN(p.EllipsoidShapePrecision) || p.EllipsoidShapePrecision < 0 || p.EllipsoidShapePrecision > 1 {
		return errors.Errorf("ellipsoid shape precision must be in [0, 1], got %v", p.EllipsoidShapePrecision)
	}
	if math.IsNaN(p.MaxSizeSearchDistancePrecision) || p.MaxSizeSearchDistancePrecision < 0 || p.MaxSizeSearchDistancePrecision > 1 {
		return errors.Errorf("max size search distance precision must be in [0, 1], got %v", p.MaxSizeSearchDistancePrecision)
	}
	return nil
}

// Clamp returns copy with every knob forced into its domain. NaN falls back to the default
func (p Params) Clamp() Params {
	def := DefaultParams()
	return Params{
		GrayLevelPrecision:             clampOr(p.GrayLevelPrecision, minGrayLevelPrecision, 1, def.GrayLevelPrecision),
		Gamma:                          clampOr(p.Gamma, minGamma, maxGamma, def.Gamma),
		SizePrecision:                  clampOr(p.SizePrecision, 0, 1, def.SizePrecision),
		EllipsoidShapePrecision:        clampOr(p.EllipsoidShapePrecision, 0, 1, def.EllipsoidShapePrecision),
		MaxSizeSearchDistancePrecision: clampOr(p.MaxSizeSearchDistancePrecision, 0, 1, def.MaxSizeSearchDistancePrecision),
	}
}

func clampOr(x, lo, hi, fallback float64) float64 {
	if math.IsNaN(x) {
		return fallback
	}
	return clampFloat64(x, lo, hi)
}
