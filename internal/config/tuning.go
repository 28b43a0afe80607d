// Package config loads tuning of the dot tracking driver from a JSON file.
// Every field is optional: absent fields fall back to defaults through the Get* methods
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/LdDl/dot-go/dot"
	"github.com/pkg/errors"
)

const DefaultConfigPath = "config/tuning.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

type TuningConfig struct {
	GrayLevelPrecision             *float64 `json:"gray_level_precision,omitempty"`
	Gamma                          *float64 `json:"gamma,omitempty"`
	SizePrecision                  *float64 `json:"size_precision,omitempty"`
	EllipsoidShapePrecision        *float64 `json:"ellipsoid_shape_precision,omitempty"`
	MaxSizeSearchDistancePrecision *float64 `json:"max_size_search_distance_precision,omitempty"`

	// Explicit gray band. When absent the band is estimated around the seed
	GrayLevelMin *int `json:"gray_level_min,omitempty"`
	GrayLevelMax *int `json:"gray_level_max,omitempty"`

	ComputeMoments *bool `json:"compute_moments,omitempty"`
	Graphics       *bool `json:"graphics,omitempty"`

	FirstFrame  *int `json:"first_frame,omitempty"`
	ReinitFrame *int `json:"reinit_frame,omitempty"`
	// ReacquireOnLoss makes the driver search around the last position after a failed track
	ReacquireOnLoss *bool `json:"reacquire_on_loss,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func (c *TuningConfig) Validate() error {
	if err := c.GetParams().Validate(); err != nil {
		return err
	}
	for name, level := range map[string]*int{"gray_level_min": c.GrayLevelMin, "gray_level_max": c.GrayLevelMax} {
		if level != nil && (*level < 0 || *level > 255) {
			return errors.Errorf("%s must be between 0 and 255, got %d", name, *level)
		}
	}
	if c.GrayLevelMin != nil && c.GrayLevelMax != nil && *c.GrayLevelMin > *c.GrayLevelMax {
		return errors.Errorf("gray_level_min %d is above gray_level_max %d", *c.GrayLevelMin, *c.GrayLevelMax)
	}
	if c.FirstFrame != nil && *c.FirstFrame < 0 {
		return errors.Errorf("first_frame must be non-negative, got %d", *c.FirstFrame)
	}
	return nil
}

// GetParams returns precision knobs with defaults for absent fields
func (c *TuningConfig) GetParams() dot.Params {
	params := dot.DefaultParams()
	if c.GrayLevelPrecision != nil {
		params.GrayLevelPrecision = *c.GrayLevelPrecision
	}
	if c.Gamma != nil {
		params.Gamma = *c.Gamma
	}
	if c.SizePrecision != nil {
		params.SizePrecision = *c.SizePrecision
	}
	if c.EllipsoidShapePrecision != nil {
		params.EllipsoidShapePrecision = *c.EllipsoidShapePrecision
	}
	if c.MaxSizeSearchDistancePrecision != nil {
		params.MaxSizeSearchDistancePrecision = *c.MaxSizeSearchDistancePrecision
	}
	return params
}

// GetGrayBand returns explicit band and whether it was configured
func (c *TuningConfig) GetGrayBand() (int, int, bool) {
	if c.GrayLevelMin == nil || c.GrayLevelMax == nil {
		return 0, 0, false
	}
	return *c.GrayLevelMin, *c.GrayLevelMax, true
}

func (c *TuningConfig) GetComputeMoments() bool {
	if c.ComputeMoments == nil {
		return false // default
	}
	return *c.ComputeMoments
}

func (c *TuningConfig) GetGraphics() bool {
	if c.Graphics == nil {
		return true // default
	}
	return *c.Graphics
}

func (c *TuningConfig) GetFirstFrame() int {
	if c.FirstFrame == nil {
		return 1 // default
	}
	return *c.FirstFrame
}

// GetReinitFrame returns frame where tracker is reset and reinitialized. Negative disables it
func (c *TuningConfig) GetReinitFrame() int {
	if c.ReinitFrame == nil {
		return 10 // default
	}
	return *c.ReinitFrame
}

func (c *TuningConfig) GetReacquireOnLoss() bool {
	if c.ReacquireOnLoss == nil {
		return true // default
	}
	return *c.ReacquireOnLoss
}

// NewTemplate returns dot configured by the tuning
func (c *TuningConfig) NewTemplate() *dot.Dot {
	template := dot.NewDot()
	template.SetParams(c.GetParams())
	if min, max, ok := c.GetGrayBand(); ok {
		template.SetGrayLevelMin(min)
		template.SetGrayLevelMax(max)
	}
	template.SetComputeMoments(c.GetComputeMoments())
	template.SetGraphics(c.GetGraphics())
	return template
}
