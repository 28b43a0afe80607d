package dot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"
)

// Predictor estimates where the dot center of gravity will be in the next frame
type Predictor struct {
	tracker   *kalman_filter.Kalman2D
	dt        float64
	predicted Point
}

func NewPredictor(dt float64, at Point) *Predictor {
	p := &Predictor{dt: dt}
	p.Reset(at)
	return p
}

func NewPredictorDefault(at Point) *Predictor {
	return NewPredictor(1.0, at)
}

// Reset restarts filter from given position with zero velocity
func (p *Predictor) Reset(at Point) {
	/* Kalman filter props */
	ux := 0.0
	uy := 0.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	p.tracker = kalman_filter.NewKalman2D(p.dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(at.X, at.Y))
	p.predicted = at
}

// Predict execute Kalman filter's first step and returns predicted position
func (p *Predictor) Predict() Point {
	p.tracker.Predict()
	stateX, stateY := p.tracker.GetState()
	p.predicted = Point{X: stateX, Y: stateY}
	return p.predicted
}

// GetPredicted returns last predicted position
func (p *Predictor) GetPredicted() Point {
	return p.predicted
}

// Update corrects the filter with measured position
func (p *Predictor) Update(measured Point) error {
	err := p.tracker.Update(measured.X, measured.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update position predictor")
	}
	return nil
}
