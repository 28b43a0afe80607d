package dot

import (
	"image/color"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// State of a DotTracker
type State string

const (
	StateUnbound     = State("unbound")
	StateSeeded      = State("seeded")
	StateTracking    = State("tracking")
	StateLost        = State("lost")
	StateReacquiring = State("reacquiring")
)

const (
	// reacquireFactor scales the last dot size into the reacquisition area
	reacquireFactor = 5
)

var dotColor = color.RGBA{R: 255, A: 255}

// DotTracker tracks a single dot across frames
type DotTracker struct {
	template  *Dot
	dot       *Dot
	state     State
	strategy  Strategy
	predictor *Predictor
	display   Display
}

// NewDotTracker returns unbound tracker. Template configures band, precisions, area and flags
func NewDotTracker(template *Dot, strategy Strategy) *DotTracker {
	if template == nil {
		template = NewDot()
	}
	return &DotTracker{
		template: template.Clone(),
		dot:      template.Clone(),
		state:    StateUnbound,
		strategy: strategy.withDefaults(),
	}
}

func NewDotTrackerDefault() *DotTracker {
	return NewDotTracker(NewDot(), DefaultStrategy())
}

// SetDisplay sets drawing target used when graphics are enabled
func (tracker *DotTracker) SetDisplay(display Display) {
	tracker.display = display
}

// SetGraphics enables drawing of the dot after each success
func (tracker *DotTracker) SetGraphics(enabled bool) {
	tracker.template.SetGraphics(enabled)
	tracker.dot.SetGraphics(enabled)
}

// SetComputeMoments enables publication of second order moments
func (tracker *DotTracker) SetComputeMoments(enabled bool) {
	tracker.template.SetComputeMoments(enabled)
	tracker.dot.SetComputeMoments(enabled)
}

// SetParams sets precision knobs
func (tracker *DotTracker) SetParams(params Params) {
	tracker.template.SetParams(params)
	tracker.dot.SetParams(params)
}

// SetArea restricts tracking to area
func (tracker *DotTracker) SetArea(img Image, area Area) error {
	if err := tracker.dot.SetArea(img, area); err != nil {
		return err
	}
	tracker.template.grayLevel.SetArea(tracker.dot.GetArea())
	return nil
}

// GetState returns current state
func (tracker *DotTracker) GetState() State {
	return tracker.state
}

// GetDot returns snapshot of the dot as of the last success
func (tracker *DotTracker) GetDot() *Dot {
	return tracker.dot.Clone()
}

// GetCog returns center of gravity as of the last success
func (tracker *DotTracker) GetCog() Point {
	return tracker.dot.cog
}

// GetBBox returns bounding box as of the last success
func (tracker *DotTracker) GetBBox() BBox {
	return tracker.dot.bbox
}

// GetEdges returns border points as of the last success. Be careful: this is not a copy
func (tracker *DotTracker) GetEdges() []ImagePoint {
	return tracker.dot.edges
}

// GetDirections returns Freeman chain as of the last success. Be careful: this is not a copy
func (tracker *DotTracker) GetDirections() []int {
	return tracker.dot.directions
}

// GetPredicted returns centroid predicted for the current frame
func (tracker *DotTracker) GetPredicted() Point {
	if tracker.predictor == nil {
		return tracker.dot.cog
	}
	return tracker.predictor.GetPredicted()
}

// DistanceTo returns distance between centers of gravity
func (tracker *DotTracker) DistanceTo(other *Dot) float64 {
	return tracker.dot.DistanceTo(other)
}

func (tracker *DotTracker) membership(dot *Dot) Membership {
	return tracker.strategy.Membership(dot.grayLevel)
}

// InitTracking binds tracker to image and seed estimating gray band from the seed neighbourhood
func (tracker *DotTracker) InitTracking(img Image, seed Point) error {
	candidate := tracker.template.Clone()
	if err := candidate.grayLevel.EstimateBand(img, seed.Round()); err != nil {
		return errors.Wrap(err, "Can't estimate gray band")
	}
	return tracker.init(img, candidate, seed)
}

// InitTrackingWithBand binds tracker to image and seed with explicit gray band
func (tracker *DotTracker) InitTrackingWithBand(img Image, seed Point, min, max int) error {
	candidate := tracker.template.Clone()
	candidate.grayLevel.SetBand(min, max)
	return tracker.init(img, candidate, seed)
}

// InitTrackingClick binds tracker to image and seed supplied by the clicker
func (tracker *DotTracker) InitTrackingClick(img Image, clicker Clicker) error {
	seed, err := clicker.Click()
	if err != nil {
		return errors.Wrap(err, "Can't get seed")
	}
	return tracker.InitTracking(img, seed)
}

func (tracker *DotTracker) init(img Image, candidate *Dot, seed Point) error {
	candidate.cog = seed
	membership := tracker.membership(candidate)
	contour, mean, err := computeDot(img, candidate, seed.Round(), membership, tracker.display)
	if err != nil {
		return errors.Wrapf(err, "Can't init dot at (%.1f, %.1f)", seed.X, seed.Y)
	}
	candidate.apply(contour, mean)
	// unsized template skips the size check
	verdict := NewShapeValidator(img, membership, candidate.searchArea(img)).Validate(candidate, tracker.template)
	if !verdict.Valid {
		return errors.Wrapf(ErrInvalidShape, "dot at (%.1f, %.1f) failed %s check", seed.X, seed.Y, verdict.Failed)
	}
	tracker.dot = candidate
	tracker.predictor = NewPredictorDefault(candidate.cog)
	tracker.state = StateSeeded
	glog.V(1).Infof("init %s", candidate)
	tracker.draw()
	return nil
}

// Track retraces the dot at the predicted position, then at the last position.
// On failure the tracker is lost and published state is kept as of the last success
func (tracker *DotTracker) Track(img Image) error {
	if tracker.state == StateUnbound {
		return ErrNotInitialized
	}
	ref := tracker.dot
	predicted := tracker.predictor.Predict()
	seeds := []ImagePoint{predicted.Round()}
	if last := ref.cog.Round(); last != seeds[0] {
		seeds = append(seeds, last)
	}
	membership := tracker.membership(ref)
	validator := NewShapeValidator(img, membership, ref.searchArea(img))

	var lastErr error
	for _, seed := range seeds {
		candidate := tracker.strategy.NewCandidate(ref)
		candidate.id = ref.id
		candidate.grayLevel = ref.grayLevel
		candidate.computeMoment = ref.computeMoment
		candidate.graphics = ref.graphics
		contour, mean, err := computeDot(img, candidate, seed, membership, tracker.display)
		if err != nil {
			lastErr = err
			continue
		}
		candidate.apply(contour, mean)
		verdict := validator.Validate(candidate, ref)
		if !verdict.Valid {
			lastErr = errors.Wrapf(ErrInvalidShape, "failed %s check", verdict.Failed)
			continue
		}
		candidate.grayLevel.AdaptToMean(mean)
		if err := tracker.predictor.Update(candidate.cog); err != nil {
			return err
		}
		tracker.dot = candidate
		tracker.state = StateTracking
		glog.V(2).Infof("track %s", candidate)
		tracker.draw()
		return nil
	}
	tracker.state = StateLost
	glog.Warningf("dot %s lost near (%.1f, %.1f): %v", ref.id, ref.cog.X, ref.cog.Y, lastErr)
	return errors.Wrapf(lastErr, "Can't track dot near (%.1f, %.1f)", ref.cog.X, ref.cog.Y)
}

// ReacquireArea returns area searched by Reacquire. Unknown size means the whole image
func (tracker *DotTracker) ReacquireArea(img Image) Area {
	dot := tracker.dot
	if dot.width == 0 || dot.height == 0 {
		return imageArea(img)
	}
	return AreaAround(dot.cog, int(reacquireFactor*dot.width), int(reacquireFactor*dot.height))
}

// Reacquire searches around the last position and adopts the closest valid dot
func (tracker *DotTracker) Reacquire(img Image) error {
	if tracker.state == StateUnbound {
		return ErrNotInitialized
	}
	tracker.state = StateReacquiring
	area := tracker.ReacquireArea(img)
	searcher := NewAreaSearcher(tracker.dot, tracker.strategy)
	searcher.SetDisplay(tracker.display)
	dots, err := searcher.SearchDotsInArea(img, area)
	if err != nil {
		tracker.state = StateLost
		return errors.Wrap(err, "Can't reacquire dot")
	}
	if len(dots) == 0 {
		tracker.state = StateLost
		return errors.Wrapf(ErrNotFound, "no dot in %dx%d area at (%d, %d)", area.Width, area.Height, area.U, area.V)
	}
	return tracker.Adopt(dots[0])
}

// Adopt makes an externally found dot the tracked one
func (tracker *DotTracker) Adopt(found *Dot) error {
	if found == nil {
		return errors.Wrap(ErrNotFound, "nothing to adopt")
	}
	adopted := found.Clone()
	adopted.id = tracker.dot.id
	adopted.grayLevel.SetArea(tracker.dot.GetArea())
	adopted.computeMoment = tracker.dot.computeMoment
	adopted.graphics = tracker.dot.graphics
	tracker.dot = adopted
	tracker.predictor = NewPredictorDefault(adopted.cog)
	tracker.state = StateTracking
	glog.V(1).Infof("adopt %s", adopted)
	tracker.draw()
	return nil
}

// Reset returns tracker to unbound state
func (tracker *DotTracker) Reset() {
	id := tracker.dot.id
	tracker.dot = tracker.template.Clone()
	tracker.dot.id = id
	tracker.predictor = nil
	tracker.state = StateUnbound
}

func (tracker *DotTracker) draw() {
	if tracker.display == nil || !tracker.dot.graphics {
		return
	}
	DrawDot(tracker.display, tracker.dot, dotColor)
}
