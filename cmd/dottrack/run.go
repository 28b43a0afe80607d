package main

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/LdDl/dot-go/dot"
	"github.com/LdDl/dot-go/internal/clicker"
	"github.com/LdDl/dot-go/internal/config"
	"github.com/LdDl/dot-go/internal/imgseq"
	"github.com/LdDl/dot-go/internal/plotdisplay"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var labelColor = color.RGBA{G: 255, A: 255}

// frameResult is the dot state reported for a frame in full resolution coordinates
type frameResult struct {
	frame   int
	state   dot.State
	cog     dot.Point
	surface float64
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.EmptyTuningConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

func run(opts *options, pattern string, stdin io.Reader) error {
	_, err := track(opts, pattern, stdin)
	return err
}

// track follows one dot over the sequence and returns per frame results
func track(opts *options, pattern string, stdin io.Reader) ([]frameResult, error) {
	cfg, err := loadTuning(opts.tuningConfig)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("warp model %d and tracker variant %d belong to the template tracker, tracking with the dot tracker", opts.warpModel, opts.trackerType)

	first := cfg.GetFirstFrame()
	seq, err := imgseq.Open(pattern, first, maxInt(opts.lastFrame, first))
	if err != nil {
		return nil, err
	}
	seq.Pyramid = opts.pyramidal
	scale := 1.0
	if opts.pyramidal {
		scale = 2.0
	}

	var display *plotdisplay.Display
	if !opts.noDisplay {
		display, err = plotdisplay.New(opts.outputDir, "dottrack")
		if err != nil {
			return nil, err
		}
	}

	frame, err := seq.Load(first)
	if err != nil {
		return nil, err
	}
	img := dot.FromGray(frame)
	template := cfg.NewTemplate()
	var sink dot.Display
	if display != nil {
		display.SetFrame(frame, first)
		sink = display
	}
	tracker, err := initTracker(opts, cfg, img, template, stdin, sink)
	if err != nil {
		return nil, err
	}
	results := []frameResult{report(first, tracker, scale)}
	if err := flush(display, tracker); err != nil {
		return nil, err
	}

	for i := first + 1; i <= seq.Last; i++ {
		frame, err := seq.Load(i)
		if err != nil {
			return nil, err
		}
		img := dot.FromGray(frame)
		if display != nil {
			display.SetFrame(frame, i)
		}

		if i == cfg.GetReinitFrame() {
			previous := tracker.GetDot()
			last := previous.GetCog()
			glog.Infof("frame %d: reinit tracker at (%.1f, %.1f)", i, last.X*scale, last.Y*scale)
			tracker.Reset()
			if err := bind(tracker, cfg, img, last); err != nil {
				glog.Warningf("frame %d: reinit failed: %v", i, err)
				if err := searchNearest(tracker, previous, img); err != nil {
					return nil, errors.Wrapf(err, "frame %d", i)
				}
			}
		} else if err := tracker.Track(img); err != nil {
			glog.Warningf("frame %d: %v", i, err)
			if cfg.GetReacquireOnLoss() {
				if err := tracker.Reacquire(img); err != nil {
					glog.Warningf("frame %d: %v", i, err)
				}
			}
		}
		result := report(i, tracker, scale)
		results = append(results, result)
		glog.Infof("frame %d: %s cog (%.2f, %.2f) surface %.0f", i, result.state, result.cog.X, result.cog.Y, result.surface)
		if err := flush(display, tracker); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func initTracker(opts *options, cfg *config.TuningConfig, img dot.Image, template *dot.Dot, stdin io.Reader, display dot.Display) (*dot.DotTracker, error) {
	var clk dot.Clicker
	if opts.noClick {
		search, err := clicker.NewSearch(img, template)
		if err != nil {
			return nil, err
		}
		glog.V(1).Infof("image search found %d dots", search.Len())
		clk = search
	} else {
		clk = clicker.NewReader(stdin, os.Stdout)
	}
	trackers, err := dot.DefineDots(img, 1, opts.pointsFile, clk, template, dot.DefaultStrategy(), false)
	if err != nil {
		return nil, errors.Wrap(err, "Can't define dot")
	}
	tracker := trackers[0]
	if display != nil {
		tracker.SetDisplay(display)
	}
	if err := bind(tracker, cfg, img, tracker.GetCog()); err != nil {
		return nil, err
	}
	glog.Infof("tracking %s", tracker.GetDot())
	return tracker, nil
}

// searchNearest adopts the dot resembling previous that lies closest to its position
func searchNearest(tracker *dot.DotTracker, previous *dot.Dot, img dot.Image) error {
	dots, err := dot.NewAreaSearcher(previous, dot.DefaultStrategy()).SearchDotsInImage(img)
	if err != nil {
		return err
	}
	if len(dots) == 0 {
		return errors.Wrap(dot.ErrNotFound, "Can't find dot after failed reinit")
	}
	nearest := dots[0]
	for _, d := range dots[1:] {
		if previous.DistanceTo(d) < previous.DistanceTo(nearest) {
			nearest = d
		}
	}
	glog.Infof("adopting dot found at (%.1f, %.1f)", nearest.GetCog().X, nearest.GetCog().Y)
	return tracker.Adopt(nearest)
}

// bind initializes tracker at seed with the configured gray band or one estimated around seed
func bind(tracker *dot.DotTracker, cfg *config.TuningConfig, img dot.Image, seed dot.Point) error {
	if lo, hi, ok := cfg.GetGrayBand(); ok {
		return tracker.InitTrackingWithBand(img, seed, lo, hi)
	}
	return tracker.InitTracking(img, seed)
}

func report(frame int, tracker *dot.DotTracker, scale float64) frameResult {
	d := tracker.GetDot()
	cog := d.GetCog()
	return frameResult{
		frame:   frame,
		state:   tracker.GetState(),
		cog:     dot.Point{X: cog.X * scale, Y: cog.Y * scale},
		surface: d.GetSurface() * scale * scale,
	}
}

func flush(display *plotdisplay.Display, tracker *dot.DotTracker) error {
	if display == nil {
		return nil
	}
	d := tracker.GetDot()
	label := fmt.Sprintf("%s %s", d.GetID().String()[:8], tracker.GetState())
	display.DrawText(d.GetCog(), label, labelColor)
	return display.Flush()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
