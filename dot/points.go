package dot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Clicker supplies seed points, e.g. from a user clicking into a display
type Clicker interface {
	Click() (Point, error)
}

// ReadPointList parses one "u v" pair per line. Blank lines and lines starting with '#' are skipped
func ReadPointList(r io.Reader) ([]Point, error) {
	points := []Point{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, errors.Errorf("line %d: expected \"u v\", got %q", line, text)
		}
		u, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad u", line)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad v", line)
		}
		points = append(points, Point{X: u, Y: v})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Can't read point list")
	}
	return points, nil
}

// WritePointList writes one "u v" pair per line
func WritePointList(w io.Writer, points []Point) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		if _, err := fmt.Fprintf(bw, "%g %g\n", p.X, p.Y); err != nil {
			return errors.Wrap(err, "Can't write point list")
		}
	}
	return bw.Flush()
}

func LoadPointList(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open point list %s", path)
	}
	defer f.Close()
	return ReadPointList(f)
}

func SavePointList(path string, points []Point) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Can't create point list %s", path)
	}
	if err := WritePointList(f, points); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefineDots returns n trackers configured like template. Seeds are read from the point list
// when path exists, otherwise they are clicked and saved to path. With track set every tracker
// is initialized on img
func DefineDots(img Image, n int, path string, clicker Clicker, template *Dot, strategy Strategy, track bool) ([]*DotTracker, error) {
	if n <= 0 {
		return nil, errors.Errorf("number of dots must be positive, got %d", n)
	}
	var seeds []Point
	if _, err := os.Stat(path); path != "" && err == nil {
		seeds, err = LoadPointList(path)
		if err != nil {
			return nil, err
		}
		if len(seeds) < n {
			return nil, errors.Errorf("point list %s has %d points, need %d", path, len(seeds), n)
		}
		seeds = seeds[:n]
		glog.V(1).Infof("read %d seeds from %s", n, path)
	} else {
		if clicker == nil {
			return nil, errors.Errorf("no point list at %q and no clicker to define %d dots", path, n)
		}
		seeds = make([]Point, 0, n)
		for i := 0; i < n; i++ {
			p, err := clicker.Click()
			if err != nil {
				return nil, errors.Wrapf(err, "Can't click dot %d", i)
			}
			seeds = append(seeds, p)
		}
		if path != "" {
			if err := SavePointList(path, seeds); err != nil {
				return nil, err
			}
			glog.V(1).Infof("saved %d seeds to %s", n, path)
		}
	}

	trackers := make([]*DotTracker, 0, n)
	for i, seed := range seeds {
		tracker := NewDotTracker(template, strategy)
		if track {
			if err := tracker.InitTracking(img, seed); err != nil {
				return nil, errors.Wrapf(err, "dot %d at (%.1f, %.1f)", i, seed.X, seed.Y)
			}
		} else {
			tracker.dot.SetCog(seed)
		}
		trackers = append(trackers, tracker)
	}
	return trackers, nil
}
