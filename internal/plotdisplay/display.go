// Package plotdisplay renders tracking frames with overlays into PNG files.
package plotdisplay

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/LdDl/dot-go/dot"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const pixelsPerInch = 96

type label struct {
	at   dot.Point
	text string
	c    color.Color
}

// Display implements dot.Display. Drawn items are kept until Flush writes them over the current frame
type Display struct {
	outputDir string
	prefix    string
	frame     image.Image
	frameNum  int
	points    map[color.RGBA]plotter.XYs
	rects     []plotter.XYs
	rectColor []color.Color
	labels    []label
	written   []string
}

func New(outputDir, prefix string) (*Display, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "Can't create output directory %s", outputDir)
	}
	return &Display{
		outputDir: outputDir,
		prefix:    prefix,
		points:    make(map[color.RGBA]plotter.XYs),
	}, nil
}

// SetFrame sets background image of the next flush
func (d *Display) SetFrame(img image.Image, frameNum int) {
	d.frame = img
	d.frameNum = frameNum
}

// Written returns paths of flushed files
func (d *Display) Written() []string {
	return d.written
}

func (d *Display) height() float64 {
	if d.frame == nil {
		return 0
	}
	return float64(d.frame.Bounds().Dy())
}

// toPlot maps image coordinates to plot coordinates: plot Y axis grows upwards
func (d *Display) toPlot(u, v float64) plotter.XY {
	return plotter.XY{X: u + 0.5, Y: d.height() - v - 0.5}
}

func (d *Display) DrawPoint(p dot.ImagePoint, c color.Color) {
	key := color.RGBAModel.Convert(c).(color.RGBA)
	d.points[key] = append(d.points[key], d.toPlot(float64(p.U), float64(p.V)))
}

func (d *Display) DrawRect(r dot.Rectangle, c color.Color) {
	h := d.height()
	x0, x1 := r.X, r.X+r.Width
	y0, y1 := h-r.Y, h-(r.Y+r.Height)
	d.rects = append(d.rects, plotter.XYs{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
	})
	d.rectColor = append(d.rectColor, c)
}

func (d *Display) DrawText(at dot.Point, text string, c color.Color) {
	d.labels = append(d.labels, label{at: at, text: text, c: c})
}

// Flush writes <outputDir>/<prefix>.<frame>.png and clears drawn items
func (d *Display) Flush() error {
	defer d.reset()
	if d.frame == nil {
		return errors.New("no frame to draw on")
	}
	bounds := d.frame.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = 0, width
	p.Y.Min, p.Y.Max = 0, height
	p.Add(plotter.NewImage(d.frame, 0, 0, width, height))

	for c, xys := range d.points {
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return errors.Wrap(err, "Can't create points")
		}
		scatter.GlyphStyle.Color = c
		scatter.GlyphStyle.Radius = vg.Points(0.5)
		p.Add(scatter)
	}
	for i, xys := range d.rects {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return errors.Wrap(err, "Can't create rectangle")
		}
		line.Color = d.rectColor[i]
		line.Width = vg.Points(1)
		p.Add(line)
	}
	if len(d.labels) > 0 {
		data := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(d.labels)),
			Labels: make([]string, len(d.labels)),
		}
		for i, l := range d.labels {
			data.XYs[i] = d.toPlot(l.at.X, l.at.Y)
			data.Labels[i] = l.text
		}
		labels, err := plotter.NewLabels(data)
		if err != nil {
			return errors.Wrap(err, "Can't create labels")
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = d.labels[i].c
		}
		p.Add(labels)
	}

	file := filepath.Join(d.outputDir, fmt.Sprintf("%s.%04d.png", d.prefix, d.frameNum))
	w := vg.Length(width) * vg.Inch / pixelsPerInch
	h := vg.Length(height) * vg.Inch / pixelsPerInch
	if err := p.Save(w, h, file); err != nil {
		return errors.Wrapf(err, "Can't save %s", file)
	}
	d.written = append(d.written, file)
	glog.V(2).Infof("display flushed to %s", file)
	return nil
}

func (d *Display) reset() {
	d.points = make(map[color.RGBA]plotter.XYs)
	d.rects = d.rects[:0]
	d.rectColor = d.rectColor[:0]
	d.labels = d.labels[:0]
}
