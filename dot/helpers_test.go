package dot

import (
	"image"
	"image/color"
)

func newGray(width, height int, level uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	return img
}

func inDisc(u, v int, cu, cv, r float64) bool {
	du := float64(u) - cu
	dv := float64(v) - cv
	return du*du+dv*dv <= r*r
}

func drawDisc(img *image.Gray, cu, cv, r float64, level uint8) {
	bounds := img.Bounds()
	for v := bounds.Min.Y; v < bounds.Max.Y; v++ {
		for u := bounds.Min.X; u < bounds.Max.X; u++ {
			if inDisc(u, v, cu, cv, r) {
				img.SetGray(u, v, color.Gray{Y: level})
			}
		}
	}
}

func drawMask(img *image.Gray, inside func(u, v int) bool, level uint8) {
	bounds := img.Bounds()
	for v := bounds.Min.Y; v < bounds.Max.Y; v++ {
		for u := bounds.Min.X; u < bounds.Max.X; u++ {
			if inside(u, v) {
				img.SetGray(u, v, color.Gray{Y: level})
			}
		}
	}
}

// discImage is the 100x100 frame with a bright disc of radius 20 centered at (50, 50)
func discImage() Image {
	img := newGray(100, 100, 0)
	drawDisc(img, 50, 50, 20, 255)
	return FromGray(img)
}

type memberFunc func(u, v int) bool

func (f memberFunc) HasGoodLevel(img Image, u, v int) bool {
	return f(u, v)
}

func (f memberFunc) HasReverseLevel(img Image, u, v int) bool {
	return !f(u, v)
}

type recordingDisplay struct {
	points  int
	rects   int
	texts   []string
	flushes int
}

func (d *recordingDisplay) DrawPoint(p ImagePoint, c color.Color) {
	d.points++
}

func (d *recordingDisplay) DrawRect(r Rectangle, c color.Color) {
	d.rects++
}

func (d *recordingDisplay) DrawText(at Point, text string, c color.Color) {
	d.texts = append(d.texts, text)
}

func (d *recordingDisplay) Flush() error {
	d.flushes++
	return nil
}

type fixedClicker struct {
	points []Point
	next   int
}

func (c *fixedClicker) Click() (Point, error) {
	p := c.points[c.next]
	c.next++
	return p, nil
}
