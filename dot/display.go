package dot

import (
	"image/color"
)

// Display receives drawing requests. Absence of a display never changes tracking results
type Display interface {
	DrawPoint(p ImagePoint, c color.Color)
	DrawRect(r Rectangle, c color.Color)
	DrawText(at Point, text string, c color.Color)
	Flush() error
}

const crossHalfSize = 5

// DrawDot draws cross at center of gravity, bounding box and border points
func DrawDot(display Display, dot *Dot, c color.Color) {
	center := dot.cog.Round()
	for i := -crossHalfSize; i <= crossHalfSize; i++ {
		display.DrawPoint(ImagePoint{U: center.U + i, V: center.V}, c)
		display.DrawPoint(ImagePoint{U: center.U, V: center.V + i}, c)
	}
	display.DrawRect(dot.bbox.Rectangle(), c)
	for _, p := range dot.edges {
		display.DrawPoint(p, c)
	}
}
