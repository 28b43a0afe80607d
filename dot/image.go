package dot

import (
	"image"
)

// Image is a read-only 8-bit gray image addressed by column u and row v starting at zero
type Image interface {
	Width() int
	Height() int
	Level(u, v int) uint8
}

type grayImage struct {
	img *image.Gray
}

// FromGray wraps *image.Gray without copying pixels
func FromGray(img *image.Gray) Image {
	return grayImage{img: img}
}

func (g grayImage) Width() int {
	return g.img.Rect.Dx()
}

func (g grayImage) Height() int {
	return g.img.Rect.Dy()
}

func (g grayImage) Level(u, v int) uint8 {
	return g.img.Pix[v*g.img.Stride+u]
}

// inImage reports whether pixel (u, v) can be read
func inImage(img Image, u, v int) bool {
	return u >= 0 && v >= 0 && u < img.Width() && v < img.Height()
}

// imageArea returns area covering the whole image
func imageArea(img Image) Area {
	return Area{U: 0, V: 0, Width: img.Width(), Height: img.Height()}
}
