// Package imgseq reads numbered gray image sequences such as image.%04d.pgm.
package imgseq

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	_ "github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// FrameInfo identifies a frame of a sequence.
type FrameInfo struct {
	SeqNum int
	Path   string
}

// Sequence is a set of numbered frames whose paths follow a printf pattern.
type Sequence struct {
	Pattern string
	First   int
	Last    int
	// Pyramid halves every frame before returning it
	Pyramid bool
}

// Open checks that the first frame of the sequence can be decoded.
func Open(pattern string, first, last int) (*Sequence, error) {
	if last < first {
		return nil, errors.Errorf("last frame %d is before first frame %d", last, first)
	}
	seq := &Sequence{Pattern: pattern, First: first, Last: last}
	if _, err := LoadGray(seq.Path(first)); err != nil {
		return nil, errors.Wrapf(err, "Can't open sequence %s", pattern)
	}
	return seq, nil
}

// Path returns path of frame i.
func (seq *Sequence) Path(i int) string {
	return fmt.Sprintf(seq.Pattern, i)
}

// Frames returns info of every frame in order.
func (seq *Sequence) Frames() []FrameInfo {
	ret := make([]FrameInfo, 0, seq.Last-seq.First+1)
	for i := seq.First; i <= seq.Last; i++ {
		ret = append(ret, FrameInfo{SeqNum: i, Path: seq.Path(i)})
	}
	return ret
}

// Load returns frame i as gray image.
func (seq *Sequence) Load(i int) (*image.Gray, error) {
	img, err := LoadGray(seq.Path(i))
	if err != nil {
		return nil, err
	}
	if seq.Pyramid {
		img = HalfScale(img)
	}
	glog.V(2).Infof("loaded frame %d %dx%d", i, img.Rect.Dx(), img.Rect.Dy())
	return img, nil
}

// LoadGray decodes any registered format (pgm, ppm, png, bmp, tiff) into gray levels.
func LoadGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open image %s", path)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't decode image %s", path)
	}
	glog.V(3).Infof("decoded %s as %s", path, format)
	return ToGray(img), nil
}

// ToGray converts image to *image.Gray with origin at (0, 0).
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	if gray, ok := img.(*image.Gray); ok && bounds.Min == (image.Point{}) {
		return gray
	}
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// HalfScale returns the next pyramid level.
func HalfScale(img *image.Gray) *image.Gray {
	src := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, (src.Dx()+1)/2, (src.Dy()+1)/2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}
