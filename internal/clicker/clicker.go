// Package clicker supplies seed points to the tracker from a text stream or from an area search.
package clicker

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LdDl/dot-go/dot"
	"github.com/pkg/errors"
)

// Reader reads one "u v" pair per click, e.g. typed on stdin.
type Reader struct {
	scanner *bufio.Scanner
	prompt  io.Writer
}

// NewReader returns clicker over r. Prompt may be nil.
func NewReader(r io.Reader, prompt io.Writer) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		prompt:  prompt,
	}
}

// Click implements dot.Clicker.
func (c *Reader) Click() (dot.Point, error) {
	for {
		if c.prompt != nil {
			fmt.Fprint(c.prompt, "click on the dot (u v): ")
		}
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return dot.Point{}, errors.Wrap(err, "Can't read click")
			}
			return dot.Point{}, io.EOF
		}
		fields := strings.Fields(c.scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return dot.Point{}, errors.Errorf("expected \"u v\", got %q", c.scanner.Text())
		}
		u, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return dot.Point{}, errors.Wrap(err, "bad u")
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return dot.Point{}, errors.Wrap(err, "bad v")
		}
		return dot.Point{X: u, Y: v}, nil
	}
}

// Search clicks on centers of dots found in an image, closest to the image center first.
type Search struct {
	dots []*dot.Dot
	next int
}

// NewSearch finds dots resembling reference in img.
func NewSearch(img dot.Image, reference *dot.Dot) (*Search, error) {
	dots, err := dot.NewAreaSearcher(reference, dot.DefaultStrategy()).SearchDotsInImage(img)
	if err != nil {
		return nil, err
	}
	return &Search{dots: dots}, nil
}

// Len returns number of dots found.
func (c *Search) Len() int {
	return len(c.dots)
}

// Click implements dot.Clicker.
func (c *Search) Click() (dot.Point, error) {
	if c.next >= len(c.dots) {
		return dot.Point{}, errors.Wrapf(dot.ErrNotFound, "only %d dots found", len(c.dots))
	}
	p := c.dots[c.next].GetCog()
	c.next++
	return p, nil
}
