package dot

import (
	"fmt"
)

// Format renders public state of the dot as a single line
func Format(dot *Dot) string {
	return fmt.Sprintf(
		"%s: cog (%.2f, %.2f) size %.0fx%.0f surface %.0f gray [%d, %d] mean %.1f border %d points",
		dot.id,
		dot.cog.X, dot.cog.Y,
		dot.width, dot.height,
		dot.surface,
		dot.grayLevel.GetMin(), dot.grayLevel.GetMax(),
		dot.meanGrayLevel,
		len(dot.edges),
	)
}

// String implements fmt.Stringer
func (dot *Dot) String() string {
	return Format(dot)
}
