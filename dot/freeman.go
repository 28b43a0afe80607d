package dot

// Freeman chain codes. V grows downward so codes run counterclockwise on screen
const (
	FreemanEast      = 0
	FreemanNorthEast = 1
	FreemanNorth     = 2
	FreemanNorthWest = 3
	FreemanWest      = 4
	FreemanSouthWest = 5
	FreemanSouth     = 6
	FreemanSouthEast = 7
)

var (
	freemanDU = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	freemanDV = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// FreemanStep returns pixel displacement for the code
func FreemanStep(code int) (du, dv int) {
	code = freemanNorm(code)
	return freemanDU[code], freemanDV[code]
}

// FreemanCode returns the code for a unit displacement, -1 when there is none
func FreemanCode(du, dv int) int {
	for code := 0; code < 8; code++ {
		if freemanDU[code] == du && freemanDV[code] == dv {
			return code
		}
	}
	return -1
}

// FreemanMove applies code to pixel
func FreemanMove(p ImagePoint, code int) ImagePoint {
	du, dv := FreemanStep(code)
	return ImagePoint{U: p.U + du, V: p.V + dv}
}

func freemanNorm(code int) int {
	code %= 8
	if code < 0 {
		code += 8
	}
	return code
}
