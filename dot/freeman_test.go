package dot

import (
	"testing"
)

func TestFreemanCode(t *testing.T) {
	for code := 0; code < 8; code++ {
		du, dv := FreemanStep(code)
		if FreemanCode(du, dv) != code {
			t.Errorf("Code %d: step (%d, %d) maps back to %d", code, du, dv, FreemanCode(du, dv))
		}
	}
	if FreemanCode(0, 0) != -1 {
		t.Errorf("Zero displacement must have no code")
	}
	p := FreemanMove(ImagePoint{U: 5, V: 5}, FreemanNorth)
	if p.U != 5 || p.V != 4 {
		t.Errorf("North must decrease v, got %+v", p)
	}
	du, dv := FreemanStep(-1)
	if du != 1 || dv != 1 {
		t.Errorf("Code -1 must wrap to south east, got (%d, %d)", du, dv)
	}
}
