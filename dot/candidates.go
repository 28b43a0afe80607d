package dot

import "sort"

// distanceDot is an accepted search candidate with its validation margin and its distance to
// the search area center
type distanceDot struct {
	underlying *Dot
	margin     float64
	distance   float64
}

func (c *distanceDot) closerThan(other *distanceDot) bool {
	return c.distance < other.distance
}

// sortByDistance returns candidates closest first. Equal distances keep discovery order
func sortByDistance(candidates []*distanceDot) []*Dot {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].closerThan(candidates[j])
	})
	dots := make([]*Dot, len(candidates))
	for i, c := range candidates {
		dots[i] = c.underlying
	}
	return dots
}
