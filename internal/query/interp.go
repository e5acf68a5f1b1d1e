package query

import "sort"

// Interp linearly interpolates the points (xp, fp) at each x. xp must be
// non-decreasing; values outside its range clamp to the end points, and for
// repeated xp the last duplicate wins.
func Interp(x, xp, fp []float64) []float64 {
	out := make([]float64, len(x))
	if len(xp) == 0 {
		return out
	}
	last := len(xp) - 1
	for i, v := range x {
		switch {
		case v <= xp[0]:
			out[i] = fp[0]
		case v >= xp[last]:
			out[i] = fp[last]
		default:
			// first index with xp[j] > v
			j := sort.Search(len(xp), func(k int) bool { return xp[k] > v })
			lo := j - 1
			if xp[lo] == v {
				out[i] = fp[lo]
				continue
			}
			t := (v - xp[lo]) / (xp[j] - xp[lo])
			out[i] = fp[lo] + t*(fp[j]-fp[lo])
		}
	}
	return out
}
