package ranking

import "math"

// Adjust penalizes a raw rating by the evidence behind it:
// raw - 1/sqrt(max(count, 1)). The penalty shrinks toward 0 as count grows.
func Adjust(raw float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	return raw - 1/math.Sqrt(float64(count))
}
