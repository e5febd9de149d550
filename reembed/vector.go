package reembed

import "math"

// NormalizeVector scales v to unit length and returns the result as a
// new slice. A zero or empty vector comes back unchanged in value.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	result := make([]float32, len(v))
	if sumSquares == 0 {
		return result
	}

	norm := float32(1 / math.Sqrt(sumSquares))
	for i, val := range v {
		result[i] = val * norm
	}
	return result
}
