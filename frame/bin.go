package frame

import "math"

// Bin maps a continuous m/z value to its integer bucket index at the given
// decimal resolution: round(mz * 10^resolution).
//
// Ties round half away from zero (math.Round semantics), so the same value
// and resolution always yield the same bucket on every platform.
func Bin(mz float64, resolution int) int64 {
	return int64(math.Round(mz * math.Pow10(resolution)))
}

// Unbin maps a bucket index back to its representative m/z value:
// index / 10^resolution. The round trip Unbin(Bin(v, r), r) is within
// 0.5*10^-r of v.
func Unbin(index int64, resolution int) float64 {
	return float64(index) / math.Pow10(resolution)
}
