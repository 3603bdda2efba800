// Package floatutils provides utilities for working with floats
package floatutils

import "gonum.org/v1/gonum/spatial/r1"

// Clip returns value limited to [min, max]
func Clip(value, min, max float64) float64 {
	switch {
	case value > max:
		return max
	case value < min:
		return min
	default:
		return value
	}
}

// ClipInterval returns value limited to interval
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}
