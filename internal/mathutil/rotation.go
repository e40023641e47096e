package mathutil

import "math"

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// NormalizeAngle wraps an angle in radians into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDist returns the shortest angular distance between two angles in radians (0..π).
func AngleDist(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > math.Pi {
		return 2*math.Pi - d
	}
	return d
}
