package common

// FrameMillis is the duration of one simulation frame in milliseconds. All
// frame data is authored against a fixed 60 Hz reference rate.
const FrameMillis = 1000.0 / 60.0

// FramesToMillis converts a frame count to simulated milliseconds.
func FramesToMillis(frames int) float64 {
	return float64(frames) * FrameMillis
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
