package pull

// Visuals is the indicator appearance derived from a single offset.
type Visuals struct {
	// Rotation in degrees. Reaches 360 at the threshold and keeps growing past it.
	Rotation float64
	// Opacity in [0, 1].
	Opacity float64
	// Spinning is set while a refresh is in flight. It overlays the
	// rotation/opacity mapping rather than replacing it.
	Spinning bool
}

// Rotation maps offset linearly from [0, threshold] to [0, 360] degrees,
// extrapolating past the threshold.
func Rotation(offset, threshold float64) float64 {
	if threshold <= 0 || offset <= 0 {
		return 0
	}
	return offset / threshold * 360
}

// Opacity interpolates through (0, 0), (threshold/2, 0.5) and (threshold, 1),
// clamping outside that range.
func Opacity(offset, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	return interpolate(offset,
		[]float64{0, threshold / 2, threshold},
		[]float64{0, 0.5, 1},
	)
}

// Map derives the full indicator state. It is pure: the same inputs always
// produce the same Visuals.
func Map(offset, threshold float64, loading bool) Visuals {
	return Visuals{
		Rotation: Rotation(offset, threshold),
		Opacity:  Opacity(offset, threshold),
		Spinning: loading,
	}
}

// interpolate evaluates the piecewise-linear function through (xs[i], ys[i]).
// xs must be ascending. Inputs outside the range clamp to the end values.
func interpolate(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xs[i] {
			span := xs[i] - xs[i-1]
			if span == 0 {
				return ys[i]
			}
			t := (x - xs[i-1]) / span
			return ys[i-1] + t*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}
