package pull

// Tracker turns vertical pointer movement into the pull offset.
//
// Downward movement is damped (elastic feel); upward movement is applied as-is
// and floors at zero. There is no ceiling: MaxPull is advisory and applied by
// the renderer, not here.
type Tracker struct {
	damping float64
	offset  float64
}

// NewTracker returns a tracker at rest. damping is the fraction of downward
// travel that reaches the offset.
func NewTracker(damping float64) *Tracker {
	return &Tracker{damping: damping}
}

// Move applies one movement sample and returns the new offset.
// Positive deltas are downward.
func (t *Tracker) Move(delta float64) float64 {
	switch {
	case delta > 0:
		t.offset += t.damping * delta
	case delta < 0:
		t.offset = max(0, t.offset+delta)
	}
	return t.offset
}

// Offset returns the current pull distance.
func (t *Tracker) Offset() float64 {
	return t.offset
}

// Set places the offset directly, used by animations. Negative values floor at 0.
func (t *Tracker) Set(offset float64) {
	t.offset = max(0, offset)
}

// Reset returns the tracker to rest.
func (t *Tracker) Reset() {
	t.offset = 0
}
