package scroll

// Tracker samples a Measurer and keeps only the latest progress value.
// Each Sample is O(1); callers may sample on every scroll tick.
type Tracker struct {
	measurer Measurer
	progress float64
	sampled  bool
}

// NewTracker creates a tracker bound to the given measurer.
func NewTracker(m Measurer) *Tracker {
	return &Tracker{measurer: m}
}

// Sample re-measures the geometry and returns the new progress.
func (t *Tracker) Sample() float64 {
	if t.measurer == nil {
		return t.progress
	}
	t.progress = Progress(t.measurer.Measure())
	t.sampled = true
	return t.progress
}

// Progress returns the value of the last Sample (0 before the first one).
func (t *Tracker) Progress() float64 {
	return t.progress
}

// Sampled reports whether Sample has run at least once.
func (t *Tracker) Sampled() bool {
	return t.sampled
}
