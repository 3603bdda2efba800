package environment

// TimeLimit tracks the simulated time elapsed in an episode and
// reports when it has strictly exceeded some limit.
type TimeLimit struct {
	limit   float64
	elapsed float64
}

// NewTimeLimit creates and returns a new time limit of limit simulated
// seconds
func NewTimeLimit(limit float64) *TimeLimit {
	return &TimeLimit{limit: limit}
}

// Advance adds dt seconds to the elapsed time. Elapsed time never
// decreases between calls to Reset, so negative dt panics.
func (t *TimeLimit) Advance(dt float64) {
	if dt < 0 {
		panic("advance: dt must be non-negative")
	}
	t.elapsed += dt
}

// Reset sets the elapsed time back to 0
func (t *TimeLimit) Reset() {
	t.elapsed = 0
}

// Elapsed returns the elapsed time since the last Reset
func (t *TimeLimit) Elapsed() float64 {
	return t.elapsed
}

// Limit returns the maximum episode length in simulated seconds
func (t *TimeLimit) Limit() float64 {
	return t.limit
}

// Exceeded reports whether the elapsed time is strictly past the limit
func (t *TimeLimit) Exceeded() bool {
	return t.elapsed > t.limit
}
