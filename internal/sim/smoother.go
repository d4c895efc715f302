package sim

// DefaultSmootherWindow is the number of frame deltas averaged by the live
// host.
const DefaultSmootherWindow = 200

// DeltaSmoother averages the most recent frame deltas so that a single slow
// frame does not kick the integrator. Inputs are clamped to [min, max].
type DeltaSmoother struct {
	window []float64
	next   int
	filled int
	sum    float64
	min    float64
	max    float64
}

func NewDeltaSmoother(size int, min, max float64) *DeltaSmoother {
	if size <= 0 {
		size = DefaultSmootherWindow
	}
	if max < min {
		min, max = max, min
	}
	return &DeltaSmoother{window: make([]float64, size), min: min, max: max}
}

// Push records dt and returns the new average.
func (d *DeltaSmoother) Push(dt float64) float64 {
	if dt < d.min {
		dt = d.min
	}
	if dt > d.max {
		dt = d.max
	}
	if d.filled == len(d.window) {
		d.sum -= d.window[d.next]
	} else {
		d.filled++
	}
	d.window[d.next] = dt
	d.sum += dt
	d.next = (d.next + 1) % len(d.window)
	return d.Average()
}

// Average is the mean of the recorded deltas, or min when none were pushed.
func (d *DeltaSmoother) Average() float64 {
	if d.filled == 0 {
		return d.min
	}
	return d.sum / float64(d.filled)
}

func (d *DeltaSmoother) Len() int { return d.filled }

func (d *DeltaSmoother) Reset() {
	for i := range d.window {
		d.window[i] = 0
	}
	d.next, d.filled, d.sum = 0, 0, 0
}
