package metrics

import "github.com/san-kum/gravbox/internal/sim"

// Recorder samples a set of metrics every Every ticks. It implements
// sim.Observer.
type Recorder struct {
	Every   int
	metrics []Metric
	ticks   []int
	series  map[string][]float64
}

func NewRecorder(every int, ms ...Metric) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{
		Every:   every,
		metrics: ms,
		series:  make(map[string][]float64, len(ms)),
	}
}

func (r *Recorder) OnTick(w *sim.World) {
	for _, m := range r.metrics {
		m.Observe(w)
	}
	if w.Tick()%r.Every != 0 {
		return
	}
	r.ticks = append(r.ticks, w.Tick())
	for _, m := range r.metrics {
		r.series[m.Name()] = append(r.series[m.Name()], m.Value())
	}
}

func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

func (r *Recorder) Ticks() []int { return r.ticks }

// Series returns the samples recorded for the named metric.
func (r *Recorder) Series(name string) []float64 { return r.series[name] }

// Final reports every metric's current value by name.
func (r *Recorder) Final() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	for _, m := range r.metrics {
		m.Reset()
	}
	r.ticks = nil
	r.series = make(map[string][]float64, len(r.metrics))
}
