package profiler

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// Profiler tracks how long each phase of a run takes. It is not safe for
// concurrent use.
type Profiler struct {
	order  []string
	phases map[string][]time.Duration
	now    func() time.Time
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		phases: make(map[string][]time.Duration),
		now:    time.Now,
	}
}

// Timer represents a running phase
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing a phase
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		profiler: p,
		name:     name,
		start:    p.now(),
	}
}

// Stop completes the timing and records the duration
func (t *Timer) Stop() time.Duration {
	d := t.profiler.now().Sub(t.start)
	t.profiler.Record(t.name, d)
	return d
}

// Record manually records a timing
func (p *Profiler) Record(name string, d time.Duration) {
	if _, ok := p.phases[name]; !ok {
		p.order = append(p.order, name)
	}
	p.phases[name] = append(p.phases[name], d)
}

// Phase times fn under name and returns its error
func (p *Profiler) Phase(name string, fn func() error) error {
	timer := p.Start(name)
	defer timer.Stop()
	return fn()
}

// Stats contains timing statistics for one phase
type Stats struct {
	Name    string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
}

// GetStats returns timing statistics for a phase
func (p *Profiler) GetStats(name string) *Stats {
	times := append([]time.Duration(nil), p.phases[name]...)

	if len(times) == 0 {
		return &Stats{Name: name}
	}

	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	var total time.Duration
	for _, d := range times {
		total += d
	}

	return &Stats{
		Name:    name,
		Count:   len(times),
		Total:   total,
		Average: total / time.Duration(len(times)),
		Min:     times[0],
		Max:     times[len(times)-1],
	}
}

// GetAllStats returns statistics for all phases in the order they first ran
func (p *Profiler) GetAllStats() []*Stats {
	stats := make([]*Stats, 0, len(p.order))
	for _, name := range p.order {
		stats = append(stats, p.GetStats(name))
	}
	return stats
}

// Reset clears all timing data
func (p *Profiler) Reset() {
	p.order = nil
	p.phases = make(map[string][]time.Duration)
}

// LogReport writes one debug entry per phase
func (p *Profiler) LogReport(logger *zap.Logger) {
	for _, stat := range p.GetAllStats() {
		logger.Debug("Phase timing",
			zap.String("phase", stat.Name),
			zap.Int("count", stat.Count),
			zap.Duration("total", stat.Total),
			zap.Duration("avg", stat.Average),
			zap.Duration("max", stat.Max))
	}
}
