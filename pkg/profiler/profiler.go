package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Pipeline stage names
const (
	StageRead       = "read"
	StageTokenize   = "tokenize"
	StageVocabulary = "vocabulary"
	StageVectorize  = "vectorize"
	StageTrain      = "train"
	StageClassify   = "classify"
	StagePersist    = "persist"
)

// Profiler tracks execution times of pipeline stages
type Profiler struct {
	mu    sync.Mutex
	times map[string][]time.Duration
}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer represents a timing operation
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing a stage. Timers of a nil profiler record nothing.
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		profiler: p,
		name:     name,
		start:    time.Now(),
	}
}

// Stop completes the timing and records the duration
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.profiler.Record(t.name, duration)
	return duration
}

// Record manually records a timing
func (p *Profiler) Record(name string, duration time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.times[name] = append(p.times[name], duration)
	p.mu.Unlock()
}

// Stats contains timing statistics
type Stats struct {
	Name    string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
	Median  time.Duration
	P95     time.Duration
}

// GetStats returns timing statistics for a stage
func (p *Profiler) GetStats(name string) *Stats {
	p.mu.Lock()
	times := append([]time.Duration(nil), p.times[name]...)
	p.mu.Unlock()

	if len(times) == 0 {
		return &Stats{Name: name}
	}

	data := make(stats.Float64Data, len(times))
	var total time.Duration
	for i, d := range times {
		data[i] = float64(d)
		total += d
	}

	lo, _ := data.Min()
	hi, _ := data.Max()
	median, _ := data.Median()
	p95, err := data.Percentile(95)
	if err != nil {
		// too few samples for a percentile
		p95 = hi
	}

	return &Stats{
		Name:    name,
		Count:   len(times),
		Total:   total,
		Average: total / time.Duration(len(times)),
		Min:     time.Duration(lo),
		Max:     time.Duration(hi),
		Median:  time.Duration(median),
		P95:     time.Duration(p95),
	}
}

// GetAllStats returns statistics for all tracked stages
func (p *Profiler) GetAllStats() []*Stats {
	p.mu.Lock()
	names := make([]string, 0, len(p.times))
	for name := range p.times {
		names = append(names, name)
	}
	p.mu.Unlock()

	sort.Strings(names)

	out := make([]*Stats, 0, len(names))
	for _, name := range names {
		out = append(out, p.GetStats(name))
	}
	return out
}

// Reset clears all timing data
func (p *Profiler) Reset() {
	p.mu.Lock()
	p.times = make(map[string][]time.Duration)
	p.mu.Unlock()
}

// Report writes a formatted timing table
func (p *Profiler) Report(w io.Writer) {
	all := p.GetAllStats()

	if len(all) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Stage Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-12s %8s %10s %9s %9s %9s %9s\n",
		"Stage", "Count", "Total", "Avg", "Median", "P95", "Max")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")

	for _, s := range all {
		fmt.Fprintf(w, "%-12s %8d %10s %9s %9s %9s %9s\n",
			s.Name,
			s.Count,
			formatDuration(s.Total),
			formatDuration(s.Average),
			formatDuration(s.Median),
			formatDuration(s.P95),
			formatDuration(s.Max),
		)
	}

	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}
