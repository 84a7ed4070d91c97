package profiler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeClock advances by step on every reading
func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestPhaseRecordsDuration(t *testing.T) {
	p := NewProfiler()
	p.now = fakeClock(10 * time.Millisecond)

	require.NoError(t, p.Phase("train spam", func() error { return nil }))
	err := p.Phase("train ham", func() error { return errors.New("boom") })
	assert.EqualError(t, err, "boom")

	stats := p.GetStats("train spam")
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 10*time.Millisecond, stats.Total)

	assert.Equal(t, 1, p.GetStats("train ham").Count, "failed phases are timed too")
}

func TestGetStats(t *testing.T) {
	p := NewProfiler()
	p.Record("test", 30*time.Millisecond)
	p.Record("test", 10*time.Millisecond)
	p.Record("test", 20*time.Millisecond)

	stats := p.GetStats("test")
	assert.Equal(t, &Stats{
		Name:    "test",
		Count:   3,
		Total:   60 * time.Millisecond,
		Average: 20 * time.Millisecond,
		Min:     10 * time.Millisecond,
		Max:     30 * time.Millisecond,
	}, stats)

	assert.Equal(t, &Stats{Name: "missing"}, p.GetStats("missing"))
}

func TestGetAllStatsKeepsRunOrder(t *testing.T) {
	p := NewProfiler()
	for _, name := range []string{"train spam", "train ham", "finalize", "train spam"} {
		p.Record(name, time.Millisecond)
	}

	var names []string
	for _, s := range p.GetAllStats() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"train spam", "train ham", "finalize"}, names)

	p.Reset()
	assert.Empty(t, p.GetAllStats())
}

func TestLogReport(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewProfiler()
	p.Record("test ham", 5*time.Millisecond)

	p.LogReport(zap.New(core))

	entries := logs.FilterMessage("Phase timing").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "test ham", entries[0].ContextMap()["phase"])
	assert.Equal(t, 5*time.Millisecond, entries[0].ContextMap()["total"])
}
