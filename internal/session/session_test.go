package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllocatesDistinctIDs(t *testing.T) {
	a := New()
	b := New()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStageAccumulatesIntoSummary(t *testing.T) {
	s := New()
	s.Stage("load", time.Now().Add(-5*time.Millisecond))
	s.Stage("resolve", time.Now().Add(-1*time.Millisecond))
	summary := s.Summary()
	assert.Contains(t, summary, "load ")
	assert.Contains(t, summary, "resolve ")
	assert.Contains(t, summary, "started")
}

func TestSummaryWithNoStagesStillReportsStart(t *testing.T) {
	s := New()
	assert.Contains(t, s.Summary(), "started")
}

func TestTimingReflectsElapsed(t *testing.T) {
	s := New()
	time.Sleep(time.Millisecond)
	timing := s.Timing()
	require.Greater(t, timing.ElapsedNanos, int64(0))
	assert.NotEmpty(t, timing.ElapsedHuman)
}
