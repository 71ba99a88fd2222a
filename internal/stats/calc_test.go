package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeNoKeystrokes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, Snapshot{}, Compute(now, now, 0, 0))
	assert.Equal(t, Snapshot{}, Compute(now, now.Add(time.Minute), 0, 0))
}

func TestComputeArithmetic(t *testing.T) {
	start := time.Unix(1700000000, 0)
	snap := Compute(start, start.Add(10*time.Second), 50, 10)
	assert.InDelta(t, 5.0, snap.CPS, 1e-9)
	assert.InDelta(t, 60.0, snap.WPM, 1e-9)
	assert.InDelta(t, 0.8333, snap.HitRatio, 1e-3)
	assert.InDelta(t, 10.0, snap.ElapsedSeconds(), 1e-9)
	assert.Equal(t, 50, snap.Hits)
	assert.Equal(t, 10, snap.Misses)
}

func TestComputeDoesNotClamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	snap := Compute(now, now, 3, 0)
	assert.True(t, math.IsInf(snap.CPS, 1))
	assert.True(t, math.IsInf(snap.WPM, 1))
	assert.Equal(t, 1.0, snap.HitRatio)
}

func TestStatusLine(t *testing.T) {
	start := time.Unix(1700000000, 0)
	snap := Compute(start, start.Add(10*time.Second), 50, 10)
	line := snap.StatusLine(100)
	assert.Equal(t, "CPS 5.00 WPM 60.00 Hits: 83.33% Misses: 10(16.67%) Typed 50 of 100(50.00) Elapsed: 10sec", line)
	assert.Contains(t, Snapshot{}.StatusLine(0), "Typed 0 of 0(0.00)")
}
