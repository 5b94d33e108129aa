package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/AstaRoggers/yt-summarizer/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestAdmitCapsAtLimit(t *testing.T) {
	m := ratelimit.NewMemory(30, 24*time.Hour)

	for i := 0; i < 30; i++ {
		assert.True(t, m.Admit("1.2.3.4"), "call %d should be admitted", i+1)
	}

	assert.False(t, m.Admit("1.2.3.4"), "31st call should be rejected")
	assert.False(t, m.Admit("1.2.3.4"), "rejections should not free up quota")
}

func TestAdmitResetsAfterWindow(t *testing.T) {
	now := time.Now()
	m := ratelimit.NewMemory(2, time.Hour)
	m.Now = func() time.Time { return now }

	assert.True(t, m.Admit("k"))
	assert.True(t, m.Admit("k"))
	assert.False(t, m.Admit("k"))

	// Past the reset the count starts fresh at 1. A burst right before
	// expiry followed by one right after is allowed, that's the documented
	// sliding-reset behavior.
	now = now.Add(time.Hour + time.Second)
	assert.True(t, m.Admit("k"))
	assert.True(t, m.Admit("k"))
	assert.False(t, m.Admit("k"))
}

func TestAdmitKeysAreIndependent(t *testing.T) {
	m := ratelimit.NewMemory(1, time.Hour)

	assert.True(t, m.Admit("a"))
	assert.False(t, m.Admit("a"))
	assert.True(t, m.Admit("b"), "key b must not be affected by key a's count")
}

// State is process-local on purpose: restarts and horizontally scaled
// deployments each count from zero. This pins the concurrent-update safety
// of the shared map, not any cross-instance behavior.
func TestAdmitConcurrent(t *testing.T) {
	m := ratelimit.NewMemory(100, time.Hour)

	var wg sync.WaitGroup
	admitted := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- m.Admit("k")
		}()
	}
	wg.Wait()
	close(admitted)

	var count int
	for ok := range admitted {
		if ok {
			count++
		}
	}
	assert.Equal(t, 100, count)
}
