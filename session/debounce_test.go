package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerRunsOnlyLast(t *testing.T) {
	d := &Debouncer{Delay: 40 * time.Millisecond}

	var first, second atomic.Int32
	d.Trigger(func() { first.Add(1) })
	time.Sleep(10 * time.Millisecond)
	d.Trigger(func() { second.Add(1) })
	assert.True(t, d.Pending())

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerStop(t *testing.T) {
	d := &Debouncer{Delay: 20 * time.Millisecond}

	var ran atomic.Bool
	d.Trigger(func() { ran.Store(true) })
	assert.True(t, d.Stop())
	assert.False(t, d.Stop())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestDebouncerReusable(t *testing.T) {
	d := &Debouncer{Delay: 5 * time.Millisecond}

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		d.Trigger(func() { count.Add(1) })
		require.Eventually(t, func() bool { return count.Load() == int32(i+1) }, time.Second, time.Millisecond)
	}
}
