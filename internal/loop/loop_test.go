package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualRunsInDeadlineThenScheduleOrder(t *testing.T) {
	m := NewManual()
	var got []string

	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })
	m.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	m.AfterFunc(20*time.Millisecond, func() { got = append(got, "c") })

	m.Advance(15 * time.Millisecond)
	require.Equal(t, []string{"a"}, got)

	m.Advance(5 * time.Millisecond)
	require.Equal(t, []string{"a", "b", "c"}, got)
	require.Zero(t, m.Pending())
}

func TestManualStopPreventsCallback(t *testing.T) {
	m := NewManual()
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	m.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestManualRunsCallbacksScheduledDuringAdvance(t *testing.T) {
	m := NewManual()
	var at []time.Duration
	start := m.Now()

	m.AfterFunc(10*time.Millisecond, func() {
		at = append(at, m.Now().Sub(start))
		m.AfterFunc(10*time.Millisecond, func() {
			at = append(at, m.Now().Sub(start))
		})
	})

	m.Advance(50 * time.Millisecond)
	require.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, at)
	require.Equal(t, 50*time.Millisecond, m.Now().Sub(start))
}

func TestEveryRepeatsUntilStopped(t *testing.T) {
	m := NewManual()
	count := 0
	var ticker Timer
	ticker = Every(m, 100*time.Millisecond, func() {
		count++
		if count == 3 {
			ticker.Stop()
		}
	})

	m.Advance(time.Second)
	require.Equal(t, 3, count)
	require.False(t, ticker.Stop())
}

func TestLoopRunsPostedTasksInOrder(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	results := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		l.Post(func() { results <- i })
	}

	require.Equal(t, 1, <-results)
	require.Equal(t, 2, <-results)
	require.Equal(t, 3, <-results)

	l.Close()
	require.NoError(t, <-errCh)
}

func TestLoopAfterFuncAndStop(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	defer cancel()

	var fired atomic.Int32
	l.AfterFunc(5*time.Millisecond, func() { fired.Add(1) })
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, time.Millisecond)

	var cancelled atomic.Int32
	stopped := make(chan struct{})
	l.Post(func() {
		timer := l.AfterFunc(20*time.Millisecond, func() { cancelled.Add(1) })
		timer.Stop()
		close(stopped)
	})
	<-stopped
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, cancelled.Load())
}

func TestLoopPostAfterCloseIsDropped(t *testing.T) {
	l := New(1)
	l.Close()

	ran := false
	l.Post(func() { ran = true })
	require.NoError(t, l.Run(context.Background()))
	require.False(t, ran)
}
