package loading

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

var sample = content.Content{
	Projects: []content.Project{{ID: "proj-1", Title: "Visualizer"}},
}

func TestControllerCompletesAfterDelay(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(zaptest.NewLogger(t))
	c := NewController(sched, st, content.Static{Content: sample}, Config{Delay: DefaultDelay}, zaptest.NewLogger(t))
	require.Equal(t, NotStarted, c.Phase())

	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, Loading, c.Phase())
	require.True(t, st.State().Loading)

	sched.Advance(DefaultDelay - time.Millisecond)
	require.True(t, st.State().Loading)
	require.True(t, st.State().Content.Empty())

	sched.Advance(time.Millisecond)
	require.Equal(t, Loaded, c.Phase())
	require.False(t, st.State().Loading)
	require.Equal(t, sample, st.State().Content)

	require.NoError(t, c.Start(context.Background()))
	require.Equal(t, Loaded, c.Phase())
	require.False(t, st.State().Loading)
}

func TestControllerStopCancelsLoad(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	c := NewController(sched, st, content.Static{Content: sample}, Config{Delay: time.Second}, nil)

	require.NoError(t, c.Start(context.Background()))
	c.Stop()
	sched.Advance(time.Minute)

	require.Equal(t, Loading, c.Phase())
	require.True(t, st.State().Loading)
}

func TestControllerRetriesThenDegrades(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	calls := 0
	failing := content.SourceFunc(func(context.Context) (content.Content, error) {
		calls++
		return content.Content{}, errors.New("upstream unavailable")
	})
	c := NewController(sched, st, failing, Config{Delay: 100 * time.Millisecond, Retries: 2}, zaptest.NewLogger(t))

	require.NoError(t, c.Start(context.Background()))
	sched.Advance(200 * time.Millisecond)
	require.Equal(t, 2, calls)
	require.Equal(t, Loading, c.Phase())

	sched.Advance(100 * time.Millisecond)
	require.Equal(t, 3, calls)
	require.Equal(t, Loaded, c.Phase())
	require.False(t, st.State().Loading)
	require.True(t, st.State().Content.Empty())
}

func TestControllerRecoversOnRetry(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	calls := 0
	flaky := content.SourceFunc(func(context.Context) (content.Content, error) {
		calls++
		if calls == 1 {
			return content.Content{}, errors.New("timeout")
		}
		return sample, nil
	})
	c := NewController(sched, st, flaky, Config{Delay: 10 * time.Millisecond, Retries: 3}, nil)

	require.NoError(t, c.Start(context.Background()))
	sched.Advance(time.Second)
	require.Equal(t, 2, calls)
	require.Equal(t, sample, st.State().Content)
}

func TestProgressCapsUntilLoaded(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	var screens []Screen
	p := NewProgress(sched, st, content.LoadingMessages, rand.New(rand.NewSource(1)), func(s Screen) {
		screens = append(screens, s)
	})

	p.Start()
	require.True(t, p.Screen().Visible)
	require.Equal(t, content.LoadingMessages[0], p.Screen().Message)

	sched.Advance(30 * time.Second)
	require.Equal(t, pendingCap, p.Screen().Percent)
	for i := 1; i < len(screens); i++ {
		require.GreaterOrEqual(t, screens[i].Percent, screens[i-1].Percent)
		require.LessOrEqual(t, screens[i].Percent, pendingCap)
	}

	require.NoError(t, st.Dispatch(store.CompleteLoad{Content: sample}))
	require.Equal(t, completeValue, p.Screen().Percent)
	require.True(t, p.Screen().Visible)
	require.Zero(t, st.Subscribers())

	sched.Advance(HideDelay)
	require.False(t, p.Screen().Visible)
	require.Zero(t, sched.Pending())
}

func TestProgressRotatesMessages(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	p := NewProgress(sched, st, []string{"a", "b", "c"}, rand.New(rand.NewSource(1)), nil)

	p.Start()
	sched.Advance(MessageInterval)
	require.Equal(t, "b", p.Screen().Message)
	sched.Advance(2 * MessageInterval)
	require.Equal(t, "a", p.Screen().Message)

	p.Stop()
	require.Zero(t, st.Subscribers())
	sched.Advance(time.Minute)
	require.Equal(t, "a", p.Screen().Message)
	require.Zero(t, sched.Pending())
}

func TestProgressOnLoadedStore(t *testing.T) {
	t.Parallel()

	sched := loop.NewManual()
	st := store.New(nil)
	require.NoError(t, st.Dispatch(store.CompleteLoad{}))

	p := NewProgress(sched, st, nil, nil, nil)
	p.Start()
	require.Equal(t, completeValue, p.Screen().Percent)

	sched.Advance(HideDelay)
	require.False(t, p.Screen().Visible)
}
