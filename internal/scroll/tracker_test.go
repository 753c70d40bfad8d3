package scroll

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

type countingStore struct {
	*store.Store
	dispatched []store.Transition
}

func (c *countingStore) Dispatch(t store.Transition) error {
	c.dispatched = append(c.dispatched, t)
	return c.Store.Dispatch(t)
}

// page lays the regions out as consecutive 800-unit blocks.
func page(offset float64) Rects {
	rects := Rects{}
	for i, d := range region.Table {
		top := float64(i*800) - offset
		rects[d.ID] = Bounds{Top: top, Bottom: top + 800}
	}
	return rects
}

func TestRepeatedSamplesDispatchOnce(t *testing.T) {
	t.Parallel()

	cs := &countingStore{Store: store.New(nil)}
	tr := NewTracker(cs)

	for _, offset := range []float64{900, 950, 1000, 1100, 1200} {
		res, err := tr.Observe(offset, page(offset))
		require.NoError(t, err)
		require.Equal(t, region.Experience, res.Region)
	}

	require.Len(t, cs.dispatched, 1)
	require.Equal(t, store.SetActiveRegion{Region: region.Experience}, cs.dispatched[0])
	require.Equal(t, region.Experience, cs.State().ActiveRegion)
}

func TestFirstStraddlingRegionWins(t *testing.T) {
	t.Parallel()

	cs := &countingStore{Store: store.New(nil)}
	tr := NewTracker(cs)

	// Both home and experience touch the line; display order decides.
	layout := Rects{
		region.Home:       {Top: -700, Bottom: 100},
		region.Experience: {Top: 100, Bottom: 900},
	}
	res, err := tr.Observe(700, layout)
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, region.Home, res.Region)
	require.Empty(t, cs.dispatched)
}

func TestNoCandidateKeepsActiveRegion(t *testing.T) {
	t.Parallel()

	cs := &countingStore{Store: store.New(nil)}
	tr := NewTracker(cs)

	_, err := tr.Observe(1700, page(1700))
	require.NoError(t, err)
	require.Equal(t, region.Projects, cs.State().ActiveRegion)

	// Past the last region nothing straddles the line.
	beyond := Rects{region.Contact: {Top: -900, Bottom: -100}}
	res, err := tr.Observe(9000, beyond)
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Equal(t, region.Projects, res.Region)
	require.Len(t, cs.dispatched, 1)

	res, err = tr.Observe(9000, nil)
	require.NoError(t, err)
	require.Equal(t, region.Projects, res.Region)
}

func TestScrolledThreshold(t *testing.T) {
	t.Parallel()

	tr := NewTracker(store.New(nil))

	res, err := tr.Observe(50, page(50))
	require.NoError(t, err)
	require.False(t, res.Scrolled)

	res, err = tr.Observe(51, page(51))
	require.NoError(t, err)
	require.True(t, res.Scrolled)
}

func TestCustomActivationLine(t *testing.T) {
	t.Parallel()

	cs := &countingStore{Store: store.New(nil)}
	tr := NewTracker(cs, WithActivationLine(400), WithThreshold(0))

	res, err := tr.Observe(500, page(500))
	require.NoError(t, err)
	require.True(t, res.Scrolled)
	require.Equal(t, region.Experience, res.Region)
	require.True(t, res.Changed)
}
