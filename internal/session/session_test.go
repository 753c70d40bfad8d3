package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zachkp/neon-portfolio/internal/content"
	"github.com/Zachkp/neon-portfolio/internal/loading"
	"github.com/Zachkp/neon-portfolio/internal/loop"
	"github.com/Zachkp/neon-portfolio/internal/region"
	"github.com/Zachkp/neon-portfolio/internal/reveal"
	"github.com/Zachkp/neon-portfolio/internal/store"
)

type recorder struct {
	msgs []Outbound
}

func (r *recorder) emit(m Outbound) { r.msgs = append(r.msgs, m) }

func (r *recorder) ofType(typ string) []Outbound {
	var out []Outbound
	for _, m := range r.msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) lastView(t *testing.T) View {
	t.Helper()
	states := r.ofType(TypeState)
	require.NotEmpty(t, states)
	return states[len(states)-1].Data.(View)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Loading = loading.Config{Delay: 1500 * time.Millisecond}
	cfg.Typing = reveal.CycleOptions{
		Options: reveal.Options{Interval: 100 * time.Millisecond, StartDelay: 500 * time.Millisecond},
		Pause:   2 * time.Second,
	}
	cfg.Commands = []string{"whoami"}
	cfg.Matrix = false
	cfg.Seed = 1
	return cfg
}

var fixture = content.Content{
	Projects: []content.Project{{ID: "p1", Title: "Neon"}},
}

func newSession(t *testing.T, source content.Source) (*Session, *loop.Manual, *recorder) {
	t.Helper()
	return newSessionWith(t, source, testConfig())
}

func newSessionWith(t *testing.T, source content.Source, cfg Config) (*Session, *loop.Manual, *recorder) {
	t.Helper()
	if source == nil {
		source = content.Static{Content: fixture}
	}
	clock := loop.NewManual()
	rec := &recorder{}
	s := New(context.Background(), clock, source, cfg, rec.emit, zaptest.NewLogger(t))
	require.NoError(t, s.Start())
	return s, clock, rec
}

func TestStartLoadsThenTypes(t *testing.T) {
	s, clock, rec := newSession(t, nil)

	hello := rec.ofType(TypeHello)
	require.Len(t, hello, 1)
	require.Equal(t, s.ID(), hello[0].Data.(HelloPayload).Session)
	require.True(t, rec.lastView(t).Loading)

	clock.Advance(1499 * time.Millisecond)
	require.True(t, s.Store().State().Loading)

	clock.Advance(time.Millisecond)
	state := s.Store().State()
	require.False(t, state.Loading)
	require.Equal(t, fixture, state.Content)
	require.False(t, rec.lastView(t).Loading)

	progress := rec.ofType(TypeProgress)
	require.Equal(t, 100.0, progress[len(progress)-1].Data.(loading.Screen).Percent)

	clock.Advance(5 * time.Second)
	frames := rec.ofType(TypeTerminal)
	last := frames[len(frames)-1].Data.(reveal.Frame)
	require.Equal(t, "whoami", last.Text)
	require.True(t, last.Complete)

	progress = rec.ofType(TypeProgress)
	require.False(t, progress[len(progress)-1].Data.(loading.Screen).Visible)
}

func TestNavigationAndMenu(t *testing.T) {
	s, clock, rec := newSession(t, nil)
	clock.Advance(2 * time.Second)

	require.NoError(t, s.Handle([]byte(`{"type":"menu_toggle"}`)))
	require.True(t, rec.lastView(t).MobileMenuOpen)

	require.NoError(t, s.Handle([]byte(`{"type":"navigate","payload":{"region":"projects"}}`)))
	view := rec.lastView(t)
	require.Equal(t, region.Projects, view.ActiveRegion)
	require.False(t, view.MobileMenuOpen)
	for _, item := range view.Nav {
		require.Equal(t, item.ID == region.Projects, item.Active)
	}

	require.NoError(t, s.Handle([]byte(`{"type":"menu","payload":{"open":true}}`)))
	require.True(t, s.Store().State().MobileMenuOpen)
}

func TestScrollSelectsRegion(t *testing.T) {
	s, _, rec := newSession(t, nil)

	msg := `{"type":"scroll","payload":{"offset":900,"rects":{
		"home":{"top":-900,"bottom":-100},
		"experience":{"top":-100,"bottom":700}
	}}}`
	require.NoError(t, s.Handle([]byte(msg)))
	require.Equal(t, region.Experience, s.Store().State().ActiveRegion)

	scrolled := rec.ofType(TypeScrolled)
	require.Len(t, scrolled, 1)
	require.True(t, scrolled[0].Data.(ScrolledPayload).Scrolled)

	// same sample again changes nothing
	version := s.Store().State().Version
	require.NoError(t, s.Handle([]byte(msg)))
	require.Equal(t, version, s.Store().State().Version)
	require.Len(t, rec.ofType(TypeScrolled), 1)
}

func TestIntersectFiresOnce(t *testing.T) {
	s, _, rec := newSession(t, nil)
	armed := s.root.Len()
	require.Equal(t, len(region.Table), armed)

	far := `{"type":"intersect","payload":{"region":"skills","top":2000,"bottom":2600,"viewport":800}}`
	near := `{"type":"intersect","payload":{"region":"skills","top":300,"bottom":900,"viewport":800}}`

	require.NoError(t, s.Handle([]byte(far)))
	require.Empty(t, rec.ofType(TypeVisible))

	require.NoError(t, s.Handle([]byte(near)))
	require.NoError(t, s.Handle([]byte(near)))
	visible := rec.ofType(TypeVisible)
	require.Len(t, visible, 1)
	require.Equal(t, region.Skills, visible[0].Data.(VisiblePayload).Region)
	require.Equal(t, armed-1, s.root.Len())
}

func TestRejectedMessages(t *testing.T) {
	s, _, rec := newSession(t, nil)
	before := s.Store().State()

	err := s.Handle([]byte(`{"type":"teleport"}`))
	require.ErrorIs(t, err, ErrUnknownMessage)

	err = s.Handle([]byte(`{"type":"dispatch","payload":{"transition":"complete_load"}}`))
	require.ErrorIs(t, err, store.ErrUnknownTransition)

	err = s.Handle([]byte(`{"type":"navigate","payload":{"region":"nowhere"}}`))
	require.ErrorIs(t, err, store.ErrUnknownRegion)

	err = s.Handle([]byte(`{"type":"navigate"}`))
	require.Error(t, err)

	err = s.Handle([]byte(`not json`))
	require.Error(t, err)

	require.Equal(t, before, s.Store().State())
	require.Len(t, rec.ofType(TypeError), 5)
}

func TestDispatchMessage(t *testing.T) {
	s, _, _ := newSession(t, nil)

	err := s.Handle([]byte(`{"type":"dispatch","payload":{"transition":"set_active_region","payload":{"region":"blog"}}}`))
	require.NoError(t, err)
	require.Equal(t, region.Blog, s.Store().State().ActiveRegion)
}

func TestFailingSourceDegrades(t *testing.T) {
	calls := 0
	source := content.SourceFunc(func(context.Context) (content.Content, error) {
		calls++
		return content.Content{}, errors.New("unreachable")
	})
	s, clock, _ := newSession(t, source)

	clock.Advance(10 * time.Second)
	state := s.Store().State()
	require.False(t, state.Loading)
	require.True(t, state.Content.Empty())
	require.Equal(t, 1, calls)
}

// indexOf returns the position of the first message accepted by match, or -1.
func (r *recorder) indexOf(match func(Outbound) bool) int {
	for i, m := range r.msgs {
		if match(m) {
			return i
		}
	}
	return -1
}

func loadedState(m Outbound) bool {
	v, ok := m.Data.(View)
	return m.Type == TypeState && ok && !v.Loading
}

func TestContentArrivesBeforeLoadedState(t *testing.T) {
	var rendered []content.Content
	cfg := testConfig()
	cfg.Render = func(c content.Content) (string, error) {
		rendered = append(rendered, c)
		return "<section>" + c.Projects[0].Title + "</section>", nil
	}
	_, clock, rec := newSessionWith(t, nil, cfg)

	clock.Advance(1499 * time.Millisecond)
	require.Empty(t, rec.ofType(TypeContent))

	clock.Advance(time.Millisecond)
	require.Equal(t, []content.Content{fixture}, rendered)
	msgs := rec.ofType(TypeContent)
	require.Len(t, msgs, 1)
	require.Equal(t, ContentPayload{HTML: "<section>Neon</section>"}, msgs[0].Data)

	contentAt := rec.indexOf(func(m Outbound) bool { return m.Type == TypeContent })
	loadedAt := rec.indexOf(loadedState)
	require.Less(t, contentAt, loadedAt)

	// later transitions do not resend the sections
	clock.Advance(5 * time.Second)
	require.Len(t, rec.ofType(TypeContent), 1)
}

func TestFailingSourceRendersEmptySections(t *testing.T) {
	var rendered []content.Content
	cfg := testConfig()
	cfg.Render = func(c content.Content) (string, error) {
		rendered = append(rendered, c)
		return `<p class="empty">Nothing here yet.</p>`, nil
	}
	source := content.SourceFunc(func(context.Context) (content.Content, error) {
		return content.Content{Projects: []content.Project{{ID: "stale"}}}, errors.New("unreachable")
	})
	_, clock, rec := newSessionWith(t, source, cfg)

	clock.Advance(10 * time.Second)
	require.Len(t, rendered, 1)
	require.True(t, rendered[0].Empty())

	msgs := rec.ofType(TypeContent)
	require.Len(t, msgs, 1)
	payload := msgs[0].Data.(ContentPayload)
	require.True(t, payload.Empty)
	require.Contains(t, payload.HTML, "Nothing here yet.")
}

func TestRenderFailureIsReported(t *testing.T) {
	cfg := testConfig()
	cfg.Render = func(content.Content) (string, error) {
		return "", errors.New("template broke")
	}
	s, clock, rec := newSessionWith(t, nil, cfg)

	clock.Advance(1500 * time.Millisecond)
	require.Empty(t, rec.ofType(TypeContent))
	errs := rec.ofType(TypeError)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Data.(ErrorPayload).Message, "template broke")
	require.False(t, s.Store().State().Loading)
}

func TestHeroCompletesAfterStartDelay(t *testing.T) {
	def := DefaultConfig()
	cfg := testConfig()
	cfg.Typing = def.Typing
	cfg.Commands = def.Commands
	_, clock, rec := newSessionWith(t, nil, cfg)

	complete := func() []reveal.Frame {
		var out []reveal.Frame
		for _, m := range rec.ofType(TypeTerminal) {
			if f := m.Data.(reveal.Frame); f.Complete {
				out = append(out, f)
			}
		}
		return out
	}

	// load ends at 1.5s, typing starts 2s later, 13 characters at 100ms
	clock.Advance(3500 * time.Millisecond)
	frames := rec.ofType(TypeTerminal)
	require.Len(t, frames, 1)
	require.Equal(t, "", frames[0].Data.(reveal.Frame).Text)

	clock.Advance(1299 * time.Millisecond)
	require.Empty(t, complete())

	clock.Advance(time.Millisecond)
	done := complete()
	require.Len(t, done, 1)
	require.Equal(t, content.HeroCommand, done[0].Text)

	// the hero types once
	n := len(rec.ofType(TypeTerminal))
	clock.Advance(10 * time.Second)
	require.Len(t, rec.ofType(TypeTerminal), n)
}

func TestCloseReleasesEverything(t *testing.T) {
	s, clock, rec := newSession(t, nil)
	clock.Advance(300 * time.Millisecond)

	s.Close()
	s.Close()
	require.Zero(t, clock.Pending())
	require.Zero(t, s.Store().Subscribers())
	require.Zero(t, s.root.Len())

	n := len(rec.msgs)
	clock.Advance(10 * time.Second)
	require.Len(t, rec.msgs, n)
	require.ErrorIs(t, s.Handle([]byte(`{"type":"menu_toggle"}`)), ErrClosed)
	require.ErrorIs(t, s.Start(), ErrClosed)
}
