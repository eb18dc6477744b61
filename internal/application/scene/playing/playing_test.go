package playing

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/younwookim/duet/internal/application/replay"
	"github.com/younwookim/duet/internal/application/state"
	"github.com/younwookim/duet/internal/application/system"
	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
	"github.com/younwookim/duet/internal/infrastructure/assets"
	"github.com/younwookim/duet/internal/infrastructure/config"
)

// fakeProvider returns bare rectangles and records the load order
type fakeProvider struct {
	sizes map[string]assets.Rect
	fail  map[string]bool
	calls []string
}

func (f *fakeProvider) Load(id, path string) (assets.Texture, error) {
	f.calls = append(f.calls, id)
	if f.fail[id] {
		return nil, fmt.Errorf("%w: %s", assets.ErrNotFound, path)
	}
	return f.sizes[id], nil
}

// queueSource delivers pushed events on the next poll
type queueSource struct {
	pending []system.TouchEvent
	polls   int
}

func (q *queueSource) Poll(_ float64) []system.TouchEvent {
	q.polls++
	events := q.pending
	q.pending = nil
	return events
}

func (q *queueSource) push(kind system.TouchKind, x, y float64) {
	q.pending = append(q.pending, system.TouchEvent{Kind: kind, X: x, Y: y})
}

func (q *queueSource) tap(x, y float64) {
	q.push(system.TouchStarted, x, y)
	q.push(system.TouchEnded, x, y)
}

type fakeNavigator struct {
	scenes []string
}

func (n *fakeNavigator) RunScene(name string) {
	n.scenes = append(n.scenes, name)
}

func createTestLevel() *config.LevelConfig {
	return &config.LevelConfig{
		ID:      "test",
		Canvas:  config.CanvasConfig{Width: 1920, Height: 1080},
		Loading: config.LoadingConfig{SettleDelay: 1.0},
		Textures: []config.TextureConfig{
			{ID: "blue", Path: "blue.png"},
			{ID: "red", Path: "red.png"},
			{ID: "block", Path: "block.png"},
			{ID: "pause", Path: "pause.png"},
			{ID: "atlas", Path: "atlas.png"},
		},
		Atlas: config.AtlasConfig{
			Texture: "atlas",
			Slices: []config.SliceConfig{
				{Name: "resume", X: 0, Y: 0, Width: 400, Height: 120},
				{Name: "menu", X: 0, Y: 120, Width: 400, Height: 120},
			},
		},
		Player: config.PlayerConfig{
			RotationSpeed: 3.0,
			Pivot:         config.FractionConfig{X: 0.5, Y: 1.0 / 6.0},
			Markers: []config.MarkerConfig{
				{Texture: "blue", Position: config.FractionConfig{X: 0.25, Y: 0.25}},
				{Texture: "red", Position: config.FractionConfig{X: 0.75, Y: 0.25}},
			},
		},
		Obstacles: config.ObstaclesConfig{
			Pool: []config.ObstacleKindConfig{
				{Texture: "block", Anchor: "center"},
				{Texture: "block", Anchor: "top-right"},
				{Texture: "block", Anchor: "top-left"},
				{Texture: "block", Anchor: "center"},
				{Texture: "block", Anchor: "top-left"},
			},
			Count:       4,
			Speed:       -400,
			SpawnOffset: 50,
			Spawn:       config.SpawnFixed,
			Recycle:     config.RecycleRespawn,
			Lethal:      true,
		},
		PauseButton: config.PauseButtonConfig{Texture: "pause", OffsetX: 50, OffsetY: 70},
		PauseMenu: config.MenuConfig{Options: []config.MenuOptionConfig{
			{ID: OptionResume, Slice: "resume"},
			{ID: OptionMenu, Slice: "menu"},
		}},
	}
}

func createTestProvider() *fakeProvider {
	return &fakeProvider{
		sizes: map[string]assets.Rect{
			"blue":  {W: 100, H: 100},
			"red":   {W: 100, H: 100},
			"block": {W: 400, H: 60},
			"pause": {W: 80, H: 80},
			"atlas": {W: 400, H: 240},
		},
		fail: map[string]bool{},
	}
}

type testScene struct {
	*Playing
	provider *fakeProvider
	source   *queueSource
	nav      *fakeNavigator
}

func createTestScene(t *testing.T, level *config.LevelConfig, opts Options) *testScene {
	ts := &testScene{
		provider: createTestProvider(),
		source:   &queueSource{},
		nav:      &fakeNavigator{},
	}
	opts.Source = ts.source
	opts.Logger = zaptest.NewLogger(t)
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	ts.Playing = New(level, ts.provider, ts.nav, opts)
	return ts
}

func (ts *testScene) step(t *testing.T, dt float64) {
	t.Helper()
	_, err := ts.Update(dt)
	require.NoError(t, err)
}

func (ts *testScene) runUntilRunning(t *testing.T) {
	t.Helper()
	for i := 0; i < 100 && ts.State() == state.StateLoading; i++ {
		ts.step(t, 0.25)
	}
	require.Equal(t, state.StateRunning, ts.State())
}

func TestNew_StartsLoading(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})

	assert.Equal(t, state.StateLoading, ts.State())
	assert.False(t, ts.Suspended())
	w, h := ts.Canvas()
	assert.Equal(t, 1920.0, w)
	assert.Equal(t, 1080.0, h)
	pt, touching := ts.Touch()
	assert.Equal(t, entity.Point{X: 640, Y: 360}, pt)
	assert.False(t, touching)
	assert.NotEmpty(t, ts.RunID())
	assert.Equal(t, int64(7), ts.Seed())
	assert.Nil(t, ts.Actor())
}

func TestPlaying_Loading_OneTexturePerFrame(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})

	for i := 1; i <= 5; i++ {
		ts.step(t, 0.01)
		assert.Len(t, ts.provider.calls, i, "frame %d", i)
	}
	assert.Equal(t, []string{"blue", "red", "block", "pause", "atlas"}, ts.provider.calls)

	ts.step(t, 0.01)
	assert.Len(t, ts.provider.calls, 5, "nothing left to load")
	assert.Equal(t, state.StateLoading, ts.State(), "still settling")
}

func TestPlaying_Loading_SettleDelay(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})

	for i := 0; i < 10; i++ {
		ts.step(t, 0.1)
	}
	assert.Equal(t, state.StateLoading, ts.State(), "all loaded but 1s has not passed")

	ts.step(t, 0.1)
	assert.Equal(t, state.StateRunning, ts.State())
	assert.InDelta(t, 1.1, ts.Elapsed(), 1e-9)
}

func TestPlaying_Loading_SetsUpScene(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	actor := ts.Actor()
	require.NotNil(t, actor)
	assert.Equal(t, entity.Point{X: 960, Y: 180}, actor.Pivot)
	require.Len(t, actor.Markers, 2)
	assert.Equal(t, entity.Point{X: 480, Y: 270}, actor.Markers[0].Position)
	assert.Equal(t, entity.Point{X: 1440, Y: 270}, actor.Markers[1].Position)
	assert.Equal(t, entity.Size{W: 100, H: 100}, actor.Markers[0].Size)

	assert.Len(t, ts.Obstacles().Active(), 4, "4 of the 5 pooled obstacles are requested")
	ts.Obstacles().Each(func(_ pool.Handle, o *entity.Obstacle) {
		assert.Equal(t, entity.Size{W: 400, H: 60}, o.Size)
	})
	assert.Equal(t, entity.AnchorTopRight, ts.Obstacles().Get(1).Anchor)

	assert.Equal(t, entity.Rect{X: 1830, Y: 970, W: 80, H: 80}, ts.PauseButton())

	menu := ts.PauseMenu()
	require.Len(t, menu.Options, 2)
	assert.Equal(t, entity.Point{X: 960, Y: 660}, menu.Options[0].Position)
	assert.Equal(t, entity.Point{X: 960, Y: 540}, menu.Options[1].Position)
}

func TestPlaying_Loading_FailureIsTerminal(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.provider.fail["block"] = true

	for i := 0; i < 20; i++ {
		ts.step(t, 0.25)
	}

	assert.Equal(t, state.StateError, ts.State())
	assert.ErrorIs(t, ts.Err(), assets.ErrNotFound)
	assert.Equal(t, []string{"blue", "red", "block"}, ts.provider.calls, "no retry after the failure")
}

func TestPlaying_Loading_FailureExitsWhenRequested(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{ExitOnError: true})
	ts.provider.fail["blue"] = true

	_, err := ts.Update(0.1)
	assert.ErrorIs(t, err, assets.ErrNotFound)
	assert.Equal(t, state.StateError, ts.State())

	_, err = ts.Update(0.1)
	assert.Error(t, err)
}

func TestPlaying_Loading_IgnoresInput(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})

	ts.source.push(system.TouchStarted, 1800, 500)
	ts.step(t, 0.25)

	pt, touching := ts.Touch()
	assert.False(t, touching)
	assert.Equal(t, entity.Point{X: 640, Y: 360}, pt)
}

func TestPlaying_Suspended(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.step(t, 0.25)

	ts.Suspend()
	for i := 0; i < 10; i++ {
		ts.step(t, 0.25)
	}

	assert.Len(t, ts.provider.calls, 1, "no loading while suspended")
	assert.Equal(t, 0.25, ts.Elapsed())
	assert.Equal(t, 1, ts.source.polls, "input is not polled while suspended")

	ts.Resume()
	ts.runUntilRunning(t)

	// suspension keeps the running state and freezes the world
	y := ts.Obstacles().Get(0).Position.Y
	ts.Suspend()
	ts.step(t, 1)
	assert.Equal(t, state.StateRunning, ts.State())
	assert.Equal(t, y, ts.Obstacles().Get(0).Position.Y)
}

func TestPlaying_Layout_AdjustsAspectOnce(t *testing.T) {
	level := createTestLevel()
	level.Canvas.AdjustAspect = true
	ts := createTestScene(t, level, Options{})

	w, h := ts.Layout(540, 960)
	assert.Equal(t, 607, w)
	assert.Equal(t, 1080, h)

	w, _ = ts.Layout(960, 540)
	assert.Equal(t, 607, w, "adjusted only once")

	ts.runUntilRunning(t)
	assert.Equal(t, entity.Point{X: 303.5, Y: 180}, ts.Actor().Pivot)
}

func TestPlaying_Layout_WithoutAdjustment(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})

	w, h := ts.Layout(540, 960)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
}

func TestPlaying_Running_TouchSetsDirection(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		dir  float64
	}{
		{"left half", 100, entity.DirectionCounterClockwise},
		{"right half", 1800, entity.DirectionClockwise},
		{"exact middle", 960, entity.DirectionCounterClockwise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := createTestScene(t, createTestLevel(), Options{})
			ts.runUntilRunning(t)

			ts.source.push(system.TouchStarted, tt.x, 500)
			ts.step(t, 0.1)

			pt, touching := ts.Touch()
			assert.True(t, touching)
			assert.Equal(t, entity.Point{X: tt.x, Y: 500}, pt)
			assert.Equal(t, tt.dir, ts.Actor().Direction)
			assert.InDelta(t, tt.dir*0.1*3.0, ts.Actor().Angle, 1e-12)
		})
	}
}

func TestPlaying_Running_MoveChangesDirection(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	ts.source.push(system.TouchStarted, 100, 500)
	ts.step(t, 0.1)
	ts.source.push(system.TouchMoved, 1800, 500)
	ts.step(t, 0.1)

	assert.InDelta(t, 0.0, ts.Actor().Angle, 1e-12, "+0.3 then -0.3")

	ts.source.push(system.TouchEnded, 1800, 500)
	ts.step(t, 0.1)
	_, touching := ts.Touch()
	assert.False(t, touching)
	assert.Zero(t, ts.Actor().Angle)
}

func TestPlaying_Running_ObstaclesMove(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	before := ts.Obstacles().Get(0).Position.Y
	ts.step(t, 0.5)

	o := ts.Obstacles().Get(0)
	assert.Equal(t, -400.0, o.SpeedY)
	assert.Equal(t, before-200, o.Position.Y)
}

func TestPlaying_EndToEndRotation(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	ts.source.push(system.TouchStarted, 200, 500)
	ts.step(t, 1.0)

	actor := ts.Actor()
	assert.Equal(t, 3.0, actor.Angle)

	rel := entity.Point{X: 480 - 960, Y: 270 - 180}
	sin, cos := math.Sincos(3.0)
	want := entity.Point{
		X: rel.X*cos - rel.Y*sin + 960,
		Y: rel.X*sin + rel.Y*cos + 180,
	}
	assert.InDelta(t, want.X, actor.Markers[0].Position.X, 1e-9)
	assert.InDelta(t, want.Y, actor.Markers[0].Position.Y, 1e-9)
	assert.Equal(t, state.StateRunning, ts.State(), "obstacles are still far above")
}

func TestPlaying_PauseAndResume(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	ts.source.tap(1870, 1010)
	ts.step(t, 0.1)
	require.Equal(t, state.StatePaused, ts.State())

	// the same release does not fall through to the menu
	assert.Empty(t, ts.nav.scenes)

	// paused: the world is frozen
	y := ts.Obstacles().Get(0).Position.Y
	ts.step(t, 0.5)
	assert.Equal(t, y, ts.Obstacles().Get(0).Position.Y)

	ts.source.tap(960, 660)
	ts.step(t, 0.1)
	assert.Equal(t, state.StateRunning, ts.State())
}

func TestPlaying_PauseButtonMissed(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	ts.source.tap(1700, 1010)
	ts.step(t, 0.1)

	assert.Equal(t, state.StateRunning, ts.State())
}

func TestPlaying_PausedPressHighlightsOneOption(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)
	ts.source.tap(1870, 1010)
	ts.step(t, 0.1)

	menu := ts.PauseMenu()

	ts.source.push(system.TouchStarted, 960, 660)
	ts.step(t, 0.1)
	assert.True(t, menu.Options[0].Pressed)
	assert.False(t, menu.Options[1].Pressed)

	ts.source.push(system.TouchMoved, 960, 540)
	ts.step(t, 0.1)
	assert.False(t, menu.Options[0].Pressed)
	assert.True(t, menu.Options[1].Pressed)

	// released away from every option: nothing happens
	ts.source.push(system.TouchEnded, 100, 100)
	ts.step(t, 0.1)
	assert.False(t, menu.Options[1].Pressed)
	assert.Equal(t, state.StatePaused, ts.State())
	assert.Empty(t, ts.nav.scenes)
}

func TestPlaying_PausedMenuLeavesScene(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)
	ts.source.tap(1870, 1010)
	ts.step(t, 0.1)

	ts.source.tap(960, 540)
	ts.step(t, 0.1)

	assert.Equal(t, []string{MenuScene}, ts.nav.scenes)
}

func TestPlaying_CollisionEndsRun(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)

	h := ts.Obstacles().Active()[0]
	ts.Obstacles().Get(h).Position = entity.Point{X: 480, Y: 270}
	ts.step(t, 0)

	require.Equal(t, state.StateGameOver, ts.State())

	// world frozen in game over
	ts.step(t, 1)
	assert.Equal(t, entity.Point{X: 480, Y: 270}, ts.Obstacles().Get(h).Position)

	// a touch release restarts
	ts.source.tap(300, 300)
	ts.step(t, 0)

	assert.Equal(t, state.StateRunning, ts.State())
	assert.Len(t, ts.Obstacles().Active(), 4)
	ts.Obstacles().Each(func(_ pool.Handle, o *entity.Obstacle) {
		assert.Equal(t, 1130.0, o.Position.Y)
	})
	assert.Equal(t, entity.Point{X: 480, Y: 270}, ts.Actor().Markers[0].Position)
}

func TestPlaying_CollisionNotLethal(t *testing.T) {
	level := createTestLevel()
	level.Obstacles.Lethal = false
	ts := createTestScene(t, level, Options{})
	ts.runUntilRunning(t)

	ts.Obstacles().Get(ts.Obstacles().Active()[0]).Position = entity.Point{X: 480, Y: 270}
	ts.step(t, 0)

	assert.Equal(t, state.StateRunning, ts.State())
}

func TestPlaying_PoolSmallerThanCount(t *testing.T) {
	level := createTestLevel()
	level.Obstacles.Count = 8
	ts := createTestScene(t, level, Options{})
	ts.runUntilRunning(t)

	assert.Len(t, ts.Obstacles().Active(), 5, "exhaustion is recoverable")
}

func TestPlaying_Initialize(t *testing.T) {
	ts := createTestScene(t, createTestLevel(), Options{})
	ts.runUntilRunning(t)
	ts.Suspend()

	ts.Initialize()

	assert.Equal(t, state.StateLoading, ts.State())
	assert.False(t, ts.Suspended())
	assert.Zero(t, ts.Elapsed())
	assert.NoError(t, ts.Err())
}

func TestPlaying_RecordAndReplay(t *testing.T) {
	level := createTestLevel()
	level.Obstacles.Spawn = config.SpawnRandom
	path := filepath.Join(t.TempDir(), "session.json")

	rec := createTestScene(t, level, Options{Seed: 99, RecordPath: path})
	rec.OnEnter()
	rec.runUntilRunning(t)
	rec.source.push(system.TouchStarted, 1800, 500)
	rec.step(t, 0.25)
	rec.step(t, 0.25)
	rec.source.push(system.TouchEnded, 1800, 500)
	rec.step(t, 0.25)
	rec.OnExit()

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, rec.RunID(), data.Session)
	assert.Equal(t, int64(99), data.Seed)
	assert.Equal(t, rec.Recorder().FrameCount(), data.TotalFrames)
	require.Len(t, data.Frames, 2)

	replayer := replay.NewReplayer(*data)
	play := New(level, createTestProvider(), &fakeNavigator{}, Options{
		Seed:   data.Seed,
		Source: replayer,
		Logger: zaptest.NewLogger(t),
	})
	for !replayer.Done() {
		_, err := play.Update(0.25)
		require.NoError(t, err)
	}

	assert.Equal(t, rec.Actor().Markers, play.Actor().Markers)
	rec.Obstacles().Each(func(h pool.Handle, o *entity.Obstacle) {
		assert.Equal(t, o.Position, play.Obstacles().Get(h).Position)
	})
}

func TestPlaying_ReplayUsesRecordedCanvas(t *testing.T) {
	level := createTestLevel()
	level.Canvas.AdjustAspect = true
	level.Obstacles.Spawn = config.SpawnRandom
	path := filepath.Join(t.TempDir(), "portrait.json")

	rec := createTestScene(t, level, Options{Seed: 5, RecordPath: path})
	rec.OnEnter()
	w, _ := rec.Layout(540, 960)
	require.Equal(t, 607, w)
	rec.runUntilRunning(t)

	// right of the 607 wide center, left of the 1920 wide one
	rec.source.push(system.TouchStarted, 400, 500)
	rec.step(t, 0.25)
	rec.step(t, 0.25)
	rec.source.push(system.TouchEnded, 400, 500)
	rec.step(t, 0.25)
	require.Equal(t, entity.DirectionClockwise, rec.Actor().Direction)
	rec.OnExit()

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, entity.Size{W: 607, H: 1080}, data.Canvas())

	replayer := replay.NewReplayer(*data)
	play := New(level, createTestProvider(), &fakeNavigator{}, Options{
		Seed:   data.Seed,
		Source: replayer,
		Logger: zaptest.NewLogger(t),
		Canvas: data.Canvas(),
	})
	w, _ = play.Layout(960, 540)
	assert.Equal(t, 607, w, "a fixed canvas is not adjusted")

	for !replayer.Done() {
		_, err := play.Update(0.25)
		require.NoError(t, err)
	}

	assert.Equal(t, entity.DirectionClockwise, play.Actor().Direction)
	assert.Equal(t, rec.Actor().Markers, play.Actor().Markers)
	assert.Equal(t, rec.PauseButton(), play.PauseButton())
	rec.Obstacles().Each(func(h pool.Handle, o *entity.Obstacle) {
		assert.Equal(t, o.Position, play.Obstacles().Get(h).Position)
	})
}

func TestPlaying_GameOverFinishesRecording(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	ts := createTestScene(t, createTestLevel(), Options{RecordPath: path})
	ts.runUntilRunning(t)
	require.True(t, ts.Recorder().IsRecording())

	ts.Obstacles().Get(ts.Obstacles().Active()[0]).Position = entity.Point{X: 480, Y: 270}
	ts.step(t, 0)
	require.Equal(t, state.StateGameOver, ts.State())

	assert.False(t, ts.Recorder().IsRecording())
	frames := ts.Recorder().FrameCount()
	assert.FileExists(t, path)

	ts.source.tap(300, 300)
	ts.step(t, 0)
	ts.step(t, 0)
	assert.Equal(t, frames, ts.Recorder().FrameCount(), "frames after game over are not recorded")

	data, err := replay.LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, frames, data.TotalFrames)
	assert.Equal(t, ts.Recorder().GetData().Session, data.Session)
}
