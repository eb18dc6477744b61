// Package playing provides the main gameplay scene.
//
// The scene is a single state machine parameterized by level data:
// Loading acquires one texture per frame and waits for a settle delay,
// Running rotates the markers and moves obstacles, Paused shows the pause
// menu. GameOver follows a lethal collision and Error is terminal.
package playing

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/application/scene"
	"github.com/younwookim/duet/internal/application/state"
	"github.com/younwookim/duet/internal/application/system"
	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
	"github.com/younwookim/duet/internal/infrastructure/assets"
	"github.com/younwookim/duet/internal/infrastructure/config"
	"github.com/younwookim/duet/internal/infrastructure/logging"
)

// Pause menu option IDs
const (
	OptionResume = "resume"
	OptionMenu   = "menu"
)

// MenuScene is the scene name requested when the player leaves through the pause menu
const MenuScene = "menu"

// initialTouch is where the last touch point starts before any input
var initialTouch = entity.Point{X: 640, Y: 360}

// Options configures a Playing scene
type Options struct {
	Seed        int64              // 0 picks a time-based seed
	RecordPath  string             // record touch events to this file when set
	Source      system.EventSource // nil reads ebiten input
	ExitOnError bool               // Update returns the load error instead of idling in Error
	Logger      *zap.Logger
	// Canvas fixes the canvas size and disables the aspect adjustment.
	// Replays set it to the size they were recorded with.
	Canvas entity.Size
}

// Playing is the main gameplay scene
type Playing struct {
	level    *config.LevelConfig
	provider assets.Provider
	nav      scene.Navigator
	logger   *zap.Logger
	runID    string

	state     state.SceneState
	suspended bool
	canvasW   float64
	canvasH   float64
	adjusted  bool
	touch     entity.Point
	touching  bool
	elapsed   float64
	err       error

	loaded   int
	textures map[string]assets.Texture

	actor       *entity.Actor
	obstacles   *system.ObstacleSystem
	collisions  *system.CollisionSystem
	pauseButton entity.Rect
	pauseMenu   *entity.Menu

	source      system.EventSource
	rng         *rand.Rand
	seed        int64
	exitOnError bool
	canvas      entity.Size

	// Input recording
	recorder       *Recorder
	recordFilename string
}

// New creates a new Playing scene for level.
// Textures are acquired through provider; nav receives the request to leave to the menu.
func New(level *config.LevelConfig, provider assets.Provider, nav scene.Navigator, opts Options) *Playing {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger, runID := logging.WithRun(logging.OrNop(opts.Logger))
	logger = logger.With(zap.String("level", level.ID))

	source := opts.Source
	if source == nil {
		source = system.NewInputSystem()
	}

	p := &Playing{
		level:          level,
		provider:       provider,
		nav:            nav,
		logger:         logger,
		runID:          runID,
		source:         source,
		rng:            rand.New(rand.NewSource(seed)),
		seed:           seed,
		exitOnError:    opts.ExitOnError,
		canvas:         opts.Canvas,
		recordFilename: opts.RecordPath,
	}

	if opts.RecordPath != "" {
		p.recorder = NewRecorder(runID, seed, level.ID)
		logger.Info("recording enabled", zap.String("path", opts.RecordPath), zap.Int64("seed", seed))
	}

	p.Initialize()
	return p
}

// Initialize resets the transient scene fields and starts loading again
func (p *Playing) Initialize() {
	p.state = state.StateLoading
	p.suspended = false
	p.canvasW = float64(p.level.Canvas.Width)
	p.canvasH = float64(p.level.Canvas.Height)
	p.adjusted = false
	if p.canvas.W > 0 && p.canvas.H > 0 {
		p.canvasW, p.canvasH = p.canvas.W, p.canvas.H
		p.adjusted = true
	}
	p.touch = initialTouch
	p.touching = false
	p.elapsed = 0
	p.err = nil
	p.loaded = 0
	p.textures = make(map[string]assets.Texture, len(p.level.Textures))
}

// OnEnter implements scene.Scene
func (p *Playing) OnEnter() {
	p.logger.Info("scene enter", zap.Int64("seed", p.seed))
}

// OnExit implements scene.Scene
func (p *Playing) OnExit() {
	p.finishRecording()
	p.logger.Info("scene exit", zap.Stringer("state", p.state))
}

// Suspend stops updates and rendering until Resume. The state is kept.
func (p *Playing) Suspend() {
	p.suspended = true
}

// Resume undoes Suspend
func (p *Playing) Resume() {
	p.suspended = false
}

// Update proceeds the scene by one frame (implements scene.Scene)
func (p *Playing) Update(dt float64) (scene.Scene, error) {
	if p.suspended {
		return nil, nil
	}

	events := p.source.Poll(p.canvasH)
	if p.recorder != nil {
		p.recorder.RecordFrame(events)
	}
	for _, e := range events {
		p.HandleEvent(e)
	}

	switch p.state {
	case state.StateLoading:
		p.updateLoading(dt)
	case state.StateRunning:
		p.updateRunning(dt)
	}

	if p.state == state.StateError && p.exitOnError {
		return nil, p.err
	}
	return nil, nil // nil = stay on this scene
}

func (p *Playing) updateLoading(dt float64) {
	p.elapsed += dt

	if p.loaded < len(p.level.Textures) {
		tc := p.level.Textures[p.loaded]
		tex, err := p.provider.Load(tc.ID, tc.Path)
		if err != nil {
			p.fail(fmt.Errorf("failed to load texture %s: %w", tc.ID, err))
			return
		}
		p.textures[tc.ID] = tex
		p.loaded++
		p.logger.Debug("texture loaded", zap.String("id", tc.ID), zap.Int("loaded", p.loaded))
		return
	}

	if p.elapsed > p.level.Loading.SettleDelay {
		p.start()
	}
}

// start builds the gameplay objects from the loaded textures and begins running
func (p *Playing) start() {
	w, h := p.canvasW, p.canvasH

	pc := p.level.Player
	p.actor = entity.NewActor(pc.RotationSpeed)
	for _, mc := range pc.Markers {
		p.actor.AddMarker(entity.Marker{
			Position: entity.Point{X: w * mc.Position.X, Y: h * mc.Position.Y},
			Size:     assets.SizeOf(p.textures[mc.Texture]),
			Texture:  mc.Texture,
		})
	}
	p.actor.SetPivot(entity.Point{X: w * pc.Pivot.X, Y: h * pc.Pivot.Y})

	oc := p.level.Obstacles
	obstaclePool := pool.New[entity.Obstacle](len(oc.Pool))
	for _, kind := range oc.Pool {
		// anchors were checked when the level was validated
		anchor, _ := entity.ParseAnchor(kind.Anchor)
		obstaclePool.Add(entity.Obstacle{
			Size:    assets.SizeOf(p.textures[kind.Texture]),
			Anchor:  anchor,
			Texture: kind.Texture,
		})
	}
	p.obstacles = system.NewObstacleSystem(obstaclePool, system.SettingsFromConfig(oc), p.rng, p.logger)
	p.obstacles.SetCanvas(w, h)
	p.collisions = system.NewCollisionSystem(w, h)

	pb := p.level.PauseButton
	p.pauseButton = entity.AnchorCenter.Rect(
		entity.Point{X: w - pb.OffsetX, Y: h - pb.OffsetY},
		assets.SizeOf(p.textures[pb.Texture]),
	)

	p.pauseMenu = entity.NewMenu(p.level.MenuOptions(p.level.PauseMenu)...)
	p.pauseMenu.Layout(w, h)

	if p.recorder != nil {
		p.recorder.SetCanvas(w, h)
	}

	p.spawn()
	p.setState(state.StateRunning)
}

func (p *Playing) spawn() {
	if _, err := p.obstacles.Spawn(p.level.Obstacles.Count); err != nil {
		// fewer obstacles is playable
		if !errors.Is(err, system.ErrPoolExhausted) {
			p.logger.Error("failed to spawn obstacles", zap.Error(err))
		}
	}
}

func (p *Playing) updateRunning(dt float64) {
	p.actor.Update(dt, p.touching)
	p.obstacles.Update(dt)

	p.collisions.Sync(p.actor, p.obstacles)
	h, hit := p.collisions.Check(p.actor, p.obstacles)
	if !hit {
		return
	}

	p.logger.Debug("collision", zap.Int("obstacle", int(h)))
	if p.level.Obstacles.Lethal {
		p.touching = false
		p.setState(state.StateGameOver)
		p.finishRecording()
	}
}

// HandleEvent routes a touch event according to the current state.
// Events are ignored while loading or after a load error.
func (p *Playing) HandleEvent(e system.TouchEvent) {
	if !p.state.AcceptsInput() {
		return
	}

	pt := e.Point()
	p.touch = pt

	switch p.state {
	case state.StateRunning:
		p.handleRunning(e.Kind, pt)
	case state.StatePaused:
		p.handlePaused(e.Kind, pt)
	case state.StateGameOver:
		if e.Kind == system.TouchEnded {
			p.restart()
		}
	}
}

func (p *Playing) handleRunning(kind system.TouchKind, pt entity.Point) {
	switch kind {
	case system.TouchStarted, system.TouchMoved:
		p.touching = true
		p.actor.SetDirection(entity.DirectionForTouch(pt.X, p.canvasW))
	case system.TouchEnded:
		p.touching = false
		if p.pauseButton.Contains(pt) {
			p.pauseMenu.ReleaseAll()
			p.setState(state.StatePaused)
		}
	}
}

func (p *Playing) handlePaused(kind system.TouchKind, pt entity.Point) {
	switch kind {
	case system.TouchStarted, system.TouchMoved:
		p.pauseMenu.Press(pt)
	case system.TouchEnded:
		p.pauseMenu.ReleaseAll()
		switch p.pauseMenu.IDAt(pt) {
		case OptionResume:
			p.setState(state.StateRunning)
		case OptionMenu:
			p.logger.Info("leaving to menu")
			p.nav.RunScene(MenuScene)
		}
	}
}

// restart begins a fresh run after a game over
func (p *Playing) restart() {
	p.obstacles.Reset()
	p.collisions.Reset()
	p.actor.Reset()
	p.touching = false
	p.spawn()
	p.setState(state.StateRunning)
}

func (p *Playing) fail(err error) {
	p.err = err
	p.logger.Error("scene failed", zap.Error(err))
	p.setState(state.StateError)
}

func (p *Playing) setState(s state.SceneState) {
	if p.state == s {
		return
	}
	p.logger.Info("state change", zap.Stringer("from", p.state), zap.Stringer("to", s))
	p.state = s
}

// Layout rescales the canvas width once to the surface aspect ratio while
// loading, then reports the canvas as the logical screen.
func (p *Playing) Layout(outsideWidth, outsideHeight int) (int, int) {
	if p.state == state.StateLoading && p.level.Canvas.AdjustAspect && !p.adjusted && outsideHeight > 0 {
		aspect := float64(outsideWidth) / float64(outsideHeight)
		p.canvasW = float64(uint(p.canvasH * aspect))
		p.adjusted = true
		p.logger.Debug("canvas adjusted", zap.Float64("width", p.canvasW), zap.Float64("height", p.canvasH))
	}
	return int(p.canvasW), int(p.canvasH)
}

// finishRecording stops the recorder and saves it once; a recording covers one run
func (p *Playing) finishRecording() {
	if p.recorder == nil || !p.recorder.IsRecording() {
		return
	}
	p.recorder.Stop()
	p.saveRecording()
}

func (p *Playing) saveRecording() {
	if p.recorder == nil || p.recorder.FrameCount() == 0 {
		return
	}

	filename := p.recordFilename
	if filename == "" {
		filename = GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		p.logger.Error("failed to save recording", zap.Error(err))
	} else {
		p.logger.Info("recording saved", zap.String("path", filename), zap.Int("frames", p.recorder.FrameCount()))
	}
}

// State returns the current scene state
func (p *Playing) State() state.SceneState {
	return p.state
}

// Err returns the error that moved the scene into the Error state
func (p *Playing) Err() error {
	return p.err
}

// Suspended reports whether the scene is suspended
func (p *Playing) Suspended() bool {
	return p.suspended
}

// Canvas returns the current canvas size
func (p *Playing) Canvas() (float64, float64) {
	return p.canvasW, p.canvasH
}

// Touch returns the last touch point and whether the screen is being touched
func (p *Playing) Touch() (entity.Point, bool) {
	return p.touch, p.touching
}

// Elapsed returns the time spent loading
func (p *Playing) Elapsed() float64 {
	return p.elapsed
}

// Actor returns the player, nil before loading completes
func (p *Playing) Actor() *entity.Actor {
	return p.actor
}

// Obstacles returns the obstacle system, nil before loading completes
func (p *Playing) Obstacles() *system.ObstacleSystem {
	return p.obstacles
}

// PauseButton returns the pause button hit box
func (p *Playing) PauseButton() entity.Rect {
	return p.pauseButton
}

// PauseMenu returns the pause menu, nil before loading completes
func (p *Playing) PauseMenu() *entity.Menu {
	return p.pauseMenu
}

// RunID returns the id tagging this scene's log lines and recording
func (p *Playing) RunID() string {
	return p.runID
}

// Seed returns the RNG seed of this run
func (p *Playing) Seed() int64 {
	return p.seed
}

// Recorder returns the input recorder, nil when not recording
func (p *Playing) Recorder() *Recorder {
	return p.recorder
}
