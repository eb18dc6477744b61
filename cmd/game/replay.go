package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/application/replay"
	"github.com/younwookim/duet/internal/application/scene/playing"
	"github.com/younwookim/duet/internal/application/state"
	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
	"github.com/younwookim/duet/internal/infrastructure/assets"
	"github.com/younwookim/duet/internal/infrastructure/config"
)

// ReplayResult is the scene state after a replay has been played back
type ReplayResult struct {
	Frames    int
	State     state.SceneState
	Left      bool // the pause menu asked to leave the scene
	Markers   []entity.Point
	Obstacles []entity.Point
}

func (r ReplayResult) String() string {
	return fmt.Sprintf("frames=%d state=%s left=%t markers=%v obstacles=%d",
		r.Frames, r.State, r.Left, r.Markers, len(r.Obstacles))
}

// exitRecorder notes a request to leave the game scene
type exitRecorder struct {
	scene string
}

func (e *exitRecorder) RunScene(name string) {
	e.scene = name
}

// RunReplay plays data back against level at a fixed step of 1/framerate
// without opening a window, on the canvas the replay was recorded with.
// Playback stops early when the scene is left.
func RunReplay(level *config.LevelConfig, provider assets.Provider, data replay.ReplayData, framerate int, logger *zap.Logger) (ReplayResult, error) {
	if framerate <= 0 {
		return ReplayResult{}, fmt.Errorf("invalid framerate %d", framerate)
	}
	dt := 1.0 / float64(framerate)

	replayer := replay.NewReplayer(data)
	nav := &exitRecorder{}
	scene := playing.New(level, provider, nav, playing.Options{
		Seed:        data.Seed,
		Source:      replayer,
		ExitOnError: true,
		Logger:      logger,
		Canvas:      data.Canvas(),
	})
	scene.OnEnter()
	defer scene.OnExit()

	for !replayer.Done() && nav.scene == "" {
		if _, err := scene.Update(dt); err != nil {
			return ReplayResult{}, fmt.Errorf("replay failed at frame %d: %w", replayer.CurrentFrame(), err)
		}
	}

	res := ReplayResult{
		Frames: replayer.CurrentFrame(),
		State:  scene.State(),
		Left:   nav.scene != "",
	}
	if actor := scene.Actor(); actor != nil {
		for _, m := range actor.Markers {
			res.Markers = append(res.Markers, m.Position)
		}
	}
	if obstacles := scene.Obstacles(); obstacles != nil {
		obstacles.Each(func(_ pool.Handle, o *entity.Obstacle) {
			res.Obstacles = append(res.Obstacles, o.Position)
		})
	}
	return res, nil
}
