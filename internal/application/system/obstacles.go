package system

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
	"github.com/younwookim/duet/internal/infrastructure/config"
)

// ErrPoolExhausted is returned when fewer obstacles than requested could be spawned
var ErrPoolExhausted = errors.New("obstacle pool exhausted")

// ObstacleSettings are the motion and lifecycle parameters shared by all obstacles
type ObstacleSettings struct {
	Speed       float64 // reasserted on every active obstacle each frame
	SpawnOffset float64 // distance beyond the canvas edge obstacles appear at
	Spawn       string  // config.SpawnFixed or config.SpawnRandom
	Recycle     string  // config.RecycleKeep, RecycleRelease or RecycleRespawn
}

// SettingsFromConfig converts the level section into ObstacleSettings
func SettingsFromConfig(cfg config.ObstaclesConfig) ObstacleSettings {
	return ObstacleSettings{
		Speed:       cfg.Speed,
		SpawnOffset: cfg.SpawnOffset,
		Spawn:       cfg.Spawn,
		Recycle:     cfg.Recycle,
	}
}

// ObstacleSystem moves pooled obstacles through the canvas
type ObstacleSystem struct {
	pool     *pool.Pool[entity.Obstacle]
	active   []pool.Handle
	settings ObstacleSettings
	canvasW  float64
	canvasH  float64
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewObstacleSystem creates an obstacle system over p
func NewObstacleSystem(p *pool.Pool[entity.Obstacle], settings ObstacleSettings, rng *rand.Rand, logger *zap.Logger) *ObstacleSystem {
	return &ObstacleSystem{
		pool:     p,
		settings: settings,
		rng:      rng,
		logger:   logger,
	}
}

// SetCanvas sets the canvas the obstacles spawn into
func (s *ObstacleSystem) SetCanvas(w, h float64) {
	s.canvasW, s.canvasH = w, h
}

// Spawn requests up to count obstacles from the pool and places them at the spawn point.
// It returns how many were spawned; a short count wraps ErrPoolExhausted.
func (s *ObstacleSystem) Spawn(count int) (int, error) {
	for i := 0; i < count; i++ {
		if _, ok := s.spawnOne(); !ok {
			s.logger.Warn("obstacle pool exhausted",
				zap.Int("requested", count),
				zap.Int("spawned", i),
				zap.Int("capacity", s.pool.Cap()))
			return i, fmt.Errorf("%w: spawned %d of %d", ErrPoolExhausted, i, count)
		}
	}
	return count, nil
}

func (s *ObstacleSystem) spawnOne() (pool.Handle, bool) {
	h, ok := s.pool.RequestObject()
	if !ok {
		return pool.NoHandle, false
	}
	s.pool.Get(h).Place(s.spawnPoint())
	s.active = append(s.active, h)
	return h, true
}

// spawnPoint is just beyond the edge obstacles travel away from
func (s *ObstacleSystem) spawnPoint() entity.Point {
	x := s.canvasW / 2
	if s.settings.Spawn == config.SpawnRandom && s.canvasW > 0 {
		x = s.rng.Float64() * s.canvasW
	}

	y := s.canvasH + s.settings.SpawnOffset
	if s.settings.Speed > 0 {
		y = -s.settings.SpawnOffset
	}
	return entity.Point{X: x, Y: y}
}

// Update moves every active obstacle and applies the recycle policy
func (s *ObstacleSystem) Update(dt float64) {
	for _, h := range s.active {
		o := s.pool.Get(h)
		o.SpeedY = s.settings.Speed
		o.Update(dt)
	}

	if s.settings.Recycle == config.RecycleKeep {
		return
	}

	kept := s.active[:0]
	var gone int
	for _, h := range s.active {
		if !s.offScreen(s.pool.Get(h)) {
			kept = append(kept, h)
			continue
		}
		if err := s.pool.Release(h); err != nil {
			s.logger.Error("failed to release obstacle", zap.Int("handle", int(h)), zap.Error(err))
		}
		gone++
	}
	s.active = kept

	if gone == 0 || s.settings.Recycle != config.RecycleRespawn {
		return
	}
	for i := 0; i < gone; i++ {
		h, ok := s.spawnOne()
		if !ok {
			break
		}
		s.logger.Debug("obstacle recycled", zap.Int("handle", int(h)))
	}
}

// offScreen reports whether o has fully left the canvas in its direction of travel
func (s *ObstacleSystem) offScreen(o *entity.Obstacle) bool {
	b := o.Bounds()
	switch {
	case o.SpeedY < 0:
		return b.Top() < 0
	case o.SpeedY > 0:
		return b.Bottom() > s.canvasH
	}
	return false
}

// Reset releases every active obstacle
func (s *ObstacleSystem) Reset() {
	for _, h := range s.active {
		_ = s.pool.Release(h)
	}
	s.active = s.active[:0]
}

// Active returns the handles of the active obstacles in spawn order
func (s *ObstacleSystem) Active() []pool.Handle {
	return s.active
}

// Get returns the obstacle behind h
func (s *ObstacleSystem) Get(h pool.Handle) *entity.Obstacle {
	return s.pool.Get(h)
}

// Each calls fn for every active obstacle in spawn order
func (s *ObstacleSystem) Each(fn func(pool.Handle, *entity.Obstacle)) {
	for _, h := range s.active {
		fn(h, s.pool.Get(h))
	}
}
