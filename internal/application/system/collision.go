package system

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/younwookim/duet/internal/domain/entity"
	"github.com/younwookim/duet/internal/domain/pool"
)

// Collision space tags
const (
	TagMarker   = "marker"
	TagObstacle = "obstacle"
)

const (
	collisionCellSize = 32
	// obstacles spawn beyond the canvas edges; the space extends past them
	collisionMargin = 512
)

// CollisionSystem finds marker/obstacle overlaps.
// A resolv space shortlists obstacles sharing cells with a marker; the
// actor's own box test decides the hit.
type CollisionSystem struct {
	space     *resolv.Space
	markers   []*resolv.Object
	obstacles map[pool.Handle]*resolv.Object
	owners    map[*resolv.Object]pool.Handle
	seen      map[pool.Handle]bool
}

// NewCollisionSystem creates a collision space covering the canvas plus a margin
func NewCollisionSystem(canvasW, canvasH float64) *CollisionSystem {
	w := int(math.Ceil(canvasW)) + 2*collisionMargin
	h := int(math.Ceil(canvasH)) + 2*collisionMargin
	return &CollisionSystem{
		space:     resolv.NewSpace(w, h, collisionCellSize, collisionCellSize),
		obstacles: make(map[pool.Handle]*resolv.Object),
		owners:    make(map[*resolv.Object]pool.Handle),
		seen:      make(map[pool.Handle]bool),
	}
}

// Sync mirrors marker and active obstacle boxes into the space
func (c *CollisionSystem) Sync(actor *entity.Actor, obstacles *ObstacleSystem) {
	for len(c.markers) < len(actor.Markers) {
		obj := resolv.NewObject(0, 0, 1, 1, TagMarker)
		c.space.Add(obj)
		c.markers = append(c.markers, obj)
	}
	for i, m := range actor.Markers {
		place(c.markers[i], m.Bounds())
	}

	clear(c.seen)
	obstacles.Each(func(h pool.Handle, o *entity.Obstacle) {
		c.seen[h] = true
		obj, ok := c.obstacles[h]
		if !ok {
			obj = resolv.NewObject(0, 0, 1, 1, TagObstacle)
			c.space.Add(obj)
			c.obstacles[h] = obj
			c.owners[obj] = h
		}
		place(obj, o.Bounds())
	})

	// released obstacles leave the space
	for h, obj := range c.obstacles {
		if !c.seen[h] {
			c.space.Remove(obj)
			delete(c.obstacles, h)
			delete(c.owners, obj)
		}
	}
}

// Check returns the first active obstacle, in spawn order, that the actor touches.
// Call Sync first.
func (c *CollisionSystem) Check(actor *entity.Actor, obstacles *ObstacleSystem) (pool.Handle, bool) {
	candidates := make(map[pool.Handle]bool)
	for i := range actor.Markers {
		col := c.markers[i].Check(0, 0, TagObstacle)
		if col == nil {
			continue
		}
		for _, obj := range col.Objects {
			if h, ok := c.owners[obj]; ok {
				candidates[h] = true
			}
		}
	}
	if len(candidates) == 0 {
		return pool.NoHandle, false
	}

	for _, h := range obstacles.Active() {
		if candidates[h] && actor.Collided(obstacles.Get(h).Bounds()) {
			return h, true
		}
	}
	return pool.NoHandle, false
}

// Reset removes every obstacle from the space
func (c *CollisionSystem) Reset() {
	for h, obj := range c.obstacles {
		c.space.Remove(obj)
		delete(c.obstacles, h)
		delete(c.owners, obj)
	}
}

// place moves obj over r. resolv registers cells up to Position+Size-1, so
// the box is widened to whole units plus one on the max edges; the broad
// phase may over-report but never misses an overlap of Rect.Intersects.
func place(obj *resolv.Object, r entity.Rect) {
	x0 := math.Floor(r.Left())
	y0 := math.Floor(r.Bottom())
	obj.Position.X = x0 + collisionMargin
	obj.Position.Y = y0 + collisionMargin
	obj.Size.X = math.Ceil(r.Right()) - x0 + 1
	obj.Size.Y = math.Ceil(r.Top()) - y0 + 1
	obj.Update()
}
