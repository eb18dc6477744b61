package replay

import (
	"github.com/younwookim/duet/internal/application/system"
	"github.com/younwookim/duet/internal/domain/entity"
)

// Version of the replay file format
const Version = "2.0"

// FrameInput records the touch events delivered on one frame.
// Frames without events are not stored.
type FrameInput struct {
	F      int                 `json:"f"` // Frame number
	Events []system.TouchEvent `json:"events"`
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string `json:"version"`
	Session   string `json:"session"` // run id of the recorded session
	Seed      int64  `json:"seed"`
	Level     string `json:"level"`
	StartTime string `json:"startTime"`
	// Canvas the session ran on. Zero in replays that did not reach Running.
	CanvasWidth  float64      `json:"canvasWidth,omitempty"`
	CanvasHeight float64      `json:"canvasHeight,omitempty"`
	TotalFrames  int          `json:"totalFrames"`
	Frames       []FrameInput `json:"frames"`
}

// Canvas returns the recorded canvas size
func (d ReplayData) Canvas() entity.Size {
	return entity.Size{W: d.CanvasWidth, H: d.CanvasHeight}
}
