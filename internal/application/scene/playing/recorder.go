package playing

import (
	"fmt"
	"time"

	"github.com/younwookim/duet/internal/application/replay"
	"github.com/younwookim/duet/internal/application/system"
)

// Recorder captures the touch events of every frame for replay
type Recorder struct {
	data      replay.ReplayData
	recording bool
}

// NewRecorder creates a new recorder with seed for deterministic replay
func NewRecorder(session string, seed int64, level string) *Recorder {
	return &Recorder{
		data: replay.ReplayData{
			Version:   replay.Version,
			Session:   session,
			Seed:      seed,
			Level:     level,
			StartTime: time.Now().Format(time.RFC3339),
		},
		recording: true,
	}
}

// RecordFrame records a single frame's events; empty frames only advance the counter
func (r *Recorder) RecordFrame(events []system.TouchEvent) {
	if !r.recording {
		return
	}

	if len(events) > 0 {
		r.data.Frames = append(r.data.Frames, replay.FrameInput{
			F:      r.data.TotalFrames,
			Events: append([]system.TouchEvent(nil), events...),
		})
	}
	r.data.TotalFrames++
}

// SetCanvas stores the canvas size the session runs on
func (r *Recorder) SetCanvas(w, h float64) {
	r.data.CanvasWidth = w
	r.data.CanvasHeight = h
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	return replay.Save(r.data, filename)
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return r.data.TotalFrames
}

// GetData returns the replay data recorded so far
func (r *Recorder) GetData() replay.ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
