package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/younwookim/duet/internal/application/system"
)

// Replayer plays recorded touch events back frame by frame.
// It implements system.EventSource.
type Replayer struct {
	data  ReplayData
	frame int
	next  int // index into data.Frames
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Save writes replay data to a file
func Save(data ReplayData, filename string) error {
	if data.TotalFrames == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Poll returns the events of the current frame and advances.
// Recorded events are already in canvas space, so canvasHeight is unused.
func (r *Replayer) Poll(_ float64) []system.TouchEvent {
	if r.Done() {
		return nil
	}

	var events []system.TouchEvent
	if r.next < len(r.data.Frames) && r.data.Frames[r.next].F == r.frame {
		events = r.data.Frames[r.next].Events
		r.next++
	}
	r.frame++

	return events
}

// Done reports whether every recorded frame has been played
func (r *Replayer) Done() bool {
	return r.frame >= r.data.TotalFrames
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return r.data.TotalFrames
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Level returns the recorded level name
func (r *Replayer) Level() string {
	return r.data.Level
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
	r.next = 0
}

// CreateTestReplayData creates replay data with one tap at (x, y) on the given frame
func CreateTestReplayData(frames, tapFrame int, x, y float64) ReplayData {
	return ReplayData{
		Version:     Version,
		Session:     uuid.NewString(),
		Seed:        12345,
		Level:       "test",
		StartTime:   time.Now().Format(time.RFC3339),
		TotalFrames: frames,
		Frames: []FrameInput{
			{F: tapFrame, Events: []system.TouchEvent{{Kind: system.TouchStarted, X: x, Y: y}}},
			{F: tapFrame + 1, Events: []system.TouchEvent{{Kind: system.TouchEnded, X: x, Y: y}}},
		},
	}
}
