package detect

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// FrameSource produces the per-cycle frame. The real capture process lives
// outside this module; it drops zone crops somewhere a FrameSource can reach.
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
}

// DirFrameSource reads zone crops from a directory: one "<zone>.png" per
// zone, rewritten in place by the capture process. Missing zones are simply
// absent from the frame; detectors skip what they cannot see.
type DirFrameSource struct {
	dir string
}

func NewDirFrameSource(dir string) (*DirFrameSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("frame dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("frame dir %s is not a directory", dir)
	}
	return &DirFrameSource{dir: dir}, nil
}

func (s *DirFrameSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return Frame{}, fmt.Errorf("read frame dir: %w", err)
	}

	frame := Frame{Captured: time.Now(), Regions: make(map[string]image.Image)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".png") {
			continue
		}
		img, err := imaging.Open(filepath.Join(s.dir, e.Name()))
		if err != nil {
			// A crop mid-rewrite by the capture process reads as corrupt;
			// leave the zone out of this frame and catch it next cycle.
			continue
		}
		frame.Regions[strings.TrimSuffix(e.Name(), ".png")] = img
	}
	if len(frame.Regions) == 0 {
		return frame, fmt.Errorf("no zone crops in %s", s.dir)
	}
	return frame, nil
}
