package sim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/logging"
)

// Frame describes one completed iteration of the loop.
type Frame struct {
	Tick    int
	Step    float64
	Elapsed float64
	Bodies  int
}

// Loop drives clock, update and draw in strict sequence, once per frame.
type Loop struct {
	world    *World
	clock    *Clock
	surface  dynamo.Surface
	interval time.Duration
	logger   *zap.Logger
}

// NewLoop paces frames at fps; fps <= 0 runs unpaced. A nil surface skips
// the draw pass.
func NewLoop(w *World, clock *Clock, surface dynamo.Surface, fps int, logger *zap.Logger) *Loop {
	var interval time.Duration
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &Loop{
		world:    w,
		clock:    clock,
		surface:  surface,
		interval: interval,
		logger:   logging.OrNop(logger),
	}
}

// Run steps the world until ctx is done, maxTicks frames have run
// (0 means no limit), the callback returns false, or an update fails.
func (l *Loop) Run(ctx context.Context, maxTicks int, callback func(Frame) bool) error {
	var ticker *time.Ticker
	if l.interval > 0 {
		ticker = time.NewTicker(l.interval)
		defer ticker.Stop()
	}

	for frames := 0; maxTicks <= 0 || frames < maxTicks; frames++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		frame, err := l.Step()
		if err != nil {
			l.logger.Error("update failed", zap.Int("tick", l.world.Tick()), zap.Error(err))
			return err
		}
		if callback != nil && !callback(frame) {
			return nil
		}
	}
	return nil
}

// Step runs a single frame.
func (l *Loop) Step() (Frame, error) {
	step := l.clock.Tick()
	if err := l.world.Update(); err != nil {
		return Frame{}, err
	}
	if l.surface != nil {
		l.world.Draw(l.surface)
	}
	return Frame{
		Tick:    l.world.Tick(),
		Step:    step,
		Elapsed: l.clock.Elapsed(),
		Bodies:  len(l.world.Bodies()),
	}, nil
}
