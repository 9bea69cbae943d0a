package usecase

import (
	"context"
	"time"

	"wpvolume/internal/logging"
)

// Watch renders w every interval and calls emit whenever the frame text or
// icon changes. The first frame is always emitted. Render failures are
// logged and retried on the next tick; an emit failure stops the loop.
func Watch(ctx context.Context, w BarWidget, interval time.Duration, emit func(Frame) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		last    Frame
		emitted bool
	)
	for {
		frame, err := w.Render(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			logging.Errorf("render: %v", err)
		case !emitted || frame.Text != last.Text || frame.Icon != last.Icon:
			if err := emit(frame); err != nil {
				return err
			}
			last, emitted = frame, true
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
