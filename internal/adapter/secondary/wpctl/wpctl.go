package wpctl

import (
	"context"
	"fmt"
	"strconv"

	"wpvolume/internal/domain"
)

// Controller implements domain.AudioController on top of the wpctl CLI.
// This is a secondary adapter.
type Controller struct {
	runner Runner
	limit  float64
}

// NewController creates a controller. limit is the set-volume upper clamp
// (1 = 100%); values <= 0 fall back to 1.
func NewController(runner Runner, limit float64) *Controller {
	if limit <= 0 {
		limit = 1
	}
	return &Controller{runner: runner, limit: limit}
}

var _ domain.AudioController = (*Controller)(nil)

// SetVolume runs `set-volume <sink> <value><sign> --limit <limit>`.
func (c *Controller) SetVolume(ctx context.Context, value float64, sign domain.VolumeSign, sink domain.SinkRef) error {
	_, err := c.runner.Run(ctx,
		"set-volume",
		sink.Token(),
		formatFloat(value)+sign.Token(),
		"--limit",
		formatFloat(c.limit),
	)
	return err
}

// SetMute runs `set-mute <sink> <state>`.
func (c *Controller) SetMute(ctx context.Context, state domain.MuteState, sink domain.SinkRef) error {
	_, err := c.runner.Run(ctx, "set-mute", sink.Token(), state.Token())
	return err
}

// GetVolume runs `get-volume <sink>`.
func (c *Controller) GetVolume(ctx context.Context, sink domain.SinkRef) (domain.VolumeState, error) {
	out, err := c.runner.Run(ctx, "get-volume", sink.Token())
	if err != nil {
		return domain.VolumeState{}, err
	}
	return ParseVolume(out)
}

// SetDefault runs `set-default <sink>`.
func (c *Controller) SetDefault(ctx context.Context, sink domain.SinkRef) error {
	_, err := c.runner.Run(ctx, "set-default", sink.Token())
	return err
}

// ListSinks runs `status --nick` and parses its sink section.
func (c *Controller) ListSinks(ctx context.Context) ([]domain.Sink, error) {
	out, err := c.runner.Run(ctx, "status", "--nick")
	if err != nil {
		return nil, err
	}
	sinks, err := ParseSinks(out)
	if err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}
	return sinks, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
