package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"wpvolume/internal/domain"
	"wpvolume/internal/logging"
)

// Command is a named widget action bindable to a key or a click.
// args carries optional positional arguments, e.g. a volume step.
type Command func(ctx context.Context, args []string) error

// Frame is what the bar draws for one render cycle.
type Frame struct {
	Text   string             `json:"text"`
	Icon   string             `json:"icon,omitempty"`
	Volume domain.VolumeState `json:"volume"`
}

// BarWidget is the capability set the bar host calls into.
type BarWidget interface {
	Configure(settings domain.Settings) error
	Render(ctx context.Context) (Frame, error)
	HandleClick(ctx context.Context, button domain.Button) error
	Commands() map[string]Command
}

// VolumeWidget drives the default audio sink through an AudioController.
// It keeps no audio state between calls; every call asks the service.
type VolumeWidget struct {
	controller domain.AudioController

	mu       sync.RWMutex
	settings domain.Settings
	icons    map[domain.Icon]string
}

var _ BarWidget = (*VolumeWidget)(nil)

// NewVolumeWidget creates a widget and applies settings.
// The controller is injected once and shared by every command.
func NewVolumeWidget(controller domain.AudioController, settings domain.Settings) (*VolumeWidget, error) {
	w := &VolumeWidget{controller: controller}
	if err := w.Configure(settings); err != nil {
		return nil, err
	}
	return w, nil
}

// Configure validates settings and resolves theme images when a theme
// path is set.
func (w *VolumeWidget) Configure(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	var icons map[domain.Icon]string
	if settings.ThemePath != "" {
		icons = make(map[domain.Icon]string)
		for _, icon := range domain.AllIcons() {
			path := filepath.Join(settings.ThemePath, icon.ImageName()+".png")
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("theme image: %w", err)
			}
			icons[icon] = path
		}
	}

	w.mu.Lock()
	w.settings = settings
	w.icons = icons
	w.mu.Unlock()
	logging.Debugf("widget configured: step=%v limit=%v emoji=%t theme=%q",
		settings.Step, settings.Limit, settings.Emoji, settings.ThemePath)
	return nil
}

// Settings returns the active settings.
func (w *VolumeWidget) Settings() domain.Settings {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.settings
}

// Mute toggles mute on the default sink.
func (w *VolumeWidget) Mute(ctx context.Context) error {
	return w.controller.SetMute(ctx, domain.ToggleMute, domain.DefaultSink)
}

// IncreaseVol unmutes and raises the volume by value. A value <= 0 means
// "use the configured step"; the direction comes from the method, never
// from the sign of value.
func (w *VolumeWidget) IncreaseVol(ctx context.Context, value float64) error {
	return w.step(ctx, value, domain.Increase)
}

// DecreaseVol unmutes and lowers the volume by value. A value <= 0 means
// "use the configured step", as for IncreaseVol.
func (w *VolumeWidget) DecreaseVol(ctx context.Context, value float64) error {
	return w.step(ctx, value, domain.Decrease)
}

func (w *VolumeWidget) step(ctx context.Context, value float64, sign domain.VolumeSign) error {
	// wpctl has no token for a negative relative step.
	if value <= 0 {
		value = w.Settings().Step
	}
	if err := w.controller.SetMute(ctx, domain.Unmuted, domain.DefaultSink); err != nil {
		return err
	}
	return w.controller.SetVolume(ctx, value, sign, domain.DefaultSink)
}

// NextSink makes the sink after the current default the new default.
// Without a flagged default it does nothing.
func (w *VolumeWidget) NextSink(ctx context.Context) error {
	sinks, err := w.controller.ListSinks(ctx)
	if err != nil {
		return err
	}
	next, ok := domain.NextDefault(sinks)
	if !ok {
		logging.Infof("no default among %d sinks, leaving routing unchanged", len(sinks))
		return nil
	}
	logging.Infof("switching default sink to %d (%s)", next.ID, next.DisplayName)
	return w.controller.SetDefault(ctx, domain.SinkRef(next.ID))
}

// GetVolume reports the default sink's volume.
func (w *VolumeWidget) GetVolume(ctx context.Context) (domain.VolumeState, error) {
	return w.controller.GetVolume(ctx, domain.DefaultSink)
}

// ListSinks reports the sinks known to the audio service.
func (w *VolumeWidget) ListSinks(ctx context.Context) ([]domain.Sink, error) {
	return w.controller.ListSinks(ctx)
}

// SetDefault routes playback to sink.
func (w *VolumeWidget) SetDefault(ctx context.Context, sink int) error {
	return w.controller.SetDefault(ctx, domain.SinkRef(sink))
}

// Render reads the current volume and formats it for the bar.
func (w *VolumeWidget) Render(ctx context.Context) (Frame, error) {
	vol, err := w.GetVolume(ctx)
	if err != nil {
		return Frame{}, err
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return Frame{
		Text:   domain.RenderText(vol, w.settings.Emoji),
		Icon:   w.icons[domain.IconFor(vol)],
		Volume: vol,
	}, nil
}

// HandleClick runs the command bound to button. Unbound buttons are ignored.
func (w *VolumeWidget) HandleClick(ctx context.Context, button domain.Button) error {
	w.mu.RLock()
	name, ok := w.settings.Clicks[button]
	w.mu.RUnlock()
	if !ok {
		logging.Debugf("button %d is not bound", button)
		return nil
	}
	return w.Call(ctx, name, nil)
}

// Commands returns the named commands exposed for key bindings.
func (w *VolumeWidget) Commands() map[string]Command {
	return map[string]Command{
		domain.CommandMute: func(ctx context.Context, _ []string) error {
			return w.Mute(ctx)
		},
		domain.CommandIncreaseVol: func(ctx context.Context, args []string) error {
			value, err := optionalValue(args)
			if err != nil {
				return err
			}
			return w.IncreaseVol(ctx, value)
		},
		domain.CommandDecreaseVol: func(ctx context.Context, args []string) error {
			value, err := optionalValue(args)
			if err != nil {
				return err
			}
			return w.DecreaseVol(ctx, value)
		},
		domain.CommandNextSink: func(ctx context.Context, _ []string) error {
			return w.NextSink(ctx)
		},
	}
}

// CommandNames lists the exposed command names in sorted order.
func (w *VolumeWidget) CommandNames() []string {
	cmds := w.Commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs a named command.
func (w *VolumeWidget) Call(ctx context.Context, name string, args []string) error {
	cmd, ok := w.Commands()[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}
	logging.Debugf("command %s %v", name, args)
	return cmd(ctx, args)
}

func optionalValue(args []string) (float64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, fmt.Errorf("volume step %q: %w", args[0], err)
	}
	return v, nil
}
