package domain

import (
	"strconv"
	"time"
)

// Sink is one audio output device as reported by the audio service.
// Sinks are snapshots: every query builds a fresh list.
type Sink struct {
	ID          int    `json:"id"`
	DisplayName string `json:"name"`
	IsDefault   bool   `json:"default"`
}

// VolumeState is the volume of a sink on a 0-100 scale.
type VolumeState struct {
	Level float64 `json:"level"`
	Muted bool    `json:"muted"`
}

// SinkRef addresses a sink by id. DefaultSink addresses whichever sink
// the audio service currently routes playback to.
type SinkRef int

// DefaultSink is the placeholder for the current default sink.
const DefaultSink SinkRef = -1

const defaultSinkToken = "@DEFAULT_AUDIO_SINK@"

// Token returns the wpctl argument for the reference.
func (r SinkRef) Token() string {
	if r < 0 {
		return defaultSinkToken
	}
	return strconv.Itoa(int(r))
}

// MuteState is the argument of a set-mute request.
type MuteState int

const (
	Unmuted MuteState = iota
	Muted
	ToggleMute
)

// Token returns the wpctl argument for the state.
func (m MuteState) Token() string {
	switch m {
	case Muted:
		return "1"
	case ToggleMute:
		return "toggle"
	default:
		return "0"
	}
}

// VolumeSign says whether a set-volume value is absolute or a step.
type VolumeSign int

const (
	Absolute VolumeSign = iota
	Increase
	Decrease
)

// Token returns the suffix wpctl expects after the volume value.
func (s VolumeSign) Token() string {
	switch s {
	case Increase:
		return "+"
	case Decrease:
		return "-"
	default:
		return ""
	}
}

// Button is a pointer button as delivered by the bar.
type Button int

const (
	ButtonLeft      Button = 1
	ButtonMiddle    Button = 2
	ButtonRight     Button = 3
	ButtonWheelUp   Button = 4
	ButtonWheelDown Button = 5
)

// ParseButton accepts a button number ("4") or name ("wheel-up").
func ParseButton(s string) (Button, error) {
	switch s {
	case "1", "left":
		return ButtonLeft, nil
	case "2", "middle":
		return ButtonMiddle, nil
	case "3", "right":
		return ButtonRight, nil
	case "4", "wheel-up", "up":
		return ButtonWheelUp, nil
	case "5", "wheel-down", "down":
		return ButtonWheelDown, nil
	}
	return 0, ErrUnknownButton
}

// Named widget commands, bindable to keys and clicks.
const (
	CommandMute        = "mute"
	CommandIncreaseVol = "increase_vol"
	CommandDecreaseVol = "decrease_vol"
	CommandNextSink    = "next_sink"
)

// Settings configures the volume widget.
type Settings struct {
	// Step is the fraction used by increase/decrease when no value is given.
	Step float64 `validate:"gt=0,lte=1"`
	// Limit is the upper clamp passed to set-volume (1 = 100%).
	Limit float64 `validate:"gt=0,lte=1.5"`
	// Executable is the wpctl command line, split shell-style.
	Executable string `validate:"required"`
	Emoji      bool
	ThemePath  string
	// Clicks maps pointer buttons to command names.
	Clicks         map[Button]string `validate:"dive,keys,min=1,max=5,endkeys,oneof=mute increase_vol decrease_vol next_sink"`
	PollInterval   time.Duration     `validate:"gte=100ms"`
	CommandTimeout time.Duration     `validate:"gte=0s"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Step:       0.05,
		Limit:      1,
		Executable: "wpctl",
		Emoji:      true,
		Clicks: map[Button]string{
			ButtonLeft:      CommandMute,
			ButtonRight:     CommandNextSink,
			ButtonWheelUp:   CommandIncreaseVol,
			ButtonWheelDown: CommandDecreaseVol,
		},
		PollInterval: time.Second,
	}
}
