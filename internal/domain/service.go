package domain

import (
	"fmt"
	"math"
)

// NextDefault picks the sink that follows the current default, wrapping to
// the first entry. The first sink flagged default wins. It reports false
// when no sink is flagged default, in which case nothing should change.
func NextDefault(sinks []Sink) (Sink, bool) {
	i := 0
	for ; i < len(sinks); i++ {
		if sinks[i].IsDefault {
			break
		}
	}
	if i >= len(sinks) {
		return Sink{}, false
	}
	return sinks[(i+1)%len(sinks)], true
}

// Icon identifies the volume glyph for a state.
type Icon int

const (
	IconMuted Icon = iota
	IconLow
	IconMedium
	IconHigh
)

// IconFor buckets a volume state the way the bar volume widget does.
func IconFor(v VolumeState) Icon {
	switch {
	case v.Muted || v.Level <= 0:
		return IconMuted
	case v.Level <= 30:
		return IconLow
	case v.Level < 80:
		return IconMedium
	default:
		return IconHigh
	}
}

// Emoji returns the glyph shown in emoji mode.
func (i Icon) Emoji() string {
	switch i {
	case IconLow:
		return "\U0001f508"
	case IconMedium:
		return "\U0001f509"
	case IconHigh:
		return "\U0001f50a"
	default:
		return "\U0001f507"
	}
}

// ImageName returns the theme image basename, without extension.
func (i Icon) ImageName() string {
	switch i {
	case IconLow:
		return "audio-volume-low"
	case IconMedium:
		return "audio-volume-medium"
	case IconHigh:
		return "audio-volume-high"
	default:
		return "audio-volume-muted"
	}
}

// AllIcons lists every icon, in bucket order.
func AllIcons() []Icon {
	return []Icon{IconMuted, IconLow, IconMedium, IconHigh}
}

// RenderText formats a volume state for the bar.
func RenderText(v VolumeState, emoji bool) string {
	if emoji {
		return IconFor(v).Emoji()
	}
	if v.Muted {
		return "M"
	}
	return fmt.Sprintf("%d%%", int(math.Round(v.Level)))
}
