package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNextDefault(t *testing.T) {
	a := Sink{ID: 1, DisplayName: "A"}
	b := Sink{ID: 2, DisplayName: "B"}
	c := Sink{ID: 3, DisplayName: "C"}
	def := func(s Sink) Sink { s.IsDefault = true; return s }

	tests := []struct {
		name   string
		sinks  []Sink
		want   int
		wantOK bool
	}{
		{"first to second", []Sink{def(a), b, c}, 2, true},
		{"middle to last", []Sink{a, def(b), c}, 3, true},
		{"last wraps", []Sink{a, b, def(c)}, 1, true},
		{"single self wraps", []Sink{def(a)}, 1, true},
		{"first flagged wins", []Sink{def(a), def(b), c}, 2, true},
		{"no default", []Sink{a, b, c}, 0, false},
		{"empty", nil, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextDefault(tc.sinks)
			if ok != tc.wantOK {
				t.Fatalf("got ok=%t, want %t", ok, tc.wantOK)
			}
			if ok && got.ID != tc.want {
				t.Fatalf("got sink %d, want %d", got.ID, tc.want)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		vol   VolumeState
		emoji bool
		want  string
	}{
		{VolumeState{Level: 37}, false, "37%"},
		{VolumeState{Level: 37, Muted: true}, false, "M"},
		{VolumeState{Level: 99.6}, false, "100%"},
		{VolumeState{Level: 50, Muted: true}, true, "\U0001f507"},
		{VolumeState{Level: 0}, true, "\U0001f507"},
		{VolumeState{Level: 30}, true, "\U0001f508"},
		{VolumeState{Level: 31}, true, "\U0001f509"},
		{VolumeState{Level: 79}, true, "\U0001f509"},
		{VolumeState{Level: 80}, true, "\U0001f50a"},
	}
	for _, tc := range tests {
		if got := RenderText(tc.vol, tc.emoji); got != tc.want {
			t.Errorf("RenderText(%+v, %t) = %q, want %q", tc.vol, tc.emoji, got, tc.want)
		}
	}
}

func TestTokens(t *testing.T) {
	if got := DefaultSink.Token(); got != "@DEFAULT_AUDIO_SINK@" {
		t.Errorf("default sink token %q", got)
	}
	if got := SinkRef(42).Token(); got != "42" {
		t.Errorf("sink token %q", got)
	}
	for state, want := range map[MuteState]string{Muted: "1", Unmuted: "0", ToggleMute: "toggle"} {
		if got := state.Token(); got != want {
			t.Errorf("mute %d token %q, want %q", state, got, want)
		}
	}
	for sign, want := range map[VolumeSign]string{Absolute: "", Increase: "+", Decrease: "-"} {
		if got := sign.Token(); got != want {
			t.Errorf("sign %d token %q, want %q", sign, got, want)
		}
	}
}

func TestParseButton(t *testing.T) {
	for in, want := range map[string]Button{
		"1": ButtonLeft, "left": ButtonLeft, "3": ButtonRight,
		"wheel-up": ButtonWheelUp, "5": ButtonWheelDown,
	} {
		got, err := ParseButton(in)
		if err != nil || got != want {
			t.Errorf("ParseButton(%q) = %d, %v", in, got, err)
		}
	}
	if _, err := ParseButton("6"); !errors.Is(err, ErrUnknownButton) {
		t.Errorf("ParseButton(6) error %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero step", func(s *Settings) { s.Step = 0 }},
		{"step above one", func(s *Settings) { s.Step = 2 }},
		{"zero limit", func(s *Settings) { s.Limit = 0 }},
		{"no executable", func(s *Settings) { s.Executable = "" }},
		{"fast poll", func(s *Settings) { s.PollInterval = time.Millisecond }},
		{"negative timeout", func(s *Settings) { s.CommandTimeout = -time.Second }},
		{"unknown command", func(s *Settings) { s.Clicks = map[Button]string{ButtonLeft: "explode"} }},
		{"unknown button", func(s *Settings) { s.Clicks = map[Button]string{9: CommandMute} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("got %v, want ErrInvalidSettings", err)
			}
		})
	}
}
