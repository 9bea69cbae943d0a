package domain

import "context"

// SettingsRepository is a secondary port that defines how to persist widget settings.
type SettingsRepository interface {
	Load() (Settings, error)
	Save(settings Settings) error
}

// AudioController is a secondary port to the audio service.
// Every call is a blocking request against the service; nothing is cached.
type AudioController interface {
	SetVolume(ctx context.Context, value float64, sign VolumeSign, sink SinkRef) error
	SetMute(ctx context.Context, state MuteState, sink SinkRef) error
	GetVolume(ctx context.Context, sink SinkRef) (VolumeState, error)
	SetDefault(ctx context.Context, sink SinkRef) error
	ListSinks(ctx context.Context) ([]Sink, error)
}
