package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"

	"wpvolume/internal/domain"
)

// FileRepository implements domain.SettingsRepository using a JSON file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based settings repository.
func NewFileRepository(path string) (domain.SettingsRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// persistedData represents the JSON structure on disk.
// Pointers distinguish "absent" from zero so missing keys keep defaults.
// Clicks is written even when empty: {} unbinds every button, while a
// missing key or null restores the default bindings.
type persistedData struct {
	Step                  *float64          `json:"step,omitempty"`
	Limit                 *float64          `json:"limit,omitempty"`
	Executable            string            `json:"executable,omitempty"`
	Emoji                 *bool             `json:"emoji,omitempty"`
	ThemePath             string            `json:"themePath,omitempty"`
	Clicks                map[string]string `json:"clicks"`
	PollIntervalMillis    *int64            `json:"pollIntervalMs,omitempty"`
	CommandTimeoutSeconds *float64          `json:"commandTimeoutSeconds,omitempty"`
}

// Load reads the settings from disk, filling gaps with defaults.
func (f *FileRepository) Load() (domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	settings := domain.DefaultSettings()
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return domain.Settings{}, fmt.Errorf("read config: %w", err)
	}

	var persisted persistedData
	if err := json.Unmarshal(data, &persisted); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if persisted.Step != nil {
		settings.Step = *persisted.Step
	}
	if persisted.Limit != nil {
		settings.Limit = *persisted.Limit
	}
	if persisted.Executable != "" {
		settings.Executable = persisted.Executable
	}
	if persisted.Emoji != nil {
		settings.Emoji = *persisted.Emoji
	}
	settings.ThemePath = persisted.ThemePath
	if persisted.Clicks != nil {
		clicks := make(map[domain.Button]string, len(persisted.Clicks))
		for k, v := range persisted.Clicks {
			b, err := domain.ParseButton(k)
			if err != nil {
				return domain.Settings{}, fmt.Errorf("config clicks %q: %w", k, err)
			}
			clicks[b] = v
		}
		settings.Clicks = clicks
	}
	if persisted.PollIntervalMillis != nil {
		settings.PollInterval = time.Duration(*persisted.PollIntervalMillis) * time.Millisecond
	}
	if persisted.CommandTimeoutSeconds != nil {
		settings.CommandTimeout = time.Duration(*persisted.CommandTimeoutSeconds * float64(time.Second))
	}

	return settings, nil
}

// Save persists the settings to disk.
func (f *FileRepository) Save(settings domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	pollMillis := settings.PollInterval.Milliseconds()
	timeoutSeconds := settings.CommandTimeout.Seconds()
	persisted := persistedData{
		Step:                  &settings.Step,
		Limit:                 &settings.Limit,
		Executable:            settings.Executable,
		Emoji:                 &settings.Emoji,
		ThemePath:             settings.ThemePath,
		PollIntervalMillis:    &pollMillis,
		CommandTimeoutSeconds: &timeoutSeconds,
	}
	if settings.Clicks != nil {
		persisted.Clicks = make(map[string]string, len(settings.Clicks))
		for b, name := range settings.Clicks {
			persisted.Clicks[strconv.Itoa(int(b))] = name
		}
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// DefaultPath returns the settings path under the XDG config directory.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "wpvolume", "config.json")
}
