// Package config persists the user settings of the capture app.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppDirName is the directory under the user config dir.
	AppDirName = "memoir-capture"
	// FileName is the settings file inside AppDirName.
	FileName = "settings.json"
	// SettingsKey is the store key holding the Settings object.
	SettingsKey = "settings"

	DefaultShortcut      = "Command+Option+N"
	DefaultAppIdentifier = "com.memoir.quickcapture"
	DefaultBaseURL       = "http://localhost:8000"
	DefaultCapturePath   = "/memories"
	DefaultWindowWidth   = 420
	DefaultWindowHeight  = 66
)

// WindowSettings is the default size of the capture window.
type WindowSettings struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// APISettings locates the Memoir server captures are sent to.
type APISettings struct {
	BaseURL     string `json:"base_url"`
	CapturePath string `json:"capture_path"`
	// Offline keeps captures in the local journal only.
	Offline bool `json:"offline,omitempty"`
}

// Settings holds the user-editable configuration.
type Settings struct {
	Shortcut         string         `json:"shortcut"`
	AppIdentifier    string         `json:"app_identifier,omitempty"`
	Window           WindowSettings `json:"window"`
	API              APISettings    `json:"api"`
	JournalPath      string         `json:"journal_path,omitempty"`
	UseNotifications bool           `json:"use_notifications"`
	LogFile          string         `json:"log_file,omitempty"`
}

// DefaultSettings returns the settings used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Shortcut:      DefaultShortcut,
		AppIdentifier: DefaultAppIdentifier,
		Window: WindowSettings{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
		},
		API: APISettings{
			BaseURL:     DefaultBaseURL,
			CapturePath: DefaultCapturePath,
		},
		UseNotifications: true,
	}
}

// DefaultDir returns the settings directory under the user config dir.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName), nil
}

// DefaultPath returns the path of the settings file.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LoadSettings reads the settings from s. Missing or unreadable values fall
// back to DefaultSettings field by field.
func LoadSettings(s *Store) Settings {
	settings := DefaultSettings()

	raw, ok := s.Get(SettingsKey)
	if !ok {
		return settings
	}

	var stored Settings
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Printf("Warning: Stored settings are invalid, using defaults: %v", err)
		return settings
	}
	settings.merge(stored)

	// use_notifications defaults to true, so only an explicit key overrides it.
	var flags struct {
		UseNotifications *bool `json:"use_notifications"`
	}
	if err := json.Unmarshal(raw, &flags); err == nil && flags.UseNotifications != nil {
		settings.UseNotifications = *flags.UseNotifications
	}
	return settings
}

func (s *Settings) merge(stored Settings) {
	if v := strings.TrimSpace(stored.Shortcut); v != "" {
		s.Shortcut = v
	}
	if stored.AppIdentifier != "" {
		s.AppIdentifier = stored.AppIdentifier
	}
	if stored.Window.Width > 0 && stored.Window.Height > 0 {
		s.Window = stored.Window
	}
	if stored.API.BaseURL != "" {
		s.API.BaseURL = strings.TrimRight(stored.API.BaseURL, "/")
	}
	if stored.API.CapturePath != "" {
		s.API.CapturePath = stored.API.CapturePath
	}
	s.API.Offline = stored.API.Offline
	s.JournalPath = stored.JournalPath
	s.LogFile = stored.LogFile
}

// SaveSettings stores settings in s and writes the file.
func SaveSettings(s *Store, settings Settings) error {
	if err := s.Set(SettingsKey, settings); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// CreateDefault writes a settings file with DefaultSettings if path does not
// exist yet.
func CreateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking settings path '%s': %w", path, err)
	}

	log.Printf("Creating default settings file at: %s", path)

	s := &Store{path: path, values: make(map[string]json.RawMessage)}
	if err := SaveSettings(s, DefaultSettings()); err != nil {
		return fmt.Errorf("failed to write default settings file '%s': %w", path, err)
	}
	return nil
}

// CaptureURL joins the API base URL and capture path. It returns "" when
// captures stay local.
func (s Settings) CaptureURL() string {
	if s.API.Offline || s.API.BaseURL == "" {
		return ""
	}
	path := s.API.CapturePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(s.API.BaseURL, "/") + path
}
