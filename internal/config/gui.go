package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ClientSettings persists the optional GUI dashboard's client form
// state between runs.
type ClientSettings struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	LastFile     string `json:"last_file"`
	OutputPath   string `json:"output_path"`
	Reliable     string `json:"reliable"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// ServerSettings persists the optional GUI dashboard's server form
// state between runs.
type ServerSettings struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Reliable     string `json:"reliable"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// DefaultClientSettings returns sensible client form defaults.
func DefaultClientSettings() *ClientSettings {
	return &ClientSettings{
		Host:         "127.0.0.1",
		Port:         "19000",
		LastFile:     "",
		OutputPath:   "",
		Reliable:     string(GoBackN),
		WindowWidth:  720,
		WindowHeight: 560,
	}
}

// DefaultServerSettings returns sensible server form defaults.
func DefaultServerSettings() *ServerSettings {
	return &ServerSettings{
		Host:         "127.0.0.1",
		Port:         "19000",
		Reliable:     string(GoBackN),
		WindowWidth:  640,
		WindowHeight: 480,
	}
}

func configPath(filename string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".drtp")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// LoadClientSettings loads saved client settings, falling back to
// defaults if none are saved yet or the file is unreadable.
func LoadClientSettings() (*ClientSettings, error) {
	path, err := configPath("client.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultClientSettings(), nil
	}
	var s ClientSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultClientSettings(), nil
	}
	return &s, nil
}

// SaveClientSettings persists client settings to disk.
func SaveClientSettings(s *ClientSettings) error {
	path, err := configPath("client.json")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadServerSettings loads saved server settings, falling back to
// defaults if none are saved yet or the file is unreadable.
func LoadServerSettings() (*ServerSettings, error) {
	path, err := configPath("server.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultServerSettings(), nil
	}
	var s ServerSettings
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultServerSettings(), nil
	}
	return &s, nil
}

// SaveServerSettings persists server settings to disk.
func SaveServerSettings(s *ServerSettings) error {
	path, err := configPath("server.json")
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
