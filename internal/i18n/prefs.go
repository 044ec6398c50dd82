package i18n

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preferences is the durable client-side key/value storage the language
// choice is persisted in.
type Preferences interface {
	Load(key string) (string, bool)
	Save(key, value string) error
}

// MemoryPreferences keeps preferences for the lifetime of the value.
type MemoryPreferences struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{values: map[string]string{}}
}

func (p *MemoryPreferences) Load(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *MemoryPreferences) Save(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
	return nil
}

// FilePreferences persists preferences as a flat YAML map in one file. A
// missing or unreadable file behaves like an empty one.
type FilePreferences struct {
	path string
}

func NewFilePreferences(path string) *FilePreferences {
	return &FilePreferences{path: path}
}

// DefaultPreferencesPath returns vita/preferences.yaml under the user config dir.
func DefaultPreferencesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "vita", "preferences.yaml"), nil
}

func (p *FilePreferences) Path() string { return p.path }

func (p *FilePreferences) Load(key string) (string, bool) {
	values, err := p.read()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (p *FilePreferences) Save(key, value string) error {
	values, err := p.read()
	if err != nil {
		values = map[string]string{}
	}
	values[key] = value

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

func (p *FilePreferences) read() (map[string]string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
