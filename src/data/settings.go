package data

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Setting represents a configuration setting stored in the database
type Setting struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:64;uniqueIndex;not null"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null;default:1"`
}

func (Setting) TableName() string { return "settings" }

// Settings caches named configuration values loaded from the database or a YAML file.
type Settings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewSettings returns a cache seeded with values (which may be nil).
func NewSettings(values map[string]string) *Settings {
	s := &Settings{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// LoadDB replaces the cache with the active rows of the settings table.
func (s *Settings) LoadDB(db *gorm.DB) error {
	var rows []Setting
	if err := db.Where("active = ?", 1).Find(&rows).Error; err != nil {
		return fmt.Errorf("settings: load: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Name] = r.Value
	}
	s.replace(values)
	return nil
}

// LoadYAML replaces the cache with the top-level scalars of a YAML document.
func (s *Settings) LoadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("settings: read %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("settings: parse %s: %w", path, err)
	}

	values := make(map[string]string, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case nil:
			continue
		case []any:
			parts := make([]string, 0, len(val))
			for _, p := range val {
				parts = append(parts, fmt.Sprint(p))
			}
			values[k] = strings.Join(parts, ",")
		default:
			values[k] = fmt.Sprint(val)
		}
	}
	s.replace(values)
	return nil
}

// Get retrieves a setting value, or "" when unset.
func (s *Settings) Get(name string) string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[name]
}

func (s *Settings) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Settings) replace(values map[string]string) {
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}
