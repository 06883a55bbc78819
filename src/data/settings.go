package data

import (
	"sync"

	"gorm.io/gorm"
)

// Setting is a row of the settings table. Values override environment config.
type Setting struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}

func (Setting) TableName() string { return "settings" }

var (
	settingsCache map[string]string
	settingsMu    sync.RWMutex
)

// LoadSettings loads all settings from the database into cache
func LoadSettings(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return err
	}

	var settings []Setting
	if err := db.Find(&settings).Error; err != nil {
		return err
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Name] = s.Value
	}
	SetSettings(values)
	return nil
}

// SetSettings replaces the cached settings.
func SetSettings(values map[string]string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	settingsCache = make(map[string]string, len(values))
	for k, v := range values {
		settingsCache[k] = v
	}
}

// GetSetting retrieves a setting value from cache (call LoadSettings first)
func GetSetting(name string) string {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsCache[name]
}
