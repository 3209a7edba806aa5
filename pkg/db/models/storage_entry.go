package models

import "time"

// StorageEntry is one namespaced blob of guest local storage.
type StorageEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
