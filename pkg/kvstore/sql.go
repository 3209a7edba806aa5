package kvstore

import (
	"context"
	"errors"

	"github.com/mabrurgoods/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores entries in the storage_entries table (sqlite or postgres through gorm).
type SQL struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	entry := models.StorageEntry{Key: key, Value: value}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).
		Error
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("entry_key = ?", key).
		Delete(&models.StorageEntry{}).
		Error
}
