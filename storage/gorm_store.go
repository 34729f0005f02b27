package storage

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"backend/models"
)

// GormStore keeps the slots in a single database table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string) ([]byte, bool, error) {
	var slot models.StorageSlot
	err := s.db.First(&slot, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(slot.Value), true, nil
}

func (s *GormStore) Set(key string, value []byte) error {
	slot := models.StorageSlot{Key: key, Value: datatypes.JSON(value)}
	return s.db.Save(&slot).Error
}

func (s *GormStore) Remove(key string) error {
	return s.db.Delete(&models.StorageSlot{}, "key = ?", key).Error
}
