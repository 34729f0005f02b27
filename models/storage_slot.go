package models

import (
	"time"

	"gorm.io/datatypes"
)

// StorageSlot is one durable key-value slot (userProfile, dailyData). Slots
// are overwritten wholesale on every mutation.
type StorageSlot struct {
	Key       string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}
