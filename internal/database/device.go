package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceItem is one stored key of one device.
type DeviceItem struct {
	ID        int       `gorm:"primaryKey"`
	DeviceID  string    `gorm:"size:64;not null;uniqueIndex:idx_device_key"`
	Key       string    `gorm:"size:64;not null;uniqueIndex:idx_device_key"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeviceStorage implements storage.Storage over the device_items table.
type DeviceStorage struct {
	db       *gorm.DB
	deviceID string
}

func (d *DeviceStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var item DeviceItem
	err := d.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", d.deviceID, key).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get device item %q: %w", key, err)
	}
	return item.Value, true, nil
}

func (d *DeviceStorage) SetItem(ctx context.Context, key, value string) error {
	item := DeviceItem{DeviceID: d.deviceID, Key: key, Value: value}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("set device item %q: %w", key, err)
	}
	return nil
}

func (d *DeviceStorage) RemoveItem(ctx context.Context, key string) error {
	err := d.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", d.deviceID, key).
		Delete(&DeviceItem{}).Error
	if err != nil {
		return fmt.Errorf("remove device item %q: %w", key, err)
	}
	return nil
}
