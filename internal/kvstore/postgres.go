package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dom/weather-gate/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type record struct {
	Bucket string         `gorm:"primaryKey"`
	Key    string         `gorm:"primaryKey"`
	Value  datatypes.JSON `gorm:"not null"`
}

func (record) TableName() string {
	return "kv_records"
}

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}

	return db, nil
}

// GormStore keeps every record of a bucket as one row of kv_records.
type GormStore[V any] struct {
	db     *gorm.DB
	bucket string
}

func OpenGorm[V any](db *gorm.DB, bucket string) *GormStore[V] {
	return &GormStore[V]{db: db, bucket: bucket}
}

func (s *GormStore[V]) Load(ctx context.Context) (map[string]V, error) {
	var rows []record
	if err := s.db.WithContext(ctx).Where("bucket = ?", s.bucket).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: load bucket %s: %v", domain.ErrStorageIO, s.bucket, err)
	}

	records := make(map[string]V, len(rows))
	for _, row := range rows {
		var v V
		if err := json.Unmarshal(row.Value, &v); err != nil {
			return nil, fmt.Errorf("%w: decode %s/%s: %v", domain.ErrStorageIO, s.bucket, row.Key, err)
		}
		records[row.Key] = v
	}

	return records, nil
}

// Save replaces the bucket inside one transaction.
func (s *GormStore[V]) Save(ctx context.Context, records map[string]V) error {
	rows := make([]record, 0, len(records))
	for key, v := range records {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: encode %s/%s: %v", domain.ErrStorageIO, s.bucket, key, err)
		}
		rows = append(rows, record{Bucket: s.bucket, Key: key, Value: datatypes.JSON(data)})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bucket = ?", s.bucket).Delete(&record{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save bucket %s: %v", domain.ErrStorageIO, s.bucket, err)
	}

	return nil
}
