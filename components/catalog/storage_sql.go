package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobRecord is the row shape of SQLBlobStore.
type BlobRecord struct {
	Key       string `gorm:"column:blob_key;primaryKey;size:191"`
	Data      []byte
	UpdatedAt time.Time
}

// TableName pins the table name.
func (BlobRecord) TableName() string {
	return "catalog_blobs"
}

// SQLBlobStore keeps blobs in a key/value table through gorm.
type SQLBlobStore struct {
	db *gorm.DB
}

// NewSQLBlobStore migrates the blob table and wraps db.
func NewSQLBlobStore(db *gorm.DB) (*SQLBlobStore, error) {
	if err := db.AutoMigrate(&BlobRecord{}); err != nil {
		return nil, fmt.Errorf("catalog: migrate blob table: %w", err)
	}
	return &SQLBlobStore{db: db}, nil
}

func (s *SQLBlobStore) Load(ctx context.Context, key string) ([]byte, error) {
	var rec BlobRecord
	if err := s.db.WithContext(ctx).First(&rec, "blob_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("catalog: load blob %s: %w", key, err)
	}
	return rec.Data, nil
}

func (s *SQLBlobStore) Save(ctx context.Context, key string, data []byte) error {
	rec := BlobRecord{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("catalog: save blob %s: %w", key, err)
	}
	return nil
}
