package scan

import (
	"context"

	"gorm.io/gorm"

	"leftys-backend/entities"
)

type (
	ScanRepository interface {
		CreateScan(ctx context.Context, record *entities.ScanRecord) error
		FindScansByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.ScanRecord, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScan(ctx context.Context, record *entities.ScanRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *scanRepository) FindScansByOwner(ctx context.Context, ownerID string, limit int) ([]*entities.ScanRecord, error) {
	var records []*entities.ScanRecord
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
