// internal/interface/repository/designation_repo.go
package repository

import (
	"context"
	"time"

	"tourism-cert-service/internal/domain/entity"
	"tourism-cert-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDesignationRepository implements the DesignationRepository interface
type GormDesignationRepository struct {
	db *gorm.DB
}

// NewGormDesignationRepository creates a new GORM designation repository
func NewGormDesignationRepository(db *gorm.DB) repository.DesignationRepository {
	return &GormDesignationRepository{
		db: db,
	}
}

// Designations GORM model for database mapping
type Designations struct {
	ID             uint           `gorm:"primaryKey"`
	Code           string         `gorm:"column:code;unique"`
	Name           string         `gorm:"column:name"`
	TrainingExempt bool           `gorm:"column:training_exempt"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName overrides the default table name
func (Designations) TableName() string {
	return "m_designations"
}

// GetByCode finds a designation by code
func (r *GormDesignationRepository) GetByCode(ctx context.Context, code string) (*entity.Designation, error) {
	var designation Designations
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&designation)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Designation{
		ID:             designation.ID,
		Code:           designation.Code,
		Name:           designation.Name,
		TrainingExempt: designation.TrainingExempt,
		CreatedAt:      designation.CreatedAt,
		UpdatedAt:      designation.UpdatedAt,
		DeletedAt:      designation.DeletedAt,
	}, nil
}
