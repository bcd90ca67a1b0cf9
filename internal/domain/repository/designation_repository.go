package repository

import (
	"context"

	"tourism-cert-service/internal/domain/entity"
)

// DesignationRepository defines the interface for designation reference data.
type DesignationRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Designation, error)
}
