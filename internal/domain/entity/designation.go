package entity

import (
	"time"

	"gorm.io/gorm"
)

// Designation is reference data for a frontliner role. Roles marked
// TrainingExempt (owners, office staff) may be certified without an on-file
// training certificate; everyone else is expected to have one.
type Designation struct {
	ID             uint
	Code           string
	Name           string
	TrainingExempt bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt
}
