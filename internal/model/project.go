package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is owned by exactly one user. Tasks reference it by ProjectID.
type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:1000"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive    bool      `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
