package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Content   string    `gorm:"size:1000;not null"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	IsEdited  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// MarkAsEdited flips the edited flag. It is never cleared.
func (c *Comment) MarkAsEdited() {
	c.IsEdited = true
}

// IsRecent reports whether the comment was created within the last day.
func (c *Comment) IsRecent(now time.Time) bool {
	return !c.CreatedAt.IsZero() && c.CreatedAt.After(now.Add(-24*time.Hour))
}
