package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title          string     `gorm:"size:200;not null"`
	Description    string     `gorm:"size:1000"`
	Status         TaskStatus `gorm:"type:varchar(32);not null;index"`
	Priority       Priority   `gorm:"type:varchar(16);not null"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssigneeID     *uuid.UUID `gorm:"type:uuid;index"`
	DueDate        *time.Time
	EstimatedHours *int
	ActualHours    *int
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsOverdue reports a past due date on any task that is not DONE.
// A CANCELLED task past its due date still counts as overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate) && t.Status != StatusDone
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusDone
}

func (t *Task) IsInProgress() bool {
	return t.Status.IsActiveWork()
}
