package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone, TaskBlocked:
		return true
	}
	return false
}

// Task represents a unit of work within a project. Tasks form a tree via
// ParentID; display order within a project is (sort_index, id).
type Task struct {
	ID             uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid());not null"`
	ProjectID      uuid.UUID  `json:"project" db:"project_id" gorm:"type:uuid;not null;index"`
	ParentID       *uuid.UUID `json:"parent" db:"parent_id" gorm:"type:uuid;index"`
	Title          string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description    string     `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	AssigneeID     *uuid.UUID `json:"assignee" db:"assignee_id" gorm:"type:uuid;index"`
	Status         TaskStatus `json:"status" db:"status" gorm:"type:text;not null;default:'todo'"`
	StartDate      *Date      `json:"start_date" db:"start_date" gorm:"type:date"`
	EndDate        *Date      `json:"end_date" db:"end_date" gorm:"type:date"`
	Progress       int        `json:"progress" db:"progress" gorm:"not null;default:0"`
	SortIndex      int        `json:"sort_index" db:"sort_index" gorm:"not null;default:0"`
	EstimatedHours *float64   `json:"estimated_hours" db:"estimated_hours" gorm:"type:numeric(7,2)"`
	ActualHours    *float64   `json:"actual_hours" db:"actual_hours" gorm:"type:numeric(7,2)"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	// Derived, never persisted: end_date - start_date in days, clamped at 0.
	DurationDays *int `json:"duration_days" gorm:"-"`

	Project *Project `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:RESTRICT"`
	Parent  *Task    `json:"-" gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TaskTodo
	}
	return nil
}

// AfterFind populates the derived duration so loaded tasks serialize it
// without a separate response type.
func (t *Task) AfterFind(tx *gorm.DB) error {
	t.DurationDays = t.durationDays()
	return nil
}

func (t *Task) durationDays() *int {
	if t.StartDate == nil || t.EndDate == nil {
		return nil
	}
	days := t.StartDate.DaysUntil(*t.EndDate)
	if days < 0 {
		days = 0
	}
	return &days
}

// ProgressFraction normalizes the stored 0-100 integer to [0.0, 1.0].
func (t *Task) ProgressFraction() float64 {
	return float64(t.Progress) / 100.0
}
