package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPlanned  ProjectStatus = "planned"
	ProjectActive   ProjectStatus = "active"
	ProjectOnHold   ProjectStatus = "on_hold"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPlanned, ProjectActive, ProjectOnHold, ProjectDone, ProjectArchived:
		return true
	}
	return false
}

// Project priorities, lowest to highest.
const (
	PriorityLow      = 1
	PriorityMedium   = 2
	PriorityHigh     = 3
	PriorityCritical = 4
)

// Project represents a project owning a tree of tasks
type Project struct {
	ID          uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid());not null"`
	Name        string        `json:"name" db:"name" gorm:"type:text;not null;unique"`
	Description string        `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	StartDate   *Date         `json:"start_date" db:"start_date" gorm:"type:date"`
	EndDate     *Date         `json:"end_date" db:"end_date" gorm:"type:date"`
	Status      ProjectStatus `json:"status" db:"status" gorm:"type:text;not null;default:'planned'"`
	Priority    int           `json:"priority" db:"priority" gorm:"not null;default:2"`
	OwnerID     *uuid.UUID    `json:"owner" db:"owner_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	Tasks []Task `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
