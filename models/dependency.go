package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DependencyType is the scheduling relation between the two endpoints.
// Semantic only: no dates are derived from it.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

func (t DependencyType) IsValid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Dependency is a directed scheduling edge between two tasks of the same
// project. The edge set of a project must stay acyclic; (predecessor,
// successor, type) is unique while the same pair may carry edges of
// different types.
type Dependency struct {
	ID            uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:(gen_random_uuid());not null"`
	PredecessorID uuid.UUID      `json:"predecessor" db:"predecessor_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_dependency_edge,priority:1"`
	SuccessorID   uuid.UUID      `json:"successor" db:"successor_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_dependency_edge,priority:2"`
	Type          DependencyType `json:"type" db:"type" gorm:"type:text;not null;default:'FS';uniqueIndex:idx_dependency_edge,priority:3"`
	LagDays       int            `json:"lag_days" db:"lag_days" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`

	Predecessor *Task `json:"-" gorm:"foreignKey:PredecessorID;references:ID;constraint:OnDelete:RESTRICT"`
	Successor   *Task `json:"-" gorm:"foreignKey:SuccessorID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Dependency) TableName() string {
	return "dependencies"
}

func (d *Dependency) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Type == "" {
		d.Type = FinishToStart
	}
	return nil
}
