package models

import (
	"time"
)

// Adventurer status values. An adventurer is `work` exactly while it holds an
// active assignment; the assignment engine and the sweeper are the only
// writers of this field.
const (
	AdventurerAvailable = "available"
	AdventurerWork      = "work"
	AdventurerRest      = "rest"
)

type Adventurer struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FullName        string    `json:"full_name" gorm:"not null"`
	ExperienceLevel float64   `json:"experience_level" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null;default:'available'"`
	SpecialityID    uint      `json:"speciality_id" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Speciality *Speciality `json:"speciality,omitempty" gorm:"foreignKey:SpecialityID"`
}

// Speciality is static reference data; the API only ever reads it.
type Speciality struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
