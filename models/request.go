package models

import (
	"time"
)

// Request status values. Transitions are client-driven through the update
// endpoint; the sweeper only ever deletes expired pending requests.
const (
	RequestPending  = "pending"
	RequestStarted  = "started"
	RequestFinished = "finished"
)

// RequestStatusValues returns the closed status set, for validation messages.
func RequestStatusValues() []string {
	return []string{RequestPending, RequestStarted, RequestFinished}
}

type Request struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"not null"`
	Description    string     `json:"description"`
	Bounty         int        `json:"bounty"`
	Status         string     `json:"status" gorm:"not null;default:'pending'"`
	ClientName     string     `json:"client_name"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	Duration       int        `json:"duration"`
	ExpirationDate time.Time  `json:"expiration_date" gorm:"not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Adventurers []Adventurer `json:"adventurers,omitempty" gorm:"many2many:request_adventurers;constraint:OnDelete:CASCADE"`
}

// RequestAdventurer is one active assignment. It is declared explicitly (and
// registered with SetupJoinTable) so the pivot table gets its composite
// primary key and cascade foreign keys, matching the relational schema.
type RequestAdventurer struct {
	RequestID    uint `json:"request_id" gorm:"primaryKey"`
	AdventurerID uint `json:"adventurer_id" gorm:"primaryKey"`
}
