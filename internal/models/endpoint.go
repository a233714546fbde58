package models

import "time"

// Endpoint represents a feed URL polled by the endpoint worker
type Endpoint struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	URL       string    `json:"url" gorm:"uniqueIndex;not null"`
	Accept    string    `json:"accept" gorm:"not null;default:'application/xml'"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for Endpoint Model
func (Endpoint) TableName() string {
	return "endpoints"
}
