package models

import "time"

// BlackoutPeriod marks a room unavailable regardless of reservation state.
// Created and deleted by room administrators; the reservation service only
// ever reads these through the room-service HTTP API.
type BlackoutPeriod struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"column:room_id;index" json:"room_id"`
	StartTime time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime   time.Time `gorm:"column:end_time" json:"end_time"`
	Reason    string    `gorm:"column:reason;size:255" json:"reason,omitempty"`
}
