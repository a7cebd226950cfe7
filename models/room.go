package models

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:name;size:100;uniqueIndex" json:"name"`
	Capacity    int    `gorm:"column:capacity" json:"capacity"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`

	// Named boolean amenities, e.g. {"projector": true, "whiteboard": false}.
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
