package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reservation holds one concrete occurrence. Recurring requests expand into
// several rows sharing a SeriesID so a whole series can be traced back to the
// request that created it. RoomID and UserID reference the room and user
// services by identifier only; the services are deliberately decoupled and no
// foreign keys cross the service boundary.
type Reservation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReferenceCode string    `gorm:"column:reference_code;size:64;index" json:"reference_code"`
	SeriesID      string    `gorm:"column:series_id;size:64;index" json:"series_id,omitempty"`
	UserID        uint      `gorm:"column:user_id;index" json:"user_id"`
	RoomID        uint      `gorm:"column:room_id;index" json:"room_id"`
	StartTime     time.Time `gorm:"column:start_time;index" json:"start_time"`
	EndTime       time.Time `gorm:"column:end_time" json:"end_time"`
	Purpose       string    `gorm:"column:purpose;size:255" json:"purpose,omitempty"`
	Description   string    `gorm:"column:description;type:text" json:"description,omitempty"`
	NumAttendees  int       `gorm:"column:num_attendees;default:1" json:"num_attendees"`

	// Contact identifiers of the invited attendees.
	Attendees datatypes.JSON `gorm:"column:attendees" json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
