package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-room-backend/models"
)

func TestBuildCalendarInvite(t *testing.T) {
	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	reservations := []models.Reservation{
		{
			ReferenceCode: "MR-AAAA1111",
			StartTime:     start,
			EndTime:       start.Add(time.Hour),
			Purpose:       "design review",
		},
		{
			ReferenceCode: "MR-BBBB2222",
			StartTime:     start.AddDate(0, 0, 7),
			EndTime:       start.AddDate(0, 0, 7).Add(time.Hour),
		},
	}

	invite, err := BuildCalendarInvite(reservations, "Boardroom", "bookings@example.com")
	require.NoError(t, err)

	body := string(invite)
	assert.Contains(t, body, "METHOD:REQUEST")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "MR-AAAA1111@meeting-room-backend")
	assert.Contains(t, body, "SUMMARY:design review")
	assert.Contains(t, body, "SUMMARY:Room booking MR-BBBB2222")
	assert.Contains(t, body, "LOCATION:Boardroom")
	assert.Contains(t, body, "mailto:bookings@example.com")
}

func TestBuildCalendarInviteEmpty(t *testing.T) {
	_, err := BuildCalendarInvite(nil, "Boardroom", "")
	assert.Error(t, err)
}
