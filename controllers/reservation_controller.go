package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"meeting-room-backend/middleware"
	"meeting-room-backend/models"
	"meeting-room-backend/repository"
	"meeting-room-backend/services"
	"meeting-room-backend/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: svc}
}

type CreateReservationPayload struct {
	RoomID          uint      `json:"room_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required"`
	NumAttendees    int       `json:"num_attendees"`
	Purpose         string    `json:"purpose"`
	Description     string    `json:"description"`
	Attendees       []string  `json:"attendees"`
	Recurrence      string    `json:"recurrence"`
	Occurrences     int       `json:"occurrences"`
}

type UpdateReservationPayload struct {
	RoomID          *uint      `json:"room_id"`
	StartTime       *time.Time `json:"start_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	NumAttendees    *int       `json:"num_attendees"`
	Purpose         *string    `json:"purpose"`
	Description     *string    `json:"description"`
}

// Create books a room, expanding recurring requests into a series that commits
// atomically.
func (rc *ReservationController) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	var payload CreateReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := rc.Reservations.Create(c.Request.Context(), identity, middleware.TokenFrom(c), services.CreateReservationInput{
		RoomID:          payload.RoomID,
		StartTime:       payload.StartTime,
		DurationMinutes: payload.DurationMinutes,
		NumAttendees:    payload.NumAttendees,
		Purpose:         payload.Purpose,
		Description:     payload.Description,
		Attendees:       payload.Attendees,
		Recurrence:      payload.Recurrence,
		Occurrences:     payload.Occurrences,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, created)
}

// List returns reservations. Members see their own unless they scope the
// query to a room; admins may filter by any user.
func (rc *ReservationController) List(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization required")
		return
	}

	var filter repository.ReservationFilter
	if raw := c.Query("room_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid room_id filter")
			return
		}
		filter.RoomID = uint(id)
	}
	if raw := c.Query("user_id"); raw != "" && identity.Role == models.RoleAdmin {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid user_id filter")
			return
		}
		filter.UserID = uint(id)
	}
	if identity.Role != models.RoleAdmin && filter.RoomID == 0 {
		filter.UserID = identity.UserID
	}

	out, err := rc.Reservations.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (rc *ReservationController) Get(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	r, err := rc.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if r.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, "insufficient permissions")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, r)
}

func (rc *ReservationController) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	var payload UpdateReservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := rc.Reservations.Update(c.Request.Context(), identity, middleware.TokenFrom(c), id, services.UpdateReservationInput{
		RoomID:          payload.RoomID,
		StartTime:       payload.StartTime,
		DurationMinutes: payload.DurationMinutes,
		NumAttendees:    payload.NumAttendees,
		Purpose:         payload.Purpose,
		Description:     payload.Description,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization required")
		return
	}
	id, ok := reservationID(c)
	if !ok {
		return
	}
	if err := rc.Reservations.Cancel(c.Request.Context(), identity, id); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"cancelled": id})
}

// CheckAvailability answers whether a window is currently free. The answer is
// advisory; only a create attempt reserves anything.
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	roomIDRaw := c.Query("room_id")
	roomID, err := strconv.ParseUint(roomIDRaw, 10, 32)
	if err != nil || roomID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "room_id query parameter is required")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "start_time must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "end_time must be RFC3339")
		return
	}

	available, conflict, err := rc.Reservations.CheckAvailability(c.Request.Context(), uint(roomID), start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	body := gin.H{"available": available}
	if conflict != nil {
		body["conflict"] = gin.H{
			"start_time": conflict.StartTime,
			"end_time":   conflict.EndTime,
		}
	}
	utils.JSONSuccess(c, http.StatusOK, body)
}

func reservationID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation id")
		return 0, false
	}
	return uint(id), true
}
