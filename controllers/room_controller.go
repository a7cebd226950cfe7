package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"meeting-room-backend/services"
	"meeting-room-backend/utils"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

type CreateRoomPayload struct {
	Name        string          `json:"name" binding:"required"`
	Capacity    int             `json:"capacity" binding:"required"`
	Description string          `json:"description"`
	Amenities   map[string]bool `json:"amenities"`
}

type UpdateRoomPayload struct {
	Name        *string         `json:"name"`
	Capacity    *int            `json:"capacity"`
	Description *string         `json:"description"`
	Amenities   map[string]bool `json:"amenities"`
}

type BlackoutPayload struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason"`
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var payload CreateRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	room, err := rc.Rooms.CreateRoom(c.Request.Context(), services.RoomInput{
		Name:        payload.Name,
		Capacity:    payload.Capacity,
		Description: payload.Description,
		Amenities:   payload.Amenities,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (rc *RoomController) ListRooms(c *gin.Context) {
	rooms, err := rc.Rooms.ListRooms(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	room, err := rc.Rooms.GetRoom(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var payload UpdateRoomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	room, err := rc.Rooms.UpdateRoom(c.Request.Context(), id, services.RoomUpdateInput{
		Name:        payload.Name,
		Capacity:    payload.Capacity,
		Description: payload.Description,
		Amenities:   payload.Amenities,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	if err := rc.Rooms.DeleteRoom(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

func (rc *RoomController) CreateBlackout(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	var payload BlackoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	blackout, err := rc.Rooms.CreateBlackout(c.Request.Context(), id, services.BlackoutInput{
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
		Reason:    payload.Reason,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, blackout)
}

func (rc *RoomController) ListBlackouts(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	blackouts, err := rc.Rooms.ListBlackouts(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, blackouts)
}

func (rc *RoomController) DeleteBlackout(c *gin.Context) {
	id, ok := roomID(c)
	if !ok {
		return
	}
	blackoutID, err := strconv.ParseUint(c.Param("blackout_id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid blackout id")
		return
	}
	if err := rc.Rooms.DeleteBlackout(c.Request.Context(), id, uint(blackoutID)); err != nil {
		writeServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": blackoutID})
}

func roomID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return 0, false
	}
	return uint(id), true
}
