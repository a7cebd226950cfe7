package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"meeting-room-backend/models"
)

// RoomService owns the room inventory and its blackout periods.
type RoomService struct {
	DB  *gorm.DB
	log *logrus.Logger
}

func NewRoomService(db *gorm.DB, log *logrus.Logger) *RoomService {
	return &RoomService{DB: db, log: log}
}

type RoomInput struct {
	Name        string
	Capacity    int
	Description string
	Amenities   map[string]bool
}

func (s *RoomService) CreateRoom(ctx context.Context, in RoomInput) (*models.Room, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationRejection("missing_name", "room name is required")
	}
	if in.Capacity <= 0 {
		return nil, validationRejection("invalid_capacity", "capacity must be a positive integer")
	}

	amenities, err := marshalAmenities(in.Amenities)
	if err != nil {
		return nil, validationRejection("invalid_amenities", "amenities could not be encoded")
	}

	room := models.Room{
		Name:        name,
		Capacity:    in.Capacity,
		Description: in.Description,
		Amenities:   amenities,
	}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, conflictRejection("room_name_taken",
				fmt.Sprintf("a room named %q already exists", name))
		}
		return nil, fmt.Errorf("%w: create room: %v", ErrPersistence, err)
	}

	s.log.WithFields(logrus.Fields{"room_id": room.ID, "name": room.Name}).Info("room created")
	return &room, nil
}

func (s *RoomService) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", ErrPersistence, err)
	}
	return rooms, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load room %d: %v", ErrPersistence, id, err)
	}
	return &room, nil
}

type RoomUpdateInput struct {
	Name        *string
	Capacity    *int
	Description *string
	Amenities   map[string]bool
}

func (s *RoomService) UpdateRoom(ctx context.Context, id uint, in RoomUpdateInput) (*models.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationRejection("missing_name", "room name is required")
		}
		room.Name = name
	}
	if in.Capacity != nil {
		if *in.Capacity <= 0 {
			return nil, validationRejection("invalid_capacity", "capacity must be a positive integer")
		}
		room.Capacity = *in.Capacity
	}
	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Amenities != nil {
		amenities, err := marshalAmenities(in.Amenities)
		if err != nil {
			return nil, validationRejection("invalid_amenities", "amenities could not be encoded")
		}
		room.Amenities = amenities
	}

	if err := s.DB.WithContext(ctx).Save(room).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, conflictRejection("room_name_taken",
				fmt.Sprintf("a room named %q already exists", room.Name))
		}
		return nil, fmt.Errorf("%w: update room %d: %v", ErrPersistence, id, err)
	}
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete room %d: %v", ErrPersistence, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: room %d", ErrNotFound, id)
	}
	// Blackouts belong to the room; drop them with it.
	if err := s.DB.WithContext(ctx).Where("room_id = ?", id).Delete(&models.BlackoutPeriod{}).Error; err != nil {
		s.log.WithError(err).WithField("room_id", id).Warn("could not remove blackouts for deleted room")
	}
	return nil
}

type BlackoutInput struct {
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}

func (s *RoomService) CreateBlackout(ctx context.Context, roomID uint, in BlackoutInput) (*models.BlackoutPeriod, error) {
	if !in.EndTime.After(in.StartTime) {
		return nil, validationRejection(ReasonEndBeforeStart, "blackout end must be after its start")
	}
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	blackout := models.BlackoutPeriod{
		RoomID:    roomID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Reason:    strings.TrimSpace(in.Reason),
	}
	if err := s.DB.WithContext(ctx).Create(&blackout).Error; err != nil {
		return nil, fmt.Errorf("%w: create blackout: %v", ErrPersistence, err)
	}

	s.log.WithFields(logrus.Fields{"room_id": roomID, "blackout_id": blackout.ID}).Info("blackout period created")
	return &blackout, nil
}

func (s *RoomService) ListBlackouts(ctx context.Context, roomID uint) ([]models.BlackoutPeriod, error) {
	if _, err := s.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	var blackouts []models.BlackoutPeriod
	err := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("start_time").
		Find(&blackouts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list blackouts for room %d: %v", ErrPersistence, roomID, err)
	}
	return blackouts, nil
}

func (s *RoomService) DeleteBlackout(ctx context.Context, roomID, blackoutID uint) error {
	res := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&models.BlackoutPeriod{}, blackoutID)
	if res.Error != nil {
		return fmt.Errorf("%w: delete blackout %d: %v", ErrPersistence, blackoutID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: blackout %d", ErrNotFound, blackoutID)
	}
	return nil
}

func marshalAmenities(amenities map[string]bool) (datatypes.JSON, error) {
	if len(amenities) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(amenities)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
