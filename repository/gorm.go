package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"meeting-room-backend/models"
)

// How long an admission waits for a contended room before giving up.
const lockWaitSeconds = 5

// GormReservationStore implements ReservationStore on MySQL. Per-room
// serialization uses a named advisory lock (GET_LOCK) held on a dedicated
// connection for the whole admission, transaction commit included. Taking the
// lock inside the transaction would release it when the closure returns but
// before COMMIT, leaving a window where a second admission could pass its
// overlap check against rows it cannot see yet.
type GormReservationStore struct {
	db *gorm.DB
}

func NewGormReservationStore(db *gorm.DB) *GormReservationStore {
	return &GormReservationStore{db: db}
}

func admissionLockName(roomID uint) string {
	return fmt.Sprintf("room_admission:%d", roomID)
}

func (s *GormReservationStore) WithRoomLock(ctx context.Context, roomID uint, fn func(tx ReservationTx) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		name := admissionLockName(roomID)

		var acquired int
		if err := conn.Raw("SELECT GET_LOCK(?, ?)", name, lockWaitSeconds).Scan(&acquired).Error; err != nil {
			return fmt.Errorf("acquire room lock: %w", err)
		}
		if acquired != 1 {
			return ErrLockUnavailable
		}
		defer func() {
			// Released on the same connection, after commit or rollback.
			// Errors here leave the lock to die with the connection, which
			// MySQL handles for us.
			_ = conn.Exec("SELECT RELEASE_LOCK(?)", name).Error
		}()

		return conn.Transaction(func(tx *gorm.DB) error {
			return fn(&gormReservationTx{tx: tx})
		})
	})
}

func (s *GormReservationStore) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("load reservation %d: %w", id, err)
	}
	return &r, nil
}

func (s *GormReservationStore) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.RoomID != 0 {
		q = q.Where("room_id = ?", filter.RoomID)
	}

	var out []models.Reservation
	if err := q.Order("start_time").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return out, nil
}

func (s *GormReservationStore) ListForRoom(ctx context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND start_time < ? AND end_time > ?", roomID, to, from).
		Order("start_time").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations for room %d: %w", roomID, err)
	}
	return out, nil
}

type gormReservationTx struct {
	tx *gorm.DB
}

func (t *gormReservationTx) FindOverlapping(roomID uint, start, end time.Time, excludeID uint) (*models.Reservation, error) {
	q := t.tx.Where("room_id = ? AND start_time < ? AND end_time > ?", roomID, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var r models.Reservation
	if err := q.First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("overlap query for room %d: %w", roomID, err)
	}
	return &r, nil
}

func (t *gormReservationTx) Insert(r *models.Reservation) error {
	if err := t.tx.Create(r).Error; err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

func (t *gormReservationTx) Update(r *models.Reservation) error {
	if err := t.tx.Save(r).Error; err != nil {
		return fmt.Errorf("update reservation %d: %w", r.ID, err)
	}
	return nil
}

func (t *gormReservationTx) Delete(id uint) error {
	res := t.tx.Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete reservation %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}
