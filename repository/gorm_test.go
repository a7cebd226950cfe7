package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"meeting-room-backend/models"
)

func newMockStore(t *testing.T) (*GormReservationStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormReservationStore(db), mock
}

// Expectations are ordered, so this test pins the lock lifetime: GET_LOCK
// before BEGIN and RELEASE_LOCK after COMMIT. A lock released inside the
// transaction would free the room before its rows become visible, letting a
// concurrent admission pass its overlap check against a state it cannot see.
func TestWithRoomLockHeldAcrossCommit(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")).
		WithArgs("room_admission:1", lockWaitSeconds).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK(?, ?)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `reservations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")).
		WithArgs("room_admission:1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	start := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	err := store.WithRoomLock(context.Background(), 1, func(tx ReservationTx) error {
		conflict, err := tx.FindOverlapping(1, start, start.Add(time.Hour), 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return errors.New("unexpected conflict")
		}
		return tx.Insert(&models.Reservation{
			RoomID:    1,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRoomLockReleasedAfterRollback(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")).
		WithArgs("room_admission:2", lockWaitSeconds).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK(?, ?)"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectExec(regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")).
		WithArgs("room_admission:2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	boom := errors.New("boom")
	err := store.WithRoomLock(context.Background(), 2, func(tx ReservationTx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithRoomLockUnavailable(t *testing.T) {
	store, mock := newMockStore(t)

	// GET_LOCK timing out returns 0; nothing was acquired, so no transaction
	// starts and nothing is released.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")).
		WithArgs("room_admission:3", lockWaitSeconds).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK(?, ?)"}).AddRow(0))

	err := store.WithRoomLock(context.Background(), 3, func(tx ReservationTx) error {
		t.Fatal("admission must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
