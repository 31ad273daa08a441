package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/repository"
)

func newReservationMock(t *testing.T) (*ReservationService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	svc := NewReservationService(
		database,
		repository.NewSpotRepository(database),
		repository.NewAvailabilityRepository(database),
		repository.NewBookingRepository(database),
		repository.NewUserRepository(database),
		nil, nil, nil,
	)
	return svc, mock
}

func hour(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func spotRows(partialAllowed, visible bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "supplier_id", "spot_number", "address", "description",
		"price_per_hour", "partial_allowed", "is_available", "created_at",
	}).AddRow(1, 2, "A-12", "Main St 5", "", 50.0, partialAllowed, visible, time.Now())
}

func windowRows(start, end time.Time, booked bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "spot_id", "start_time", "end_time", "is_booked", "booking_id", "created_at",
	}).AddRow(7, 1, start, end, booked, nil, time.Now())
}

func bookingRows(status string, customerID int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "customer_id", "spot_id", "window_id", "start_time", "end_time",
		"total_price", "status", "created_at", "updated_at",
	}).AddRow(5, "1A2B3C4D", customerID, 1, 7, hour(10), hour(12), 100.0, status, time.Now(), time.Now())
}

func TestCreateBookingExactMatch(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
		WillReturnRows(spotRows(false, true))
	mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
		WillReturnRows(windowRows(hour(10), hour(12), false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE spot_windows SET is_booked = TRUE").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), 3, 1, 7, hour(10), hour(12), 100.0, db.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, time.Now(), time.Now()))
	mock.ExpectExec("UPDATE spot_windows SET booking_id").WithArgs(5, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CreateBooking(entities.BookingRequest{
		CustomerID: 3, SpotID: 1, WindowID: 7,
		StartTime: hour(10), EndTime: hour(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.BookingID)
	assert.Equal(t, 7, result.WindowID)
	assert.Equal(t, 100.0, result.TotalPrice)
	assert.Equal(t, db.StatusPending, result.Status)
	assert.Empty(t, result.LeftoverWindowIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingSplitsWindow(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
		WillReturnRows(spotRows(true, true))
	mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
		WillReturnRows(windowRows(hour(10), hour(14), false))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM spot_windows").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO spot_windows").WithArgs(1, hour(10), hour(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO spot_windows").WithArgs(1, hour(13), hour(14)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery("INSERT INTO spot_windows").WithArgs(1, hour(11), hour(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(13))
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), 3, 1, 13, hour(11), hour(13), 100.0, db.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, time.Now(), time.Now()))
	mock.ExpectExec("UPDATE spot_windows SET booking_id").WithArgs(5, 13).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.CreateBooking(entities.BookingRequest{
		CustomerID: 3, SpotID: 1, WindowID: 7,
		StartTime: hour(11), EndTime: hour(13),
	})
	require.NoError(t, err)
	assert.Equal(t, 13, result.WindowID)
	assert.Equal(t, []int{11, 12}, result.LeftoverWindowIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingLosesRace(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
		WillReturnRows(spotRows(false, true))
	mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
		WillReturnRows(windowRows(hour(10), hour(12), false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE spot_windows SET is_booked = TRUE").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(entities.BookingRequest{
		CustomerID: 3, SpotID: 1, WindowID: 7,
		StartTime: hour(10), EndTime: hour(12),
	})
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingValidation(t *testing.T) {
	t.Run("empty interval", func(t *testing.T) {
		svc, mock := newReservationMock(t)
		_, err := svc.CreateBooking(entities.BookingRequest{
			CustomerID: 3, SpotID: 1, WindowID: 7,
			StartTime: hour(12), EndTime: hour(12),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hidden spot", func(t *testing.T) {
		svc, mock := newReservationMock(t)
		mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
			WillReturnRows(spotRows(true, false))
		_, err := svc.CreateBooking(entities.BookingRequest{
			CustomerID: 3, SpotID: 1, WindowID: 7,
			StartTime: hour(10), EndTime: hour(12),
		})
		assert.ErrorIs(t, err, apperrors.ErrSpotNotVisible)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("window already booked", func(t *testing.T) {
		svc, mock := newReservationMock(t)
		mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
			WillReturnRows(spotRows(true, true))
		mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
			WillReturnRows(windowRows(hour(10), hour(12), true))
		_, err := svc.CreateBooking(entities.BookingRequest{
			CustomerID: 3, SpotID: 1, WindowID: 7,
			StartTime: hour(10), EndTime: hour(12),
		})
		assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("interval outside window", func(t *testing.T) {
		svc, mock := newReservationMock(t)
		mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
			WillReturnRows(spotRows(true, true))
		mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
			WillReturnRows(windowRows(hour(10), hour(12), false))
		_, err := svc.CreateBooking(entities.BookingRequest{
			CustomerID: 3, SpotID: 1, WindowID: 7,
			StartTime: hour(11), EndTime: hour(13),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("partial booking on strict spot", func(t *testing.T) {
		svc, mock := newReservationMock(t)
		mock.ExpectQuery("FROM parking_spots WHERE id").WithArgs(1).
			WillReturnRows(spotRows(false, true))
		mock.ExpectQuery("FROM spot_windows WHERE id").WithArgs(7).
			WillReturnRows(windowRows(hour(10), hour(14), false))
		_, err := svc.CreateBooking(entities.BookingRequest{
			CustomerID: 3, SpotID: 1, WindowID: 7,
			StartTime: hour(10), EndTime: hour(12),
		})
		assert.ErrorIs(t, err, apperrors.ErrPartialNotAllowed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBookingReopensWindow(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusConfirmed, 3))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(db.StatusCancelled, 5, pq.Array([]string{db.StatusPending, db.StatusConfirmed})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("DELETE FROM spot_windows").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"spot_id", "start_time", "end_time"}).AddRow(1, hour(10), hour(12)))
	mock.ExpectQuery("INSERT INTO spot_windows").WithArgs(1, hour(10), hour(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	require.NoError(t, svc.CancelBooking(5, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBookingRequiresOwner(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusPending, 3))

	err := svc.CancelBooking(5, 99)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelCompletedBookingIsIllegal(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusCompleted, 3))

	err := svc.CancelBooking(5, 3)
	assert.ErrorIs(t, err, apperrors.ErrIllegalStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBooking(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusPending, 3))
	mock.ExpectQuery("SELECT COUNT").WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(db.StatusConfirmed, 5, pq.Array([]string{db.StatusPending})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, svc.ConfirmBooking(5, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingRequiresSpotOwner(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusPending, 3))
	mock.ExpectQuery("SELECT COUNT").WithArgs(1, 99).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := svc.ConfirmBooking(5, 99)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmCancelledBookingIsIllegal(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusCancelled, 3))
	mock.ExpectQuery("SELECT COUNT").WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := svc.ConfirmBooking(5, 2)
	assert.ErrorIs(t, err, apperrors.ErrIllegalStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteBookingRequiresConfirmed(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusPending, 3))

	err := svc.CompleteBooking(5)
	assert.ErrorIs(t, err, apperrors.ErrIllegalStateTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireBookingReopensWindow(t *testing.T) {
	svc, mock := newReservationMock(t)

	mock.ExpectQuery("FROM bookings WHERE id").WithArgs(5).
		WillReturnRows(bookingRows(db.StatusPending, 3))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(db.StatusCancelled, 5, pq.Array([]string{db.StatusPending})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("DELETE FROM spot_windows").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"spot_id", "start_time", "end_time"}).AddRow(1, hour(10), hour(12)))
	mock.ExpectQuery("INSERT INTO spot_windows").WithArgs(1, hour(10), hour(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	require.NoError(t, svc.ExpireBooking(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
