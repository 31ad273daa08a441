package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
)

func newMock(t *testing.T) (*AvailabilityRepository, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewAvailabilityRepository(database), mock
}

func hour(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func TestAddWindowRejectsEmptyInterval(t *testing.T) {
	repo, mock := newMock(t)

	_, err := repo.AddWindow(1, hour(12), hour(12))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)

	_, err = repo.AddWindow(1, hour(14), hour(10))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInterval)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddWindowRejectsOverlap(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(1, hour(10), hour(14)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.AddWindow(1, hour(10), hour(14))
	assert.ErrorIs(t, err, apperrors.ErrOverlappingWindow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddWindowAllowsTouchingWindows(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(1, hour(14), hour(16)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO spot_windows").
		WithArgs(1, hour(14), hour(16)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, now))
	mock.ExpectCommit()

	window, err := repo.AddWindow(1, hour(14), hour(16))
	require.NoError(t, err)
	assert.Equal(t, 42, window.ID)
	assert.Equal(t, 1, window.SpotID)
	assert.False(t, window.IsBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveExactMatchFlipsBookedFlag(t *testing.T) {
	repo, mock := newMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE spot_windows SET is_booked = TRUE").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	consumedID, leftoverIDs, err := repo.ReserveSubintervalTx(tx, window, hour(10), hour(14))
	require.NoError(t, err)
	assert.Equal(t, 7, consumedID)
	assert.Empty(t, leftoverIDs)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveExactMatchLosesRace(t *testing.T) {
	repo, mock := newMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE spot_windows SET is_booked = TRUE").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	_, _, err = repo.ReserveSubintervalTx(tx, window, hour(10), hour(14))
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSubintervalSplitsWindow(t *testing.T) {
	repo, mock := newMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM spot_windows").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO spot_windows").
		WithArgs(1, hour(10), hour(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO spot_windows").
		WithArgs(1, hour(13), hour(14)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery("INSERT INTO spot_windows").
		WithArgs(1, hour(11), hour(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(13))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	consumedID, leftoverIDs, err := repo.ReserveSubintervalTx(tx, window, hour(11), hour(13))
	require.NoError(t, err)
	assert.Equal(t, 13, consumedID)
	assert.Equal(t, []int{11, 12}, leftoverIDs)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSubintervalLosesRace(t *testing.T) {
	repo, mock := newMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM spot_windows").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	_, _, err = repo.ReserveSubintervalTx(tx, window, hour(11), hour(13))
	assert.ErrorIs(t, err, apperrors.ErrSlotUnavailable)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReopenWindowInsertsFreshWindow(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("DELETE FROM spot_windows").
		WithArgs(13).
		WillReturnRows(sqlmock.NewRows([]string{"spot_id", "start_time", "end_time"}).AddRow(1, hour(11), hour(13)))
	mock.ExpectQuery("INSERT INTO spot_windows").
		WithArgs(1, hour(11), hour(13)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	reopenedID, err := repo.ReopenWindowTx(tx, 13)
	require.NoError(t, err)
	assert.Equal(t, 21, reopenedID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
