package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkshare/internal/db"
	"parkshare/internal/repository"
)

func newMatcherMock(t *testing.T) (*MatcherService, sqlmock.Sqlmock) {
	t.Helper()
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return NewMatcherService(repository.NewInterestRepository(database), nil), mock
}

func TestRegisterInterestForAnySpot(t *testing.T) {
	svc, mock := newMatcherMock(t)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO interest_requests").
		WithArgs(3, nil, date, hour(10), hour(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	interest, err := svc.RegisterInterest(3, nil, date, hour(10), hour(12))
	require.NoError(t, err)
	assert.Equal(t, 9, interest.ID)
	assert.False(t, interest.SpotID.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnWindowAddedRecordsMatches(t *testing.T) {
	svc, mock := newMatcherMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	interests := sqlmock.NewRows([]string{
		"id", "user_id", "spot_id", "desired_date", "desired_start", "desired_end", "is_active", "created_at",
	}).
		AddRow(9, 3, nil, hour(0), hour(10), hour(12), true, time.Now()).
		AddRow(10, 4, 1, hour(0), hour(13), hour(15), true, time.Now())

	mock.ExpectQuery("FROM interest_requests").
		WithArgs(1, hour(10), hour(14)).
		WillReturnRows(interests)
	mock.ExpectQuery("INSERT INTO interest_matches").
		WithArgs(9, 7, 3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(31, time.Now()))
	mock.ExpectQuery("INSERT INTO interest_matches").
		WithArgs(10, 7, 4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(32, time.Now()))

	require.NoError(t, svc.OnWindowAdded(window))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnWindowAddedSkipsFailedMatch(t *testing.T) {
	svc, mock := newMatcherMock(t)
	window := &db.SpotWindow{ID: 7, SpotID: 1, StartTime: hour(10), EndTime: hour(14)}

	interests := sqlmock.NewRows([]string{
		"id", "user_id", "spot_id", "desired_date", "desired_start", "desired_end", "is_active", "created_at",
	}).
		AddRow(9, 3, nil, hour(0), hour(10), hour(12), true, time.Now()).
		AddRow(10, 4, 1, hour(0), hour(13), hour(15), true, time.Now())

	mock.ExpectQuery("FROM interest_requests").
		WithArgs(1, hour(10), hour(14)).
		WillReturnRows(interests)
	mock.ExpectQuery("INSERT INTO interest_matches").
		WithArgs(9, 7, 3, 1).
		WillReturnError(assert.AnError)
	mock.ExpectQuery("INSERT INTO interest_matches").
		WithArgs(10, 7, 4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(32, time.Now()))

	// one failed insert must not stop the others
	require.NoError(t, svc.OnWindowAdded(window))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliverPendingMatchesMarksNotified(t *testing.T) {
	svc, mock := newMatcherMock(t)

	pending := sqlmock.NewRows([]string{
		"id", "interest_id", "user_id", "full_name", "phone",
		"spot_id", "spot_number", "address", "price_per_hour",
		"window_id", "start_time", "end_time",
	}).AddRow(31, 9, 3, "Ivan", "+7 (912) 345-67-89", 1, "A-12", "Main St 5", 50.0, 7, hour(10), hour(14))

	mock.ExpectQuery("FROM interest_matches").WillReturnRows(pending)
	mock.ExpectExec("UPDATE interest_matches SET notified").
		WithArgs(31).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE interest_requests SET is_active").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.DeliverPendingMatches())
	assert.NoError(t, mock.ExpectationsWereMet())
}
