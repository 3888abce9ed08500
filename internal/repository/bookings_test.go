package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

func newTestRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewBookingRepository(&database.DB{DB: db}), mock
}

var (
	testDeparture = time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC)
	testArrival   = time.Date(2026, time.March, 11, 8, 35, 0, 0, time.UTC)
	testJourney   = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
)

func trainRow(active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "number", "name",
		"from_state", "from_district", "from_station",
		"to_state", "to_district", "to_station",
		"departure_time", "arrival_time", "is_active",
	}).AddRow(
		int64(42), "12951", "Mumbai Rajdhani Express",
		"Maharashtra", "Mumbai", "Mumbai Central",
		"Delhi", "New Delhi", "New Delhi",
		testDeparture, testArrival, active,
	)
}

func reserveParams(passengers ...models.PassengerInput) ReserveParams {
	if len(passengers) == 0 {
		passengers = []models.PassengerInput{
			{Name: "Asha", Age: 34, Gender: "Female"},
			{Name: "Ravi", Age: 36, Gender: "Male"},
		}
	}
	return ReserveParams{
		UserID:      7,
		TrainID:     42,
		ClassName:   "3AC",
		JourneyDate: testJourney,
		Passengers:  passengers,
		PNR:         "4827163950",
	}
}

func TestReserve(t *testing.T) {
	repo, mock := newTestRepo(t)
	params := reserveParams()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(trainRow(true))
	mock.ExpectQuery(`SELECT id, price\s+FROM train_classes`).
		WithArgs(int64(42), "3AC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).AddRow(int64(9), int64(1500)))
	mock.ExpectExec(`UPDATE train_classes\s+SET seats_available = seats_available - \$1\s+WHERE id = \$2 AND seats_available >= \$1`).
		WithArgs(2, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booked_at"}).AddRow(int64(101), time.Now()))
	mock.ExpectQuery(`INSERT INTO booking_passengers`).
		WithArgs(int64(101), "Asha", 34, "Female").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(`INSERT INTO booking_passengers`).
		WithArgs(int64(101), "Ravi", 36, "Male").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectCommit()

	booking, err := repo.Reserve(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, int64(101), booking.ID)
	assert.Equal(t, "4827163950", booking.PNRNumber)
	assert.Equal(t, int64(3000), booking.TotalFare, "fare is price times passenger count")
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.PaymentStatusCompleted, booking.PaymentStatus)
	assert.Equal(t, "12951", booking.TrainNumber)
	assert.Len(t, booking.Passengers, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveCapacityExceeded(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(trainRow(true))
	mock.ExpectQuery(`SELECT id, price\s+FROM train_classes`).
		WithArgs(int64(42), "3AC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).AddRow(int64(9), int64(1500)))
	// No row satisfies seats_available >= 2, so the decrement touches nothing
	// and the whole transaction rolls back.
	mock.ExpectExec(`UPDATE train_classes`).
		WithArgs(2, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	booking, err := repo.Reserve(context.Background(), reserveParams())
	assert.Nil(t, booking)
	assert.True(t, apperr.IsKind(err, apperr.CapacityExceeded))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTrainNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	booking, err := repo.Reserve(context.Background(), reserveParams())
	assert.Nil(t, booking)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRetiredTrain(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(trainRow(false))
	mock.ExpectRollback()

	booking, err := repo.Reserve(context.Background(), reserveParams())
	assert.Nil(t, booking)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownClass(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(trainRow(true))
	mock.ExpectQuery(`SELECT id, price\s+FROM train_classes`).
		WithArgs(int64(42), "3AC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}))
	mock.ExpectRollback()

	booking, err := repo.Reserve(context.Background(), reserveParams())
	assert.Nil(t, booking)
	assert.True(t, apperr.IsKind(err, apperr.InvalidArgument))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveDuplicatePNR(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, number, name,`).
		WithArgs(int64(42)).
		WillReturnRows(trainRow(true))
	mock.ExpectQuery(`SELECT id, price\s+FROM train_classes`).
		WithArgs(int64(42), "3AC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price"}).AddRow(int64(9), int64(1500)))
	mock.ExpectExec(`UPDATE train_classes`).
		WithArgs(2, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_pnr_number_key"})
	mock.ExpectRollback()

	booking, err := repo.Reserve(context.Background(), reserveParams())
	assert.Nil(t, booking)
	assert.ErrorIs(t, err, ErrDuplicatePNR)

	require.NoError(t, mock.ExpectationsWereMet())
}

func cancelBookingRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "train_id", "train_number", "train_name",
		"from_state", "from_district", "from_station",
		"to_state", "to_district", "to_station",
		"departure_time", "arrival_time", "journey_date", "class",
		"total_fare", "status", "payment_status", "pnr_number", "booked_at",
	}).AddRow(
		int64(101), int64(7), int64(42), "12951", "Mumbai Rajdhani Express",
		"Maharashtra", "Mumbai", "Mumbai Central",
		"Delhi", "New Delhi", "New Delhi",
		testDeparture, testArrival, testJourney, "3AC",
		int64(3000), status, models.PaymentStatusCompleted, "4827163950", time.Now(),
	)
}

func passengerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_id", "name", "age", "gender", "seat_number"}).
		AddRow(int64(1), int64(101), "Asha", 34, "Female", nil).
		AddRow(int64(2), int64(101), "Ravi", 36, "Male", nil)
}

func TestCancelRestoresSeats(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(101)).
		WillReturnRows(cancelBookingRow(models.BookingStatusConfirmed))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM booking_passengers`).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE bookings SET status = \$1 WHERE id = \$2`).
		WithArgs(models.BookingStatusCancelled, int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE train_classes\s+SET seats_available = seats_available \+ \$1\s+WHERE train_id = \$2 AND name = \$3`).
		WithArgs(2, int64(42), "3AC").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT id, booking_id, name, age, gender, seat_number`).
		WillReturnRows(passengerRows())

	booking, restored, err := repo.Cancel(context.Background(), 101)
	require.NoError(t, err)

	assert.True(t, restored)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.Len(t, booking.Passengers, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCancelled(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(101)).
		WillReturnRows(cancelBookingRow(models.BookingStatusCancelled))
	mock.ExpectRollback()

	booking, restored, err := repo.Cancel(context.Background(), 101)
	assert.Nil(t, booking)
	assert.False(t, restored)
	assert.True(t, apperr.IsKind(err, apperr.InvalidState))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	booking, restored, err := repo.Cancel(context.Background(), 404)
	assert.Nil(t, booking)
	assert.False(t, restored)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

// The train or class row was removed after the booking was made. The
// cancellation still commits; only the inventory restore is skipped.
func TestCancelOrphanedInventory(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(101)).
		WillReturnRows(cancelBookingRow(models.BookingStatusConfirmed))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM booking_passengers`).
		WithArgs(int64(101)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE bookings SET status = \$1 WHERE id = \$2`).
		WithArgs(models.BookingStatusCancelled, int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE train_classes`).
		WithArgs(2, int64(42), "3AC").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT id, booking_id, name, age, gender, seat_number`).
		WillReturnRows(passengerRows())

	booking, restored, err := repo.Cancel(context.Background(), 101)
	require.NoError(t, err)

	assert.False(t, restored)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByPNRNotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE pnr_number = \$1`).
		WithArgs("1234567890").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	booking, err := repo.GetByPNR(context.Background(), "1234567890")
	require.NoError(t, err)
	assert.Nil(t, booking)

	require.NoError(t, mock.ExpectationsWereMet())
}
