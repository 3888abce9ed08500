package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

func newTrainService(t *testing.T) (*TrainService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	trains := repository.NewTrainRepository(&database.DB{DB: db})
	return NewTrainService(trains, nil, nil), mock
}

func createTrainRequest() *models.CreateTrainRequest {
	return &models.CreateTrainRequest{
		Name:          "Mumbai Rajdhani Express",
		Number:        "12951",
		From:          models.Station{State: "Maharashtra", District: "Mumbai", Station: "Mumbai Central"},
		To:            models.Station{State: "Delhi", District: "New Delhi", Station: "New Delhi"},
		DepartureTime: time.Date(2000, time.January, 1, 17, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2000, time.January, 1, 8, 35, 0, 0, time.UTC),
		Duration:      "15h 35m",
		Distance:      1384,
		Classes: []models.ClassInput{
			{Name: "3AC", Price: 1900, SeatsAvailable: 192},
		},
		Days: []string{"Monday", "Friday"},
	}
}

func TestCreateTrainValidation(t *testing.T) {
	svc, _ := newTrainService(t)

	tests := []struct {
		name   string
		mutate func(*models.CreateTrainRequest)
	}{
		{"no classes", func(r *models.CreateTrainRequest) { r.Classes = nil }},
		{"unknown class", func(r *models.CreateTrainRequest) { r.Classes[0].Name = "Business" }},
		{"duplicate class", func(r *models.CreateTrainRequest) {
			r.Classes = append(r.Classes, r.Classes[0])
		}},
		{"zero price", func(r *models.CreateTrainRequest) { r.Classes[0].Price = 0 }},
		{"negative seats", func(r *models.CreateTrainRequest) { r.Classes[0].SeatsAvailable = -1 }},
		{"no days", func(r *models.CreateTrainRequest) { r.Days = nil }},
		{"unknown day", func(r *models.CreateTrainRequest) { r.Days = []string{"Someday"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createTrainRequest()
			tt.mutate(req)

			train, err := svc.Create(context.Background(), req)
			assert.Nil(t, train)
			assert.True(t, apperr.IsKind(err, apperr.InvalidArgument))
		})
	}
}

func TestCreateTrain(t *testing.T) {
	svc, mock := newTrainService(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO trains`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active", "created_at", "updated_at"}).
			AddRow(int64(42), true, now, now))
	mock.ExpectQuery(`INSERT INTO train_classes`).
		WithArgs(int64(42), "3AC", int64(1900), 192).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
	mock.ExpectCommit()

	train, err := svc.Create(context.Background(), createTrainRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(42), train.ID)
	assert.True(t, train.IsActive)
	require.Len(t, train.Classes, 1)
	assert.Equal(t, int64(9), train.Classes[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func activeTrainRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "number", "name",
		"from_state", "from_district", "from_station",
		"to_state", "to_district", "to_station",
		"departure_time", "arrival_time", "duration", "distance",
		"days", "is_active", "created_at", "updated_at",
	}).AddRow(
		int64(42), "12951", "Mumbai Rajdhani Express",
		"Maharashtra", "Mumbai", "Mumbai Central",
		"Delhi", "New Delhi", "New Delhi",
		now, now, "15h 35m", 1384,
		"{Monday,Friday}", true, now, now,
	)
}

func classRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "train_id", "name", "price", "seats_available"}).
		AddRow(int64(9), int64(42), "3AC", int64(1900), 192)
}

// The journey date narrows the search to trains running on that weekday.
func TestSearchDerivesWeekdayFromDate(t *testing.T) {
	svc, mock := newTrainService(t)

	mock.ExpectQuery(`FROM trains WHERE is_active AND from_state = \$1 AND \$2 = ANY\(days\)`).
		WithArgs("Maharashtra", "Sunday").
		WillReturnRows(activeTrainRows())
	mock.ExpectQuery(`FROM train_classes`).
		WillReturnRows(classRows())

	trains, err := svc.Search(context.Background(), &models.SearchTrainsRequest{
		FromState: "Maharashtra",
		Date:      "2026-03-15", // a Sunday
	})
	require.NoError(t, err)

	require.Len(t, trains, 1)
	assert.Equal(t, "12951", trains[0].Number)
	assert.Equal(t, []string{"Monday", "Friday"}, trains[0].Days)
	require.Len(t, trains[0].Classes, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchRejectsBadDate(t *testing.T) {
	svc, _ := newTrainService(t)

	trains, err := svc.Search(context.Background(), &models.SearchTrainsRequest{Date: "15-03-2026"})
	assert.Nil(t, trains)
	assert.True(t, apperr.IsKind(err, apperr.InvalidArgument))
}

func TestRetire(t *testing.T) {
	svc, mock := newTrainService(t)

	mock.ExpectQuery(`FROM trains WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(activeTrainRows())
	mock.ExpectQuery(`FROM train_classes`).
		WillReturnRows(classRows())
	mock.ExpectExec(`UPDATE trains SET is_active = FALSE`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Retire(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRetireNotFound(t *testing.T) {
	svc, mock := newTrainService(t)

	mock.ExpectQuery(`FROM trains WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.Retire(context.Background(), 404)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
