package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

func TestBuildETicket(t *testing.T) {
	booking := &models.Booking{
		ID:            101,
		UserID:        7,
		TrainID:       42,
		TrainNumber:   "12951",
		TrainName:     "Mumbai Rajdhani Express",
		From:          models.Station{State: "Maharashtra", District: "Mumbai", Station: "Mumbai Central"},
		To:            models.Station{State: "Delhi", District: "New Delhi", Station: "New Delhi"},
		DepartureTime: time.Date(2026, time.March, 10, 17, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, time.March, 11, 8, 35, 0, 0, time.UTC),
		JourneyDate:   time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Class:         "3AC",
		TotalFare:     3000,
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
		PNRNumber:     "4827163950",
		BookedAt:      time.Now(),
		Passengers: []models.Passenger{
			{ID: 1, BookingID: 101, Name: "Asha", Age: 34, Gender: "Female"},
			{ID: 2, BookingID: 101, Name: "Ravi", Age: 36, Gender: "Male"},
		},
	}

	pdf, filename, err := BuildETicket(booking)
	require.NoError(t, err)

	assert.Equal(t, "ETICKET_4827163950.pdf", filename)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}
