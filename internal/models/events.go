package models

import "time"

// NATS subjects
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventTrainRetired     = "train.retired"
)

// BookingCreatedEvent is published after a reservation commits.
type BookingCreatedEvent struct {
	BookingID      int64     `json:"booking_id"`
	PNRNumber      string    `json:"pnr_number"`
	TrainNumber    string    `json:"train_number"`
	Class          string    `json:"class"`
	UserID         int64     `json:"user_id"`
	PassengerCount int       `json:"passenger_count"`
	TotalFare      int64     `json:"total_fare"`
	Timestamp      time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a cancellation commits.
type BookingCancelledEvent struct {
	BookingID      int64     `json:"booking_id"`
	PNRNumber      string    `json:"pnr_number"`
	TrainNumber    string    `json:"train_number"`
	Class          string    `json:"class"`
	PassengerCount int       `json:"passenger_count"`
	SeatsRestored  bool      `json:"seats_restored"`
	Timestamp      time.Time `json:"timestamp"`
}

// TrainRetiredEvent is published when an admin soft-deletes a train.
type TrainRetiredEvent struct {
	TrainID     int64     `json:"train_id"`
	TrainNumber string    `json:"train_number"`
	Timestamp   time.Time `json:"timestamp"`
}
