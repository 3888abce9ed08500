package repository

import (
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
)

type Repositories struct {
	Trains   *TrainRepository
	Bookings *BookingRepository
	Users    *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Trains:   NewTrainRepository(db),
		Bookings: NewBookingRepository(db),
		Users:    NewUserRepository(db),
	}
}
