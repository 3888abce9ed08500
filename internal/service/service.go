package service

import (
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/config"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/messaging"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/search"
)

type Services struct {
	Trains   *TrainService
	Bookings *BookingService
	Users    *UserService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, searchIdx *search.Client, authCfg config.AuthConfig) *Services {
	return &Services{
		Trains:   NewTrainService(repos.Trains, searchIdx, natsClient),
		Bookings: NewBookingService(repos.Bookings, natsClient),
		Users:    NewUserService(repos.Users, authCfg.JWTSecret, authCfg.TokenTTL),
	}
}
