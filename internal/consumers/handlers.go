package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

// Handlers processes booking lifecycle events off the API request path.
// Notification delivery here is a structured log line; swapping in an email
// or SMS provider only touches this package.
type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	ctx := context.Background()
	user, err := h.repos.Users.GetByID(ctx, event.UserID)
	if err != nil {
		slog.Error("Failed to load booking owner",
			"booking_id", event.BookingID, "user_id", event.UserID, "error", err)
		return
	}

	recipient := "unknown"
	if user != nil {
		recipient = user.Email
	}

	slog.Info("Booking confirmation notification",
		"recipient", recipient,
		"pnr", event.PNRNumber,
		"train_number", event.TrainNumber,
		"class", event.Class,
		"passengers", event.PassengerCount,
		"total_fare", event.TotalFare,
	)

	m.Ack()
}

func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		return
	}

	slog.Info("Booking cancellation notification",
		"pnr", event.PNRNumber,
		"train_number", event.TrainNumber,
		"class", event.Class,
		"passengers", event.PassengerCount,
		"seats_restored", event.SeatsRestored,
	)

	// A cancellation that could not restore inventory means the train or
	// class row is gone; flag it for reconciliation.
	if !event.SeatsRestored {
		slog.Warn("Cancellation left inventory unrestored",
			"pnr", event.PNRNumber,
			"train_number", event.TrainNumber,
			"class", event.Class,
		)
	}

	m.Ack()
}

func (h *Handlers) HandleTrainRetired(m *stan.Msg) {
	var event models.TrainRetiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal train retired event", "error", err)
		return
	}

	slog.Info("Train retired",
		"train_id", event.TrainID,
		"train_number", event.TrainNumber,
	)

	m.Ack()
}
