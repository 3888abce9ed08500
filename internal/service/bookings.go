package service

import (
	"context"
	"errors"
	"time"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/logger"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/messaging"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/metrics"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

// BookingService owns the inventory transaction flow: reserve on create,
// release on cancel, and PNR assignment.
type BookingService struct {
	bookings   *repository.BookingRepository
	natsClient *messaging.NATSClient
	pnr        *PNRGenerator
}

func NewBookingService(bookings *repository.BookingRepository, natsClient *messaging.NATSClient) *BookingService {
	return &BookingService{
		bookings:   bookings,
		natsClient: natsClient,
		pnr:        NewPNRGenerator(),
	}
}

// Reserve books seats on a train class for the given user. The capacity
// check, seat decrement and ledger insert happen in one transaction; a PNR
// collision rolls the whole transaction back and retries with a fresh
// reference.
func (s *BookingService) Reserve(ctx context.Context, userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	if len(req.Passengers) == 0 {
		return nil, apperr.E(apperr.InvalidArgument, "at least one passenger is required")
	}
	if !models.IsValidClassName(req.ClassName) {
		return nil, apperr.Errorf(apperr.InvalidArgument, "unknown class %q", req.ClassName)
	}
	for _, p := range req.Passengers {
		if p.Age <= 0 {
			return nil, apperr.Errorf(apperr.InvalidArgument, "invalid age for passenger %q", p.Name)
		}
		if !models.IsValidGender(p.Gender) {
			return nil, apperr.Errorf(apperr.InvalidArgument, "invalid gender %q for passenger %q", p.Gender, p.Name)
		}
	}

	params := repository.ReserveParams{
		UserID:      userID,
		TrainID:     req.TrainID,
		ClassName:   req.ClassName,
		JourneyDate: req.JourneyDate,
		Passengers:  req.Passengers,
	}

	for attempt := 1; attempt <= maxPNRAttempts; attempt++ {
		params.PNR = s.pnr.Generate()

		exists, err := s.bookings.PNRExists(ctx, params.PNR)
		if err != nil {
			return nil, storageErr("failed to check pnr uniqueness", err)
		}
		if exists {
			metrics.PNRCollisionsTotal.Inc()
			logger.WithContext(ctx).Warn("PNR collision, regenerating",
				"attempt", attempt)
			continue
		}

		booking, err := s.bookings.Reserve(ctx, params)
		if errors.Is(err, repository.ErrDuplicatePNR) {
			// Lost the race to another reservation between our existence
			// check and the insert; the transaction rolled back in full.
			metrics.PNRCollisionsTotal.Inc()
			logger.WithContext(ctx).Warn("PNR collision on insert, regenerating",
				"attempt", attempt)
			continue
		}
		if err != nil {
			if apperr.IsKind(err, apperr.CapacityExceeded) {
				metrics.CapacityRejectionsTotal.Inc()
			}
			return nil, storageErr("failed to reserve seats", err)
		}

		metrics.ReservationsTotal.Inc()
		s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
			BookingID:      booking.ID,
			PNRNumber:      booking.PNRNumber,
			TrainNumber:    booking.TrainNumber,
			Class:          booking.Class,
			UserID:         booking.UserID,
			PassengerCount: len(booking.Passengers),
			TotalFare:      booking.TotalFare,
			Timestamp:      time.Now(),
		})
		return booking, nil
	}

	return nil, apperr.Errorf(apperr.Unavailable,
		"could not allocate a unique pnr after %d attempts", maxPNRAttempts)
}

// Release cancels a booking on behalf of its owner or an administrator and
// returns the seats to the originating class row. A second Release on the
// same booking fails InvalidState before any inventory mutation.
func (s *BookingService) Release(ctx context.Context, actor *models.User, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storageErr("failed to get booking", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.NotFound, "booking not found")
	}

	if booking.UserID != actor.ID && !actor.IsAdmin {
		return nil, apperr.E(apperr.Forbidden, "not authorized to cancel this booking")
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, apperr.E(apperr.InvalidState, "booking is already cancelled")
	}

	// The repository re-checks the status under a row lock, so two
	// concurrent Release calls cannot both restore inventory.
	cancelled, restored, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, storageErr("failed to cancel booking", err)
	}

	if !restored {
		// The train or class row is gone. The cancellation stands; the
		// booking is the authoritative record of intent.
		logger.WithContext(ctx).Warn("inventory restore skipped, train or class no longer exists",
			"booking_id", cancelled.ID,
			"train_id", cancelled.TrainID,
			"class", cancelled.Class)
	}

	metrics.CancellationsTotal.Inc()
	s.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID:      cancelled.ID,
		PNRNumber:      cancelled.PNRNumber,
		TrainNumber:    cancelled.TrainNumber,
		Class:          cancelled.Class,
		PassengerCount: len(cancelled.Passengers),
		SeatsRestored:  restored,
		Timestamp:      time.Now(),
	})
	return cancelled, nil
}

// LookupByPNR resolves a booking by its reference. Deliberately requires no
// authentication, mirroring public ticket-status lookups.
func (s *BookingService) LookupByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	if !IsValidPNR(pnr) {
		return nil, apperr.E(apperr.InvalidArgument, "pnr must be a 10-digit number")
	}

	booking, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, storageErr("failed to look up pnr", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.NotFound, "booking not found")
	}
	return booking, nil
}

// GetByID returns a booking to its owner or an administrator.
func (s *BookingService) GetByID(ctx context.Context, actor *models.User, bookingID int64) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storageErr("failed to get booking", err)
	}
	if booking == nil {
		return nil, apperr.E(apperr.NotFound, "booking not found")
	}
	if booking.UserID != actor.ID && !actor.IsAdmin {
		return nil, apperr.E(apperr.Forbidden, "not authorized to view this booking")
	}
	return booking, nil
}

// ListByUser returns the user's bookings, most recent first.
func (s *BookingService) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to list bookings", err)
	}
	return bookings, nil
}

// ListAll returns every booking, most recent first. Administrators only.
func (s *BookingService) ListAll(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	if !actor.IsAdmin {
		return nil, apperr.E(apperr.Forbidden, "admin access required")
	}

	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, storageErr("failed to list bookings", err)
	}
	return bookings, nil
}

func (s *BookingService) publish(ctx context.Context, subject string, event interface{}) {
	if s.natsClient == nil {
		return
	}
	if err := s.natsClient.Publish(subject, event); err != nil {
		// Event delivery never fails the transaction.
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}

// storageErr keeps kinded errors intact and folds everything else into the
// generic unavailable kind the caller surfaces for storage failures.
func storageErr(msg string, err error) error {
	if apperr.KindOf(err) != apperr.Unknown {
		return err
	}
	return apperr.Wrap(apperr.Unavailable, msg, err)
}
