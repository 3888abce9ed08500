package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

// ErrDuplicatePNR signals that the generated reference collided with an
// existing booking; the caller regenerates and retries the whole
// transaction.
var ErrDuplicatePNR = errors.New("pnr number already assigned")

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ReserveParams describes one reservation attempt. PNR is pre-generated by
// the caller so a collision can be retried with a fresh value.
type ReserveParams struct {
	UserID      int64
	TrainID     int64
	ClassName   string
	JourneyDate time.Time
	Passengers  []models.PassengerInput
	PNR         string
}

// Reserve runs the inventory transaction: validate the train and class,
// conditionally decrement the seat counter, and insert the ledger entry
// with its passengers. Either the decrement and the insert both commit or
// neither does.
//
// The decrement is a conditional write (seats_available >= n) rather than a
// read-then-write, so concurrent reservations against the same class row
// serialize on the row and can never drive the counter negative.
func (r *BookingRepository) Reserve(ctx context.Context, params ReserveParams) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	train := &models.Train{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, number, name,
		       from_state, from_district, from_station,
		       to_state, to_district, to_station,
		       departure_time, arrival_time, is_active
		FROM trains
		WHERE id = $1`, params.TrainID).Scan(
		&train.ID,
		&train.Number,
		&train.Name,
		&train.From.State,
		&train.From.District,
		&train.From.Station,
		&train.To.State,
		&train.To.District,
		&train.To.Station,
		&train.DepartureTime,
		&train.ArrivalTime,
		&train.IsActive,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.E(apperr.NotFound, "train not found")
	}
	if err != nil {
		return nil, err
	}
	if !train.IsActive {
		return nil, apperr.E(apperr.NotFound, "train is no longer in service")
	}

	var classID, price int64
	err = tx.QueryRowContext(ctx, `
		SELECT id, price
		FROM train_classes
		WHERE train_id = $1 AND name = $2`,
		params.TrainID, params.ClassName).Scan(&classID, &price)
	if err == sql.ErrNoRows {
		return nil, apperr.Errorf(apperr.InvalidArgument, "class %q not offered on this train", params.ClassName)
	}
	if err != nil {
		return nil, err
	}

	seats := len(params.Passengers)
	result, err := tx.ExecContext(ctx, `
		UPDATE train_classes
		SET seats_available = seats_available - $1
		WHERE id = $2 AND seats_available >= $1`,
		seats, classID)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, apperr.E(apperr.CapacityExceeded, "not enough seats available")
	}

	booking := &models.Booking{
		UserID:        params.UserID,
		TrainID:       train.ID,
		TrainNumber:   train.Number,
		TrainName:     train.Name,
		From:          train.From,
		To:            train.To,
		DepartureTime: train.DepartureTime,
		ArrivalTime:   train.ArrivalTime,
		JourneyDate:   params.JourneyDate,
		Class:         params.ClassName,
		TotalFare:     price * int64(seats),
		Status:        models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted,
		PNRNumber:     params.PNR,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, train_id, train_number, train_name,
			from_state, from_district, from_station,
			to_state, to_district, to_station,
			departure_time, arrival_time, journey_date, class,
			total_fare, status, payment_status, pnr_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, booked_at`,
		booking.UserID,
		booking.TrainID,
		booking.TrainNumber,
		booking.TrainName,
		booking.From.State,
		booking.From.District,
		booking.From.Station,
		booking.To.State,
		booking.To.District,
		booking.To.Station,
		booking.DepartureTime,
		booking.ArrivalTime,
		booking.JourneyDate,
		booking.Class,
		booking.TotalFare,
		booking.Status,
		booking.PaymentStatus,
		booking.PNRNumber,
	).Scan(&booking.ID, &booking.BookedAt)
	if isPNRUniqueViolation(err) {
		return nil, ErrDuplicatePNR
	}
	if err != nil {
		return nil, err
	}

	for _, p := range params.Passengers {
		passenger := models.Passenger{
			BookingID: booking.ID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    p.Gender,
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO booking_passengers (booking_id, name, age, gender)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			passenger.BookingID, passenger.Name, passenger.Age, passenger.Gender,
		).Scan(&passenger.ID)
		if err != nil {
			return nil, err
		}
		booking.Passengers = append(booking.Passengers, passenger)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel flips the booking to Cancelled and restores the seats to the
// originating class row. The booking row is locked for the duration so a
// concurrent second cancel observes the flipped status and fails
// InvalidState before touching inventory. When the train or class row no
// longer exists the restore is skipped and restored is false; the
// cancellation itself still commits, the booking being the authoritative
// record of intent.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64) (booking *models.Booking, restored bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	booking = &models.Booking{}
	err = tx.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID).Scan(bookingScanDest(booking)...)
	if err == sql.ErrNoRows {
		return nil, false, apperr.E(apperr.NotFound, "booking not found")
	}
	if err != nil {
		return nil, false, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, false, apperr.E(apperr.InvalidState, "booking is already cancelled")
	}

	var seats int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_passengers WHERE booking_id = $1`,
		bookingID).Scan(&seats)
	if err != nil {
		return nil, false, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1 WHERE id = $2`,
		models.BookingStatusCancelled, bookingID); err != nil {
		return nil, false, err
	}
	booking.Status = models.BookingStatusCancelled

	result, err := tx.ExecContext(ctx, `
		UPDATE train_classes
		SET seats_available = seats_available + $1
		WHERE train_id = $2 AND name = $3`,
		seats, booking.TrainID, booking.Class)
	if err != nil {
		return nil, false, err
	}
	n, _ := result.RowsAffected()
	restored = n > 0

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	if err := r.attachPassengers(ctx, []*models.Booking{booking}); err != nil {
		return nil, false, err
	}
	return booking, restored, nil
}

const bookingColumns = `
	id, user_id, train_id, train_number, train_name,
	from_state, from_district, from_station,
	to_state, to_district, to_station,
	departure_time, arrival_time, journey_date, class,
	total_fare, status, payment_status, pnr_number, booked_at`

func bookingScanDest(b *models.Booking) []any {
	return []any{
		&b.ID,
		&b.UserID,
		&b.TrainID,
		&b.TrainNumber,
		&b.TrainName,
		&b.From.State,
		&b.From.District,
		&b.From.Station,
		&b.To.State,
		&b.To.District,
		&b.To.Station,
		&b.DepartureTime,
		&b.ArrivalTime,
		&b.JourneyDate,
		&b.Class,
		&b.TotalFare,
		&b.Status,
		&b.PaymentStatus,
		&b.PNRNumber,
		&b.BookedAt,
	}
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		id).Scan(bookingScanDest(booking)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachPassengers(ctx, []*models.Booking{booking}); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE pnr_number = $1`,
		pnr).Scan(bookingScanDest(booking)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.attachPassengers(ctx, []*models.Booking{booking}); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE pnr_number = $1)`,
		pnr).Scan(&exists)
	return exists, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return r.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE user_id = $1 ORDER BY booked_at DESC`,
		userID)
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.queryBookings(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY booked_at DESC`)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(bookingScanDest(&booking)...); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Booking, len(bookings))
	for i := range bookings {
		refs[i] = &bookings[i]
	}
	if err := r.attachPassengers(ctx, refs); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) attachPassengers(ctx context.Context, bookings []*models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]int64, len(bookings))
	byID := make(map[int64]*models.Booking, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		byID[b.ID] = b
		b.Passengers = nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, booking_id, name, age, gender, seat_number
		FROM booking_passengers
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber); err != nil {
			return err
		}
		if booking, ok := byID[p.BookingID]; ok {
			booking.Passengers = append(booking.Passengers, p)
		}
	}
	return rows.Err()
}

func isPNRUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == "bookings_pnr_number_key"
	}
	return false
}
