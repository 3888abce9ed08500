package models

import (
	"time"
)

// Booking status values. Waitlisted is part of the closed set but is never
// produced by the reservation flow; it exists for imported/legacy records.
const (
	BookingStatusConfirmed  = "Confirmed"
	BookingStatusWaitlisted = "Waitlisted"
	BookingStatusCancelled  = "Cancelled"
)

// Payment status values. Payment integration is stubbed as always
// succeeding, so a reservation writes Completed directly.
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

// ClassNames is the closed set of coach classes a train can carry.
var ClassNames = []string{"Sleeper", "3AC", "2AC", "1AC", "General"}

// Genders is the closed set of passenger genders.
var Genders = []string{"Male", "Female", "Other"}

// WeekdayNames is the closed set of running-day names.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidClassName(name string) bool { return contains(ClassNames, name) }
func IsValidGender(g string) bool       { return contains(Genders, g) }
func IsValidWeekday(d string) bool      { return contains(WeekdayNames, d) }

// User represents a registered account.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone" db:"phone"`
	State        string    `json:"state" db:"state"`
	District     string    `json:"district" db:"district"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Station identifies one end of a route.
type Station struct {
	State    string `json:"state"`
	District string `json:"district"`
	Station  string `json:"station"`
}

// TrainClass is one coach class row on a train: its price and the seats
// still available. seats_available is the only shared mutable counter in
// the system and is only ever changed through conditional writes.
type TrainClass struct {
	ID             int64  `json:"-" db:"id"`
	TrainID        int64  `json:"-" db:"train_id"`
	Name           string `json:"name" db:"name"`
	Price          int64  `json:"price" db:"price"`
	SeatsAvailable int    `json:"seatsAvailable" db:"seats_available"`
}

// Train is a route/schedule record with per-class inventory.
type Train struct {
	ID            int64        `json:"id" db:"id"`
	Number        string       `json:"number" db:"number"`
	Name          string       `json:"name" db:"name"`
	From          Station      `json:"from"`
	To            Station      `json:"to"`
	DepartureTime time.Time    `json:"departureTime" db:"departure_time"`
	ArrivalTime   time.Time    `json:"arrivalTime" db:"arrival_time"`
	Duration      string       `json:"duration" db:"duration"`
	Distance      int          `json:"distance" db:"distance"`
	Classes       []TrainClass `json:"classes"`
	Days          []string     `json:"days"`
	IsActive      bool         `json:"isActive" db:"is_active"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// ClassByName returns the class row with the given name, if present.
func (t *Train) ClassByName(name string) (*TrainClass, bool) {
	for i := range t.Classes {
		if t.Classes[i].Name == name {
			return &t.Classes[i], true
		}
	}
	return nil, false
}

// Passenger is one traveller on a booking.
type Passenger struct {
	ID         int64   `json:"-" db:"id"`
	BookingID  int64   `json:"-" db:"booking_id"`
	Name       string  `json:"name" db:"name"`
	Age        int     `json:"age" db:"age"`
	Gender     string  `json:"gender" db:"gender"`
	SeatNumber *string `json:"seatNumber,omitempty" db:"seat_number"`
}

// Booking is one ledger entry. The train fields are a snapshot taken at
// booking time so the record stays stable if the train is later edited or
// retired; they are never re-read from the catalog.
type Booking struct {
	ID            int64       `json:"id" db:"id"`
	UserID        int64       `json:"userId" db:"user_id"`
	TrainID       int64       `json:"trainId" db:"train_id"`
	TrainNumber   string      `json:"trainNumber" db:"train_number"`
	TrainName     string      `json:"trainName" db:"train_name"`
	From          Station     `json:"from"`
	To            Station     `json:"to"`
	DepartureTime time.Time   `json:"departureTime" db:"departure_time"`
	ArrivalTime   time.Time   `json:"arrivalTime" db:"arrival_time"`
	JourneyDate   time.Time   `json:"journeyDate" db:"journey_date"`
	Passengers    []Passenger `json:"passengers"`
	Class         string      `json:"class" db:"class"`
	TotalFare     int64       `json:"totalFare" db:"total_fare"`
	Status        string      `json:"status" db:"status"`
	PaymentStatus string      `json:"paymentStatus" db:"payment_status"`
	PNRNumber     string      `json:"pnrNumber" db:"pnr_number"`
	BookedAt      time.Time   `json:"bookingDate" db:"booked_at"`
}
