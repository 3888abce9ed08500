package models

import "time"

// RegisterRequest - payload for POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
	District string `json:"district"`
}

// LoginRequest - payload for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse - token plus the public profile fields
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// UserView - public projection of a user
type UserView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NewUserView projects a user for API responses.
func NewUserView(u *User) UserView {
	return UserView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		State:    u.State,
		District: u.District,
		IsAdmin:  u.IsAdmin,
	}
}

// UpdateProfileRequest - payload for PUT /api/auth/profile; empty fields
// keep their current value.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
	District string `json:"district"`
}

// ClassInput - one class row on a create/update train request
type ClassInput struct {
	Name           string `json:"name" binding:"required"`
	Price          int64  `json:"price" binding:"required,gt=0"`
	SeatsAvailable int    `json:"seatsAvailable" binding:"gte=0"`
}

// CreateTrainRequest - payload for POST /api/trains (admin)
type CreateTrainRequest struct {
	Name          string       `json:"name" binding:"required"`
	Number        string       `json:"number" binding:"required"`
	From          Station      `json:"from" binding:"required"`
	To            Station      `json:"to" binding:"required"`
	DepartureTime time.Time    `json:"departureTime" binding:"required"`
	ArrivalTime   time.Time    `json:"arrivalTime" binding:"required"`
	Duration      string       `json:"duration" binding:"required"`
	Distance      int          `json:"distance" binding:"required,gt=0"`
	Classes       []ClassInput `json:"classes" binding:"required,min=1"`
	Days          []string     `json:"days" binding:"required,min=1"`
}

// UpdateTrainRequest - payload for PUT /api/trains/:id (admin); nil fields
// keep their current value.
type UpdateTrainRequest struct {
	Name          *string      `json:"name"`
	Number        *string      `json:"number"`
	From          *Station     `json:"from"`
	To            *Station     `json:"to"`
	DepartureTime *time.Time   `json:"departureTime"`
	ArrivalTime   *time.Time   `json:"arrivalTime"`
	Duration      *string      `json:"duration"`
	Distance      *int         `json:"distance"`
	Classes       []ClassInput `json:"classes"`
	Days          []string     `json:"days"`
	IsActive      *bool        `json:"isActive"`
}

// SearchTrainsRequest - payload for POST /api/trains/search; all fields
// optional, date narrows to trains running on that weekday.
type SearchTrainsRequest struct {
	FromState    string `json:"fromState"`
	FromDistrict string `json:"fromDistrict"`
	ToState      string `json:"toState"`
	ToDistrict   string `json:"toDistrict"`
	Date         string `json:"date"` // YYYY-MM-DD
	Query        string `json:"query"`
}

// PassengerInput - one traveller on a booking request
type PassengerInput struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,gt=0"`
	Gender string `json:"gender" binding:"required"`
}

// CreateBookingRequest - payload for POST /api/bookings
type CreateBookingRequest struct {
	TrainID     int64            `json:"trainId" binding:"required"`
	ClassName   string           `json:"className" binding:"required"`
	JourneyDate time.Time        `json:"journeyDate" binding:"required"`
	Passengers  []PassengerInput `json:"passengers" binding:"required,min=1"`
}
