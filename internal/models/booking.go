package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPendingResponse BookingStatus = "PENDING_RESPONSE"
	BookingStatusAccepted        BookingStatus = "ACCEPTED"
	BookingStatusRejected        BookingStatus = "REJECTED"
	BookingStatusCanceled        BookingStatus = "CANCELED"
)

// Lifecycle guard errors. Handlers translate these to HTTP responses.
var (
	ErrNotBookingActor   = errors.New("actor is not the booking guest or a manager of its hotel")
	ErrInvalidTransition = errors.New("transition not allowed from current booking status")
	ErrTooLateToCancel   = errors.New("booking start date has already passed")
)

type Booking struct {
	gorm.Model
	RoomID      uint      `json:"roomId" gorm:"not null;index"`
	Room        Room      `json:"room"`
	CreatedByID uint      `json:"createdById" gorm:"not null;index"`
	CreatedBy   User      `json:"-" gorm:"foreignKey:CreatedByID"`
	StartDate   time.Time `json:"startDate" gorm:"not null"`
	EndDate     time.Time `json:"endDate" gorm:"not null"`
	// Price snapshot at booking time; room edits never rewrite history.
	PricePerDay  int           `json:"pricePerDay" gorm:"not null"`
	Days         int           `json:"days" gorm:"not null"`
	SubTotal     int           `json:"subTotal" gorm:"not null"`
	Vat          int           `json:"vat" gorm:"not null"`
	TotalPrice   int           `json:"totalPrice" gorm:"not null"`
	Status       BookingStatus `json:"status" gorm:"not null;default:'PENDING_RESPONSE'"`
	ClosedByID   *uint         `json:"closedById"`
	ClosedBy     *User         `json:"-" gorm:"foreignKey:ClosedByID"`
	CancelReason string        `json:"cancelReason"`
}

// Blocks reports whether this booking makes its date range unavailable.
// Rejected and canceled bookings never block availability.
func (b *Booking) Blocks() bool {
	return b.Status == BookingStatusAccepted || b.Status == BookingStatusPendingResponse
}

// AuthorizeActor checks that the acting user may modify this booking:
// either the guest who created it, or a manager of the room's hotel.
// managerHotelID is zero when the actor manages no hotel. Room must be
// preloaded.
func (b *Booking) AuthorizeActor(userID, managerHotelID uint) error {
	if b.CreatedByID == userID {
		return nil
	}
	if managerHotelID != 0 && b.Room.HotelID == managerHotelID {
		return nil
	}
	return ErrNotBookingActor
}

// CanClose checks the accept/reject guard: only pending bookings can be
// closed by a manager decision.
func (b *Booking) CanClose() error {
	if b.Status != BookingStatusPendingResponse {
		return ErrInvalidTransition
	}
	return nil
}

// CanCancel checks the cancel guard: the booking must still be pending
// or accepted, and the stay must not have started yet.
func (b *Booking) CanCancel(now time.Time) error {
	if b.Status != BookingStatusPendingResponse && b.Status != BookingStatusAccepted {
		return ErrInvalidTransition
	}
	if !now.Before(b.StartDate) {
		return ErrTooLateToCancel
	}
	return nil
}

// StatusAfterRoomArchive returns the status a booking moves to when its
// room is archived. Only bookings still awaiting a response are rejected;
// accepted stays are honored and closed bookings keep their history.
func StatusAfterRoomArchive(s BookingStatus) (BookingStatus, bool) {
	if s == BookingStatusPendingResponse {
		return BookingStatusRejected, true
	}
	return s, false
}

// ParseBookingStatus validates a client-supplied status string for the
// manager accept/reject decision.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingStatusAccepted, BookingStatusRejected:
		return BookingStatus(s), true
	}
	return "", false
}
