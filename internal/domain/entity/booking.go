package entity

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingRejected:
		return st, true
	}
	return "", false
}

// IsTerminal reports whether no further transition is permitted.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingRejected:
		return true
	}
	return false
}

type Booking struct {
	ID         string        `json:"id" firestore:"id"`
	ServiceID  string        `json:"service_id" firestore:"serviceId"`
	CustomerID string        `json:"customer_id" firestore:"customerId"`
	ProviderID string        `json:"provider_id" firestore:"providerId"`
	Status     BookingStatus `json:"status" firestore:"status"`

	EventDate  time.Time  `json:"event_date" firestore:"eventDate"`
	EndDate    *time.Time `json:"end_date,omitempty" firestore:"endDate,omitempty"`
	StartTime  string     `json:"start_time,omitempty" firestore:"startTime,omitempty"`
	EndTime    string     `json:"end_time,omitempty" firestore:"endTime,omitempty"`
	GuestCount int        `json:"guest_count,omitempty" firestore:"guestCount,omitempty"`

	TotalPrice    float64 `json:"total_price" firestore:"totalPrice"`
	ServiceTitle  string  `json:"service_title" firestore:"serviceTitle"`
	Notes         string  `json:"notes,omitempty" firestore:"notes,omitempty"`
	ProviderNotes string  `json:"provider_notes,omitempty" firestore:"providerNotes,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// BookingFilter selects bookings for listing. Empty fields are ignored.
type BookingFilter struct {
	CustomerID string
	ProviderID string
	ServiceID  string
	Status     BookingStatus
}

func (f BookingFilter) Matches(b *Booking) bool {
	if f.CustomerID != "" && b.CustomerID != f.CustomerID {
		return false
	}
	if f.ProviderID != "" && b.ProviderID != f.ProviderID {
		return false
	}
	if f.ServiceID != "" && b.ServiceID != f.ServiceID {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}
