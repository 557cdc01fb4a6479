package entity

import (
	"time"
)

// Review is left by a customer on one of their completed bookings.
type Review struct {
	ID         string     `json:"id" firestore:"id"`
	BookingID  string     `json:"booking_id" firestore:"bookingId"`
	ServiceID  string     `json:"service_id" firestore:"serviceId"`
	CustomerID string     `json:"customer_id" firestore:"customerId"`
	ProviderID string     `json:"provider_id" firestore:"providerId"`
	Rating     int        `json:"rating" firestore:"rating"` // 1-5
	Comment    string     `json:"comment" firestore:"comment"`
	Reply      string     `json:"reply,omitempty" firestore:"reply,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty" firestore:"repliedAt,omitempty"`
	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time  `json:"updated_at" firestore:"updatedAt"`
}

type ReviewFilter struct {
	ServiceID  string
	ProviderID string
	CustomerID string
}

func (f ReviewFilter) Matches(r *Review) bool {
	if f.ServiceID != "" && r.ServiceID != f.ServiceID {
		return false
	}
	if f.ProviderID != "" && r.ProviderID != f.ProviderID {
		return false
	}
	if f.CustomerID != "" && r.CustomerID != f.CustomerID {
		return false
	}
	return true
}
