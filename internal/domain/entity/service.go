package entity

import (
	"strings"
	"time"
)

// Service is a listing offered by a service provider.
// Rating and ReviewCount are derived from the service's reviews.
type Service struct {
	ID          string   `json:"id" firestore:"id"`
	ProviderID  string   `json:"provider_id" firestore:"providerId"`
	Title       string   `json:"title" firestore:"title"`
	Description string   `json:"description" firestore:"description"`
	Category    string   `json:"category" firestore:"category"`
	Price       float64  `json:"price" firestore:"price"`
	PriceUnit   string   `json:"price_unit,omitempty" firestore:"priceUnit,omitempty"`
	Location    string   `json:"location" firestore:"location"`
	Images      []string `json:"images" firestore:"images"`
	IsActive    bool     `json:"is_active" firestore:"isActive"`

	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"review_count" firestore:"reviewCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ServiceFilter narrows catalog listings. Zero values mean "any".
type ServiceFilter struct {
	Category   string
	Location   string
	ProviderID string
	Query      string
	MinPrice   float64
	MaxPrice   float64
	ActiveOnly bool
}

// Matches reports whether s passes every set field of f.
func (f ServiceFilter) Matches(s *Service) bool {
	if f.ActiveOnly && !s.IsActive {
		return false
	}
	if f.ProviderID != "" && s.ProviderID != f.ProviderID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(s.Category, f.Category) {
		return false
	}
	if f.Location != "" && !containsFold(s.Location, f.Location) {
		return false
	}
	if f.Query != "" && !containsFold(s.Title, f.Query) {
		return false
	}
	if f.MinPrice > 0 && s.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && s.Price > f.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
