package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateRating(t *testing.T) {
	tests := []struct {
		name       string
		ratings    []int
		wantRating float64
		wantCount  int
	}{
		{"no reviews", nil, 0, 0},
		{"single", []int{4}, 4.0, 1},
		{"rounds up", []int{5, 4, 4}, 4.3, 3},
		{"rounds half", []int{4, 5}, 4.5, 2},
		{"two thirds", []int{1, 2, 2}, 1.7, 3},
		{"all fives", []int{5, 5, 5, 5}, 5.0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating, count := AggregateRating(tt.ratings)
			assert.InDelta(t, tt.wantRating, rating, 1e-9)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}
