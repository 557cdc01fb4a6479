package service

import "math"

// AggregateRating returns the mean of ratings rounded to one decimal place and
// the number of ratings. No ratings yields 0, 0.
func AggregateRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10, len(ratings)
}
