package lifecycle

import "math"

const (
	minRating = 1
	maxRating = 5
)

type ratingRule struct {
	name   string
	match  func(totalHours, requiredHours, diff float64) bool
	rating int
}

// ratingRules are evaluated top to bottom; the first match wins.
// The under-half rule runs before any check on the sign of diff, so a task
// finished in under half its estimate scores 4 even where the on-time rule
// would give 5.
var ratingRules = []ratingRule{
	{
		name:   "under half of estimate",
		match:  func(total, required, _ float64) bool { return total < required/2 },
		rating: 4,
	},
	{
		name:   "on time, up to 0.5h early",
		match:  func(_, _, diff float64) bool { return diff >= 0 && diff <= 0.5 },
		rating: 5,
	},
	{
		name:   "0.5h to 1h early",
		match:  func(_, _, diff float64) bool { return diff > 0.5 && diff <= 1 },
		rating: 4,
	},
	{
		name:   "up to 0.5h over",
		match:  func(_, _, diff float64) bool { return diff < 0 && math.Abs(diff) <= 0.5 },
		rating: 4,
	},
	{
		name:   "up to 1h over",
		match:  func(_, _, diff float64) bool { return diff < 0 && math.Abs(diff) <= 1 },
		rating: 3,
	},
	{
		name:   "up to 2h over",
		match:  func(_, _, diff float64) bool { return diff < 0 && math.Abs(diff) <= 2 },
		rating: 2,
	},
}

const fallbackRating = 1

// Rate scores actual hours spent against the estimate.
// totalHours is expected to be rounded to two decimals already.
func Rate(totalHours, requiredHours float64) int {
	diff := round2(requiredHours - totalHours)

	rating := fallbackRating
	for _, rule := range ratingRules {
		if rule.match(totalHours, requiredHours, diff) {
			rating = rule.rating
			break
		}
	}

	return clampRating(rating)
}

func clampRating(r int) int {
	if r < minRating {
		return minRating
	}
	if r > maxRating {
		return maxRating
	}
	return r
}
