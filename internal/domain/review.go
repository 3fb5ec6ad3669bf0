package domain

import "time"

// Review moderation states.
const (
	ReviewVisible = "visible"
	ReviewHidden  = "hidden"
	ReviewFlagged = "flagged"
)

// Review is visitor feedback attached to a business. Creation happens on the
// public site and is out of scope here; this system only moderates.
type Review struct {
	ID         string
	BusinessID string
	Name       string
	Rating     int
	Comment    string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClampRating forces a rating into the 1..5 range instead of rejecting it.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
