package domain

import "time"

// Feedback is a user's rating of a generated answer. The core records
// feedback but never interprets it.
type Feedback struct {
	// ID is the unique identifier for the feedback entry.
	ID string

	// Query is the question the answer responded to.
	Query string

	// Answer is the answer text that was rated.
	Answer string

	// Rating is the star rating, 1 (worst) to 5 (best).
	Rating int

	// Comment is optional free-form feedback.
	Comment string

	// CreatedAt is when the feedback was submitted.
	CreatedAt time.Time
}

// ValidRating reports whether a rating is within the accepted range.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
