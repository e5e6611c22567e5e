package entity

import "time"

// Rating is a star rating a seeker leaves on a listing. One rating per
// (listing, user); repeated submissions overwrite the previous value.
type Rating struct {
	ListingID string
	UserID    string
	Stars     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
