package entity

import "time"

// Listing is a property posted by an owner.
type Listing struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	City          string
	Address       string
	PricePerMonth float64
	Bedrooms      int
	PropertyType  string
	Status        string
	PhotoURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// AverageRating and RatingCount are computed from ratings on read;
	// they are not columns on the listings table.
	AverageRating float64
	RatingCount   int
}

const (
	PropertyRoom  = "room"
	PropertyFlat  = "flat"
	PropertyHouse = "house"
)

// Listing statuses. Unlisted is set by admin moderation and hides the
// listing from public browse/search.
const (
	ListingAvailable = "available"
	ListingUnlisted  = "unlisted"
	ListingRented    = "rented"
)
