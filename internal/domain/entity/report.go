package entity

import "time"

// Report is a fraud flag a user raises against a listing.
type Report struct {
	ID         string
	ListingID  string
	ReporterID string
	Reason     string
	Details    string
	Status     string
	ResolvedBy string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

const (
	ReportOpen     = "open"
	ReportResolved = "resolved"
)
