package domain

import "time"

// Project belongs to exactly one user. OwnerID is set at creation and never changes.
type Project struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// Input carries client-supplied fields for create and update. Dates are
// YYYY-MM-DD strings; blank means no date.
type Input struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
}
