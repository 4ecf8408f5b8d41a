package domain

import "time"

// StorageLocation is a physical bin slot. At most one active ticket may hold a
// location at a time; IsOccupied is the authoritative flag.
type StorageLocation struct {
	ID             string
	OrganizationID string
	Zone           string
	Shelf          string
	Bin            string
	Label          string
	IsOccupied     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
