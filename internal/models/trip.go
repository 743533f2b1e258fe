package models

import "time"

// TripItem records one checked-off product within a completed trip.
// CheckOffOrder is the 1-based rank in which the user checked it off.
type TripItem struct {
	ItemID        string `json:"item_id"`
	CheckOffOrder int    `json:"check_off_order"`
}

// TripRecord is the immutable log of one completed shopping session. Records
// are written once at session completion and never modified; they are the
// only evidence the ordering engine learns from.
type TripRecord struct {
	ID        string     `json:"id"`
	Date      time.Time  `json:"date"`
	Location  string     `json:"location,omitempty"`
	StartTime string     `json:"start_time,omitempty"`
	Items     []TripItem `json:"items"`
}
