package models

import "time"

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// LocationSource tells how a UserLocation was obtained.
type LocationSource string

const (
	LocationSourceGPS    LocationSource = "gps"
	LocationSourceManual LocationSource = "manual"
)

// UserLocation is where the searching user is, as granted by the device or typed in.
type UserLocation struct {
	Coordinate
	Address   string         `json:"address,omitempty"`
	Source    LocationSource `json:"source"`
	UpdatedAt time.Time      `json:"updatedAt,omitzero"`
}
