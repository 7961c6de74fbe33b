package providers

import (
	"context"
)

// Geocoder resolves a free-text location description to coordinates. The call
// may block on network I/O; implementations carry their own timeout and return
// an error when no coordinates can be produced.
type Geocoder interface {
	Geocode(ctx context.Context, location string) (*Coordinates, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64
	Longitude float64
}
