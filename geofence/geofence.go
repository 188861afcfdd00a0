// Package geofence decides whether a reported position lies within a fixed
// radius of a target, using the WGS-84 geodesic distance.
package geofence

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/geodesic"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

var validate = validator.New()

type Point struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

func (p Point) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: (%v, %v) must be within [-90, 90] x [-180, 180]", ErrInvalidCoordinates, p.Latitude, p.Longitude)
	}
	return nil
}

// Distance returns the geodesic distance between a and b in kilometres.
func Distance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	var meters float64
	geodesic.WGS84.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &meters, nil, nil)
	return meters / 1000, nil
}

// Fence is a circle of RadiusKM around Target.
type Fence struct {
	Target   Point
	RadiusKM float64
}

// Check reports whether candidate is inside the fence, along with its
// distance to the target.
func (f Fence) Check(candidate Point) (within bool, distanceKM float64, err error) {
	distanceKM, err = Distance(f.Target, candidate)
	if err != nil {
		return false, 0, err
	}
	return distanceKM <= f.RadiusKM, distanceKM, nil
}
