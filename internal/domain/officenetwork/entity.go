package officenetwork

import "time"

// OfficeNetwork is an accepted location for onsite attendance: an inclusive
// IPv4 range and an optional geofence.
type OfficeNetwork struct {
	ID           string
	Name         string
	IPRangeStart string
	IPRangeEnd   string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (n OfficeNetwork) HasGeofence() bool {
	return n.Latitude != nil && n.Longitude != nil && n.RadiusMeters > 0
}
