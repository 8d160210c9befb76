package attendance

import (
	"strings"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/pkg/utils"
)

// Attempt is one check-in or check-out request as seen by the validator.
type Attempt struct {
	Action        Action
	At            time.Time
	IP            string
	Latitude      *float64
	Longitude     *float64
	WorkType      WorkType
	OffsiteReason string
}

// LocationMatch names the office network an attempt was recognised at.
type LocationMatch struct {
	NetworkID      string
	ByIP           bool
	DistanceMeters *float64
}

// Decision is an accepted attempt, ready to be persisted.
type Decision struct {
	Action        Action
	Date          time.Time
	At            time.Time
	Status        Status // zero for check-out
	WorkType      WorkType
	OffsiteReason *string
	Match         *LocationMatch
}

// Validate decides whether an attempt is acceptable. existing is the user's
// record for the attempt's local date, or nil. It performs no I/O.
//
// Check-in is checked for duplicates, then the time window, then location,
// and is finally classified as present or late. Check-out is checked for an
// open check-in, then the time window, then location.
func Validate(a Attempt, s setting.Settings, networks []officenetwork.OfficeNetwork, existing *Attendance) (Decision, error) {
	loc := s.Location()
	local := a.At.In(loc)

	var window setting.Window
	switch a.Action {
	case ActionCheckIn:
		if existing != nil {
			return Decision{}, ErrDuplicateCheckIn
		}
		window = s.CheckIn
	case ActionCheckOut:
		if !existing.HasOpenCheckIn() {
			return Decision{}, ErrNoOpenCheckIn
		}
		window = s.CheckOut
	default:
		return Decision{}, ErrInvalidAction
	}

	if !window.Contains(local) {
		return Decision{}, ErrOutOfWindow
	}

	workType := a.WorkType
	if workType != WorkTypeOffsite {
		workType = WorkTypeOnsite
	}

	match := MatchLocation(a.IP, a.Latitude, a.Longitude, networks)

	var reason *string
	switch workType {
	case WorkTypeOnsite:
		if match == nil {
			return Decision{}, ErrLocationNotRecognized
		}
	case WorkTypeOffsite:
		trimmed := strings.TrimSpace(a.OffsiteReason)
		if trimmed == "" {
			return Decision{}, ErrMissingReason
		}
		reason = &trimmed
	}

	d := Decision{
		Action:        a.Action,
		Date:          setting.DateOf(a.At, loc),
		At:            a.At,
		WorkType:      workType,
		OffsiteReason: reason,
		Match:         match,
	}

	if a.Action == ActionCheckIn {
		if setting.SecondOfDay(local) > s.LateThreshold() {
			d.Status = StatusLate
		} else {
			d.Status = StatusPresent
		}
	}

	return d, nil
}

// MatchLocation returns the first active network whose IP range contains ip,
// otherwise the nearest active network whose geofence contains the
// coordinate, otherwise nil.
func MatchLocation(ip string, lat, lon *float64, networks []officenetwork.OfficeNetwork) *LocationMatch {
	for _, n := range networks {
		if !n.IsActive {
			continue
		}
		if utils.IPInRange(ip, n.IPRangeStart, n.IPRangeEnd) {
			m := &LocationMatch{NetworkID: n.ID, ByIP: true}
			if lat != nil && lon != nil && n.HasGeofence() {
				d := utils.CalculateHaversineDistance(*lat, *lon, *n.Latitude, *n.Longitude)
				m.DistanceMeters = &d
			}
			return m
		}
	}

	if lat == nil || lon == nil {
		return nil
	}

	var best *LocationMatch
	for _, n := range networks {
		if !n.IsActive || !n.HasGeofence() {
			continue
		}
		d := utils.CalculateHaversineDistance(*lat, *lon, *n.Latitude, *n.Longitude)
		if d > float64(n.RadiusMeters) {
			continue
		}
		if best == nil || d < *best.DistanceMeters {
			dist := d
			best = &LocationMatch{NetworkID: n.ID, DistanceMeters: &dist}
		}
	}
	return best
}
