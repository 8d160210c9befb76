package officenetwork

import (
	"github.com/hadir-app/hadir-backend/internal/pkg/utils"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

type OfficeNetworkResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	IPRangeStart string   `json:"ip_range_start"`
	IPRangeEnd   string   `json:"ip_range_end"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters int      `json:"radius_meters"`
	IsActive     bool     `json:"is_active"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type CreateOfficeNetworkRequest struct {
	Name         string   `json:"name"`
	IPRangeStart string   `json:"ip_range_start"`
	IPRangeEnd   string   `json:"ip_range_end"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters int      `json:"radius_meters"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

func (r *CreateOfficeNetworkRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.RadiusMeters == 0 {
		r.RadiusMeters = 100
	}

	errs = append(errs, validateNetwork(r.IPRangeStart, r.IPRangeEnd, r.Latitude, r.Longitude, r.RadiusMeters)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateOfficeNetworkRequest struct {
	ID           string   `json:"-"`
	Name         *string  `json:"name,omitempty"`
	IPRangeStart *string  `json:"ip_range_start,omitempty"`
	IPRangeEnd   *string  `json:"ip_range_end,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// Apply merges the request into an existing network and validates the result.
func (r *UpdateOfficeNetworkRequest) Apply(n OfficeNetwork) (OfficeNetwork, error) {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		n.Name = *r.Name
	}
	if r.IPRangeStart != nil {
		n.IPRangeStart = *r.IPRangeStart
	}
	if r.IPRangeEnd != nil {
		n.IPRangeEnd = *r.IPRangeEnd
	}
	if r.Latitude != nil {
		n.Latitude = r.Latitude
	}
	if r.Longitude != nil {
		n.Longitude = r.Longitude
	}
	if r.RadiusMeters != nil {
		n.RadiusMeters = *r.RadiusMeters
	}
	if r.IsActive != nil {
		n.IsActive = *r.IsActive
	}

	errs = append(errs, validateNetwork(n.IPRangeStart, n.IPRangeEnd, n.Latitude, n.Longitude, n.RadiusMeters)...)

	if len(errs) > 0 {
		return OfficeNetwork{}, errs
	}
	return n, nil
}

func validateNetwork(start, end string, lat, lon *float64, radius int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startOK := validator.IsValidIPv4(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_range_start",
			Message: "ip_range_start must be a dotted IPv4 address",
		})
	}
	endOK := validator.IsValidIPv4(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_range_end",
			Message: "ip_range_end must be a dotted IPv4 address",
		})
	}
	if startOK && endOK {
		lo, _ := utils.ParseIPv4(start)
		hi, _ := utils.ParseIPv4(end)
		if lo > hi {
			errs = append(errs, validator.ValidationError{
				Field:   "ip_range_end",
				Message: "ip_range_end must not be lower than ip_range_start",
			})
		}
	}

	if (lat == nil) != (lon == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	} else if lat != nil && !utils.IsValidCoordinate(*lat, *lon) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90 and longitude between -180 and 180",
		})
	}

	if radius <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than 0",
		})
	}

	return errs
}
