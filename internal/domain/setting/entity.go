package setting

import "time"

type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeTime    ValueType = "time"
)

func (t ValueType) IsValid() bool {
	switch t {
	case TypeString, TypeNumber, TypeBoolean, TypeTime:
		return true
	}
	return false
}

// AppSetting is one row of the key/value settings store.
type AppSetting struct {
	Key         string
	Value       string
	Type        ValueType
	Description *string
	UpdatedAt   time.Time
}

const (
	KeyCheckInStartTime     = "check_in_start_time"
	KeyCheckInEndTime       = "check_in_end_time"
	KeyCheckOutStartTime    = "check_out_start_time"
	KeyCheckOutEndTime      = "check_out_end_time"
	KeyWorkingHoursStart    = "working_hours_start"
	KeyWorkingHoursEnd      = "working_hours_end"
	KeyLateToleranceMinutes = "late_tolerance_minutes"
	KeyLeaveMinNoticeDays   = "leave_min_notice_days"
	KeyMaxLeaveDaysPerYear  = "max_leave_days_per_year"
	KeyLeaveRequireApproval = "leave_require_approval"
	KeyTimezone             = "timezone"
)

type definition struct {
	Type        ValueType
	Default     string
	Description string
}

var definitions = map[string]definition{
	KeyCheckInStartTime:     {TypeTime, "06:00", "Earliest check-in time (HH:mm)"},
	KeyCheckInEndTime:       {TypeTime, "10:00", "Latest check-in time (HH:mm)"},
	KeyCheckOutStartTime:    {TypeTime, "15:00", "Earliest check-out time (HH:mm)"},
	KeyCheckOutEndTime:      {TypeTime, "23:59", "Latest check-out time (HH:mm)"},
	KeyWorkingHoursStart:    {TypeTime, "08:00", "Start of the working day (HH:mm)"},
	KeyWorkingHoursEnd:      {TypeTime, "17:00", "End of the working day (HH:mm)"},
	KeyLateToleranceMinutes: {TypeNumber, "15", "Minutes after working_hours_start before a check-in is late"},
	KeyLeaveMinNoticeDays:   {TypeNumber, "3", "Days of notice required before a leave starts"},
	KeyMaxLeaveDaysPerYear:  {TypeNumber, "12", "Approved leave days allowed per calendar year, 0 disables the cap"},
	KeyLeaveRequireApproval: {TypeBoolean, "true", "Whether leave requests go through supervisor approval"},
	KeyTimezone:             {TypeString, "Asia/Jakarta", "IANA timezone used for attendance dates"},
}

// KnownKeys returns the recognised setting keys in a stable order.
func KnownKeys() []string {
	return []string{
		KeyCheckInStartTime,
		KeyCheckInEndTime,
		KeyCheckOutStartTime,
		KeyCheckOutEndTime,
		KeyWorkingHoursStart,
		KeyWorkingHoursEnd,
		KeyLateToleranceMinutes,
		KeyLeaveMinNoticeDays,
		KeyMaxLeaveDaysPerYear,
		KeyLeaveRequireApproval,
		KeyTimezone,
	}
}

// Definition returns the declared type and default of a known key.
func Definition(key string) (ValueType, string, bool) {
	d, ok := definitions[key]
	return d.Type, d.Default, ok
}

// Defaults returns the built-in value of every known key.
func Defaults() []AppSetting {
	out := make([]AppSetting, 0, len(definitions))
	for _, key := range KnownKeys() {
		d := definitions[key]
		desc := d.Description
		out = append(out, AppSetting{Key: key, Value: d.Default, Type: d.Type, Description: &desc})
	}
	return out
}
