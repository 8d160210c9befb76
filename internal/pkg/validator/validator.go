package validator

import (
	"net/netip"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidationError reports one rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors is returned by every DTO Validate method and rendered as
// a 422 with one detail per field.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, err := range v {
		parts[i] = err.Field + ": " + err.Message
	}
	return strings.Join(parts, "; ")
}

// ToMap keeps the last message when a field is reported twice.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Indonesian mobile numbers: 08..., 628... or +628...
	phoneRegex = regexp.MustCompile(`^(\+62|62|0)8[0-9]+$`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidUUID accepts the canonical 36 character form of any version.
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(time.DateOnly, dateStr)
	return date, err == nil
}

// IsValidClock checks an HH:mm time-of-day string.
func IsValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsValidIPv4 accepts dotted-quad addresses only.
func IsValidIPv4(s string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	return err == nil && addr.Is4()
}

// IsValidURL requires an absolute http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidPhoneNumber ignores spaces and dashes and expects 10 to 13 characters.
func IsValidPhoneNumber(phone string) bool {
	phone = strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if len(phone) < 10 || len(phone) > 13 {
		return false
	}
	return phoneRegex.MatchString(phone)
}

func IsInSlice(value string, slice []string) bool {
	return slices.Contains(slice, value)
}
