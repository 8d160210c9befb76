package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const unassignedDivision = "unassigned"

func divisionSegment(divisionID *string) string {
	if divisionID == nil || strings.TrimSpace(*divisionID) == "" {
		return unassignedDivision
	}
	return *divisionID
}

// AvatarPath returns avatars/{division|unassigned}/{user_id}/{name}.jpg
func AvatarPath(divisionID *string, userID string, name string) string {
	return path.Join("avatars", divisionSegment(divisionID), userID, name+".jpg")
}

// LeaveAttachmentPath returns leaves/{division|unassigned}/{user_id}/{yyyy}/{mm}/{name}{ext}
func LeaveAttachmentPath(divisionID *string, userID string, at time.Time, name string, ext string) string {
	return path.Join("leaves", divisionSegment(divisionID), userID,
		fmt.Sprintf("%04d", at.Year()), fmt.Sprintf("%02d", int(at.Month())), name+strings.ToLower(ext))
}

// AttendancePhotoPath returns attendance/{yyyy}/{mm}/{dd}/{user_id}-{action}-{unix}.jpg
func AttendancePhotoPath(userID string, action string, at time.Time) string {
	return path.Join("attendance",
		fmt.Sprintf("%04d", at.Year()), fmt.Sprintf("%02d", int(at.Month())), fmt.Sprintf("%02d", at.Day()),
		fmt.Sprintf("%s-%s-%d.jpg", userID, action, at.Unix()))
}
