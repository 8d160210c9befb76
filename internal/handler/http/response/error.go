package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/domain/auth"
	"github.com/hadir-app/hadir-backend/internal/domain/division"
	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/domain/logbook"
	"github.com/hadir-app/hadir-backend/internal/domain/notification"
	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/validator"
)

// Error codes carried in the envelope for domain rejections
const (
	CodeOutOfWindow           = "OUT_OF_WINDOW"
	CodeLocationNotRecognized = "LOCATION_NOT_RECOGNIZED"
	CodeMissingReason         = "MISSING_REASON"
	CodeDuplicateCheckIn      = "DUPLICATE_CHECK_IN"
	CodeNoOpenCheckIn         = "NO_OPEN_CHECK_IN"
	CodeNotPending            = "NOT_PENDING"
	CodeUnauthorizedReviewer  = "UNAUTHORIZED_REVIEWER"
	CodeInsufficientNotice    = "INSUFFICIENT_NOTICE"
	CodeQuotaExceeded         = "QUOTA_EXCEEDED"
	CodeConfigurationInvalid  = "CONFIGURATION_INVALID"
)

type mapping struct {
	target error
	status int
	code   string
}

var mappings = []mapping{
	// Attendance rules
	{attendance.ErrOutOfWindow, http.StatusUnprocessableEntity, CodeOutOfWindow},
	{attendance.ErrLocationNotRecognized, http.StatusUnprocessableEntity, CodeLocationNotRecognized},
	{attendance.ErrMissingReason, http.StatusUnprocessableEntity, CodeMissingReason},
	{attendance.ErrDuplicateCheckIn, http.StatusConflict, CodeDuplicateCheckIn},
	{attendance.ErrNoOpenCheckIn, http.StatusConflict, CodeNoOpenCheckIn},
	{attendance.ErrInvalidAction, http.StatusBadRequest, "BAD_REQUEST"},
	{attendance.ErrAttendanceNotFound, http.StatusNotFound, "NOT_FOUND"},
	{attendance.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
	{attendance.ErrInvalidPhoto, http.StatusBadRequest, "BAD_REQUEST"},

	// Approval workflow
	{approval.ErrNotPending, http.StatusConflict, CodeNotPending},
	{approval.ErrUnauthorized, http.StatusForbidden, CodeUnauthorizedReviewer},
	{approval.ErrMissingReason, http.StatusUnprocessableEntity, CodeMissingReason},
	{approval.ErrInvalidStatus, http.StatusBadRequest, "BAD_REQUEST"},

	// Leave
	{leave.ErrInsufficientNotice, http.StatusUnprocessableEntity, CodeInsufficientNotice},
	{leave.ErrQuotaExceeded, http.StatusUnprocessableEntity, CodeQuotaExceeded},
	{leave.ErrOverlappingLeave, http.StatusConflict, "CONFLICT"},
	{leave.ErrLeaveNotFound, http.StatusNotFound, "NOT_FOUND"},
	{leave.ErrInvalidLeaveType, http.StatusBadRequest, "BAD_REQUEST"},
	{leave.ErrInvalidAttachmentType, http.StatusBadRequest, "BAD_REQUEST"},
	{leave.ErrAttachmentTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},

	// Logbook
	{logbook.ErrLogbookNotFound, http.StatusNotFound, "NOT_FOUND"},
	{logbook.ErrNotOwner, http.StatusForbidden, "FORBIDDEN"},
	{logbook.ErrFutureDate, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},

	// Settings
	{setting.ErrConfigurationInvalid, http.StatusInternalServerError, CodeConfigurationInvalid},
	{setting.ErrSettingNotFound, http.StatusNotFound, "NOT_FOUND"},
	{setting.ErrUnknownSetting, http.StatusNotFound, "NOT_FOUND"},

	// Auth
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrRefreshTokenRevoked, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrRefreshTokenCookieNotFound, http.StatusUnauthorized, "UNAUTHORIZED"},
	{auth.ErrGoogleEmailNotVerified, http.StatusForbidden, "FORBIDDEN"},
	{auth.ErrGoogleLoginDisabled, http.StatusNotFound, "NOT_FOUND"},
	{auth.ErrStateMismatch, http.StatusBadRequest, "BAD_REQUEST"},
	{jwt.ErrMissingActor, http.StatusUnauthorized, "UNAUTHORIZED"},
	{notification.ErrInvalidSSEToken, http.StatusUnauthorized, "UNAUTHORIZED"},

	// Users
	{user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
	{user.ErrUserEmailExists, http.StatusConflict, "CONFLICT"},
	{user.ErrUserInactive, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrInvalidRole, http.StatusBadRequest, "BAD_REQUEST"},
	{user.ErrSupervisorNotFound, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{user.ErrSelfSupervisor, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{user.ErrCannotDeactivateSelf, http.StatusConflict, "CONFLICT"},
	{user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrReviewerAccessRequired, http.StatusForbidden, "FORBIDDEN"},
	{user.ErrInvalidAvatarFormat, http.StatusBadRequest, "BAD_REQUEST"},
	{user.ErrAvatarTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},

	// Organisation
	{division.ErrDivisionNotFound, http.StatusNotFound, "NOT_FOUND"},
	{division.ErrDivisionNameExists, http.StatusConflict, "CONFLICT"},
	{division.ErrDivisionHasMembers, http.StatusConflict, "CONFLICT"},
	{division.ErrInvalidSupervisor, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{officenetwork.ErrOfficeNetworkNotFound, http.StatusNotFound, "NOT_FOUND"},
	{notification.ErrNotificationNotFound, http.StatusNotFound, "NOT_FOUND"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			Error(w, m.status, m.code, m.target.Error())
			return
		}
	}

	slog.Error("Unhandled error", "error", err)
	InternalServerError(w, "An unexpected error occurred")
}

// Error writes a failure envelope with an explicit code.
func Error(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Response{Error: &ErrorDetail{Code: code, Message: message}})
}
