package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hadir-app/hadir-backend/internal/domain/approval"
	"github.com/hadir-app/hadir-backend/internal/domain/attendance"
	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/domain/user"
	"github.com/hadir-app/hadir-backend/internal/pkg/jwt"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
	"github.com/hadir-app/hadir-backend/internal/service/file"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	userRepo       user.UserRepository
	networkRepo    officenetwork.OfficeNetworkRepository
	settingService setting.SettingService
	fileService    file.FileService
	storage        storage.FileStorage
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	networkRepo officenetwork.OfficeNetworkRepository,
	settingService setting.SettingService,
	fileService file.FileService,
	fileStorage storage.FileStorage,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		userRepo:             userRepo,
		networkRepo:          networkRepo,
		settingService:       settingService,
		fileService:          fileService,
		storage:              fileStorage,
		now:                  time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string in loc.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format("2006-01-02 15:04:05")
	return &format
}

// workingMinutes is the whole minutes between check-in and check-out.
func workingMinutes(a attendance.Attendance) *int {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return nil
	}
	m := int(a.CheckOutTime.Sub(*a.CheckInTime).Minutes())
	if m < 0 {
		m = 0
	}
	return &m
}

func (s *AttendanceServiceImpl) toResponse(ctx context.Context, a attendance.Attendance, loc *time.Location) attendance.AttendanceResponse {
	var workType *string
	if a.WorkType != nil {
		wt := string(*a.WorkType)
		workType = &wt
	}
	return attendance.AttendanceResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		UserName:          a.UserName,
		DivisionName:      a.DivisionName,
		Date:              a.Date.Format("2006-01-02"),
		CheckInTime:       timePtrToString(a.CheckInTime, loc),
		CheckOutTime:      timePtrToString(a.CheckOutTime, loc),
		CheckInLatitude:   a.CheckInLatitude,
		CheckInLongitude:  a.CheckInLongitude,
		CheckOutLatitude:  a.CheckOutLatitude,
		CheckOutLongitude: a.CheckOutLongitude,
		CheckInAddress:    a.CheckInAddress,
		CheckOutAddress:   a.CheckOutAddress,
		CheckInPhotoURL:   storage.URLOf(ctx, s.storage, a.CheckInPhoto),
		CheckOutPhotoURL:  storage.URLOf(ctx, s.storage, a.CheckOutPhoto),
		WorkType:          workType,
		OffsiteReason:     a.OffsiteReason,
		Status:            string(a.Status),
		MatchedNetworkID:  a.MatchedNetworkID,
		DistanceMeters:    a.DistanceMeters,
		WorkingMinutes:    workingMinutes(a),
		Notes:             a.Notes,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         a.UpdatedAt.Format(time.RFC3339),
	}
}

func subjectOf(a attendance.Attendance) approval.Subject {
	return approval.Subject{
		OwnerID:              a.UserID,
		OwnerSupervisorID:    a.SupervisorID,
		DivisionSupervisorID: a.DivisionSupervisorID,
	}
}

// decide loads everything the validator needs and runs it.
func (s *AttendanceServiceImpl) decide(ctx context.Context, action attendance.Action, req attendance.AttendanceRequest) (user.User, setting.Settings, *attendance.Attendance, attendance.Decision, error) {
	var (
		u        user.User
		settings setting.Settings
		decision attendance.Decision
	)

	if err := req.Validate(); err != nil {
		return u, settings, nil, decision, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return u, settings, nil, decision, err
	}

	u, err = s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return u, settings, nil, decision, err
	}
	if !u.IsActive {
		return u, settings, nil, decision, user.ErrUserInactive
	}

	settings, err = s.settingService.Current(ctx)
	if err != nil {
		return u, settings, nil, decision, fmt.Errorf("failed to load settings: %w", err)
	}

	networks, err := s.networkRepo.ListActive(ctx)
	if err != nil {
		return u, settings, nil, decision, fmt.Errorf("failed to load office networks: %w", err)
	}

	now := s.now()

	var existing *attendance.Attendance
	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, u.ID, settings.Today(now))
	switch {
	case err == nil:
		existing = &record
	case !errors.Is(err, attendance.ErrAttendanceNotFound):
		return u, settings, nil, decision, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	decision, err = attendance.Validate(attendance.Attempt{
		Action:        action,
		At:            now,
		IP:            req.ClientIP,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		WorkType:      attendance.WorkType(req.WorkType),
		OffsiteReason: req.OffsiteReason,
	}, settings, networks, existing)
	if err != nil {
		slog.Info("attendance rejected",
			"user_id", u.ID,
			"action", action,
			"ip", req.ClientIP,
			"reason", err.Error(),
		)
		return u, settings, existing, decision, err
	}

	return u, settings, existing, decision, nil
}

func (s *AttendanceServiceImpl) uploadPhoto(ctx context.Context, userID string, d attendance.Decision, req attendance.AttendanceRequest) (*string, error) {
	if req.File == nil || req.FileHeader == nil {
		return nil, nil
	}
	path, err := s.fileService.UploadAttendancePhoto(ctx, userID, string(d.Action), d.At, req.File, req.FileHeader.Filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", attendance.ErrInvalidPhoto, err)
	}
	return &path, nil
}

func matchFields(m *attendance.LocationMatch) (*string, *float64) {
	if m == nil {
		return nil, nil
	}
	id := m.NetworkID
	return &id, m.DistanceMeters
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.AttendanceRequest) (attendance.AttendanceResponse, error) {
	u, settings, _, d, err := s.decide(ctx, attendance.ActionCheckIn, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	photo, err := s.uploadPhoto(ctx, u.ID, d, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	networkID, distance := matchFields(d.Match)
	ip := req.ClientIP
	workType := d.WorkType
	at := d.At.UTC()

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:           u.ID,
		Date:             d.Date,
		CheckInTime:      &at,
		CheckInIP:        &ip,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInAddress:   req.Address,
		CheckInPhoto:     photo,
		WorkType:         &workType,
		OffsiteReason:    d.OffsiteReason,
		Status:           d.Status,
		MatchedNetworkID: networkID,
		DistanceMeters:   distance,
		Notes:            req.Notes,
	})
	if err != nil {
		if photo != nil {
			_ = s.fileService.DeleteFile(ctx, *photo)
		}
		if errors.Is(err, attendance.ErrDuplicateCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("checked in",
		"user_id", u.ID,
		"date", d.Date.Format("2006-01-02"),
		"status", d.Status,
		"work_type", d.WorkType,
	)

	return s.toResponse(ctx, created, settings.Location()), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.AttendanceRequest) (attendance.AttendanceResponse, error) {
	u, settings, existing, d, err := s.decide(ctx, attendance.ActionCheckOut, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	photo, err := s.uploadPhoto(ctx, u.ID, d, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ip := req.ClientIP
	at := d.At.UTC()

	update := *existing
	update.CheckOutTime = &at
	update.CheckOutIP = &ip
	update.CheckOutLatitude = req.Latitude
	update.CheckOutLongitude = req.Longitude
	update.CheckOutAddress = req.Address
	update.CheckOutPhoto = photo
	if req.Notes != nil {
		update.Notes = req.Notes
	}

	closed, err := s.AttendanceRepository.CloseCheckOut(ctx, update)
	if err != nil {
		if photo != nil {
			_ = s.fileService.DeleteFile(ctx, *photo)
		}
		if errors.Is(err, attendance.ErrNoOpenCheckIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to record check-out: %w", err)
	}

	slog.Info("checked out", "user_id", u.ID, "date", d.Date.Format("2006-01-02"))

	return s.toResponse(ctx, closed, settings.Location()), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	now := s.now()
	today := settings.Today(now)
	local := now.In(settings.Location())

	resp := attendance.TodayResponse{
		Date:     today.Format("2006-01-02"),
		CheckIn:  settings.CheckIn.String(),
		CheckOut: settings.CheckOut.String(),
	}

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, actor.ID, today)
	switch {
	case err == nil:
		r := s.toResponse(ctx, record, settings.Location())
		resp.Attendance = &r
		resp.CanCheckOut = record.HasOpenCheckIn() && settings.CheckOut.Contains(local)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		resp.CanCheckIn = settings.CheckIn.Contains(local)
	default:
		return attendance.TodayResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}

	return resp, nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		responses = append(responses, s.toResponse(ctx, a, settings.Location()))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(responses) - 1
	if len(responses) == 0 {
		start, end = 0, 0
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     fmt.Sprintf("%d-%d of %d", start, end, total),
		Attendances: responses,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter.ToFilter(actor.ID))
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	scope, err := approval.ScopeFor(actor)
	if err != nil {
		return attendance.ListAttendanceResponse{}, attendance.ErrUnauthorized
	}
	filter.ReviewerID = nil
	if !scope.All {
		filter.ReviewerID = &scope.ReviewerID
	}

	return s.list(ctx, filter)
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !approval.CanView(actor, subjectOf(record)) {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load settings: %w", err)
	}

	return s.toResponse(ctx, record, settings.Location()), nil
}

// MarkAbsences implements attendance.AttendanceService. It closes the local
// day before now.
func (s *AttendanceServiceImpl) MarkAbsences(ctx context.Context, now time.Time) (attendance.AbsenceResult, error) {
	settings, err := s.settingService.Current(ctx)
	if err != nil {
		return attendance.AbsenceResult{}, fmt.Errorf("failed to load settings: %w", err)
	}

	day := settings.Today(now).AddDate(0, 0, -1)
	result := attendance.AbsenceResult{Date: day.Format("2006-01-02")}

	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		result.Skipped = true
		slog.Info("absence marking skipped for weekend", "date", result.Date)
		return result, nil
	}

	absent, excused, err := s.AttendanceRepository.MarkAbsences(ctx, day)
	if err != nil {
		return result, fmt.Errorf("failed to mark absences: %w", err)
	}
	result.Absent = absent
	result.Excused = excused

	slog.Info("absences marked", "date", result.Date, "absent", absent, "excused", excused)
	return result, nil
}
