package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hadir-app/hadir-backend/internal/domain/leave"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	Quota(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Create accepts a JSON body, or a multipart form carrying the same fields
// plus an optional 'attachment' file.
func (h *leaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Create leave decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	} else {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Failed to parse multipart form", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		req.LeaveType = r.FormValue("leave_type")
		req.StartDate = r.FormValue("start_date")
		req.EndDate = r.FormValue("end_date")
		req.Reason = r.FormValue("reason")

		file, fileHeader, err := r.FormFile("attachment")
		switch {
		case err == nil:
			defer file.Close()
			req.File = file
			req.FileHeader = fileHeader
		case err != http.ErrMissingFile:
			slog.Error("Failed to get file from form", "error", err)
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
	}

	result, err := h.leaveService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

func leaveFilterFrom(r *http.Request) leave.LeaveFilter {
	return leave.LeaveFilter{
		Status:    queryString(r, "status"),
		LeaveType: queryString(r, "leave_type"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      getIntQueryParam(r, "page", 0),
		Limit:     getIntQueryParam(r, "limit", 0),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}
}

// GetMy implements LeaveHandler.
func (h *leaveHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.GetMy(r.Context(), leaveFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Quota implements LeaveHandler.
func (h *leaveHandlerImpl) Quota(w http.ResponseWriter, r *http.Request) {
	year := 0
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 2000 || parsed > 9999 {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		year = parsed
	}

	result, err := h.leaveService.Quota(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPending implements LeaveHandler.
func (h *leaveHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.ListPending(r.Context(), leaveFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements LeaveHandler.
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements LeaveHandler.
func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.Approve(r.Context(), leave.ApproveLeaveRequest{ID: chi.URLParam(r, "id")})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// Reject implements LeaveHandler.
func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}
