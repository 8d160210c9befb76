package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hadir-app/hadir-backend/internal/domain/logbook"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
)

type LogbookHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	GetMy(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type logbookHandlerImpl struct {
	logbookService logbook.LogbookService
}

func NewLogbookHandler(logbookService logbook.LogbookService) LogbookHandler {
	return &logbookHandlerImpl{
		logbookService: logbookService,
	}
}

func (h *logbookHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req logbook.CreateLogbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create logbook decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.logbookService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Logbook entry submitted", result)
}

func (h *logbookHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req logbook.UpdateLogbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update logbook decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.logbookService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logbook entry updated", result)
}

func logbookFilterFrom(r *http.Request) logbook.LogbookFilter {
	return logbook.LogbookFilter{
		Status:    queryString(r, "status"),
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
		Page:      getIntQueryParam(r, "page", 0),
		Limit:     getIntQueryParam(r, "limit", 0),
	}
}

func (h *logbookHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.logbookService.GetMy(r.Context(), logbookFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *logbookHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.logbookService.ListPending(r.Context(), logbookFilterFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *logbookHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.logbookService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve takes an optional feedback body.
func (h *logbookHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req logbook.ApproveLogbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Approve logbook decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.logbookService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logbook entry approved", result)
}

func (h *logbookHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req logbook.RejectLogbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject logbook decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.logbookService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logbook entry rejected", result)
}
