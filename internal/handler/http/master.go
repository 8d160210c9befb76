package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hadir-app/hadir-backend/internal/domain/division"
	"github.com/hadir-app/hadir-backend/internal/domain/officenetwork"
	"github.com/hadir-app/hadir-backend/internal/domain/setting"
	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
)

// MasterHandler serves the admin-managed reference data.
type MasterHandler interface {
	// Division handlers
	CreateDivision(w http.ResponseWriter, r *http.Request)
	GetDivision(w http.ResponseWriter, r *http.Request)
	ListDivisions(w http.ResponseWriter, r *http.Request)
	ListDivisionMembers(w http.ResponseWriter, r *http.Request)
	UpdateDivision(w http.ResponseWriter, r *http.Request)
	DeleteDivision(w http.ResponseWriter, r *http.Request)

	// Office network handlers
	CreateOfficeNetwork(w http.ResponseWriter, r *http.Request)
	GetOfficeNetwork(w http.ResponseWriter, r *http.Request)
	ListOfficeNetworks(w http.ResponseWriter, r *http.Request)
	UpdateOfficeNetwork(w http.ResponseWriter, r *http.Request)
	DeleteOfficeNetwork(w http.ResponseWriter, r *http.Request)

	// Setting handlers
	ListSettings(w http.ResponseWriter, r *http.Request)
	GetSetting(w http.ResponseWriter, r *http.Request)
	UpdateSetting(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	divisionService      division.DivisionService
	officeNetworkService officenetwork.OfficeNetworkService
	settingService       setting.SettingService
}

func NewMasterHandler(divisionService division.DivisionService, officeNetworkService officenetwork.OfficeNetworkService, settingService setting.SettingService) MasterHandler {
	return &masterHandlerImpl{
		divisionService:      divisionService,
		officeNetworkService: officeNetworkService,
		settingService:       settingService,
	}
}

// ==================== DIVISION HANDLERS ====================

func (h *masterHandlerImpl) CreateDivision(w http.ResponseWriter, r *http.Request) {
	var req division.CreateDivisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.divisionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Division created successfully", result)
}

func (h *masterHandlerImpl) GetDivision(w http.ResponseWriter, r *http.Request) {
	result, err := h.divisionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListDivisions(w http.ResponseWriter, r *http.Request) {
	result, err := h.divisionService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListDivisionMembers(w http.ResponseWriter, r *http.Request) {
	result, err := h.divisionService.ListMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) UpdateDivision(w http.ResponseWriter, r *http.Request) {
	var req division.UpdateDivisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.divisionService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Division updated successfully", result)
}

func (h *masterHandlerImpl) DeleteDivision(w http.ResponseWriter, r *http.Request) {
	if err := h.divisionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Division deleted successfully", nil)
}

// ==================== OFFICE NETWORK HANDLERS ====================

func (h *masterHandlerImpl) CreateOfficeNetwork(w http.ResponseWriter, r *http.Request) {
	var req officenetwork.CreateOfficeNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.officeNetworkService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Office network created successfully", result)
}

func (h *masterHandlerImpl) GetOfficeNetwork(w http.ResponseWriter, r *http.Request) {
	result, err := h.officeNetworkService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListOfficeNetworks(w http.ResponseWriter, r *http.Request) {
	result, err := h.officeNetworkService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) UpdateOfficeNetwork(w http.ResponseWriter, r *http.Request) {
	var req officenetwork.UpdateOfficeNetworkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.officeNetworkService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office network updated successfully", result)
}

func (h *masterHandlerImpl) DeleteOfficeNetwork(w http.ResponseWriter, r *http.Request) {
	if err := h.officeNetworkService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Office network deleted successfully", nil)
}

// ==================== SETTING HANDLERS ====================

func (h *masterHandlerImpl) ListSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	settings, err := h.settingService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	for _, s := range settings {
		if s.Key == key {
			response.Success(w, s)
			return
		}
	}
	response.HandleError(w, setting.ErrUnknownSetting)
}

func (h *masterHandlerImpl) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req setting.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Key = chi.URLParam(r, "key")

	result, err := h.settingService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Setting updated successfully", result)
}
