package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	Calculate(w http.ResponseWriter, r *http.Request)

	GetDefaultRule(w http.ResponseWriter, r *http.Request)
	ReplaceDefaultRule(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
}

type OvertimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &OvertimeHandlerImpl{
		overtimeService: overtimeService,
	}
}

// GetMyBalance implements OvertimeHandler.
func (h *OvertimeHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	h.balance(w, r, "")
}

// GetBalance implements OvertimeHandler.
func (h *OvertimeHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	h.balance(w, r, chi.URLParam(r, "userId"))
}

func (h *OvertimeHandlerImpl) balance(w http.ResponseWriter, r *http.Request, userID string) {
	var period *string
	if p := r.URL.Query().Get("period"); p != "" {
		period = &p
	}

	balance, err := h.overtimeService.GetBalance(r.Context(), userID, period)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// Calculate implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Calculate(w http.ResponseWriter, r *http.Request) {
	var req overtime.CalculateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Calculate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.overtimeService.Calculate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDefaultRule implements OvertimeHandler.
func (h *OvertimeHandlerImpl) GetDefaultRule(w http.ResponseWriter, r *http.Request) {
	rule, err := h.overtimeService.GetDefaultRule(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rule)
}

// ReplaceDefaultRule implements OvertimeHandler.
func (h *OvertimeHandlerImpl) ReplaceDefaultRule(w http.ResponseWriter, r *http.Request) {
	var req overtime.RuleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReplaceDefaultRule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	rule, err := h.overtimeService.ReplaceDefaultRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rule updated successfully", rule)
}

// CreateRequest implements OvertimeHandler.
func (h *OvertimeHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req overtime.CreateOvertimeRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	request, err := h.overtimeService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request created successfully", request)
}

// ListRequests implements OvertimeHandler.
func (h *OvertimeHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	var filter overtime.RequestFilter
	query := r.URL.Query()

	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	requests, err := h.overtimeService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// DecideRequest implements OvertimeHandler.
func (h *OvertimeHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	var req overtime.DecideOvertimeRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.overtimeService.DecideRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
