package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeEntryHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)

	CreateEntry(w http.ResponseWriter, r *http.Request)
	ListEntries(w http.ResponseWriter, r *http.Request)
	GetEntry(w http.ResponseWriter, r *http.Request)
	UpdateEntry(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)
	ApproveEntry(w http.ResponseWriter, r *http.Request)
	GetAuditTrail(w http.ResponseWriter, r *http.Request)
}

type TimeEntryHandlerImpl struct {
	timeEntryService timeentry.TimeEntryService
}

func NewTimeEntryHandler(timeEntryService timeentry.TimeEntryService) TimeEntryHandler {
	return &TimeEntryHandlerImpl{
		timeEntryService: timeEntryService,
	}
}

// ClockIn implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	entry, err := h.timeEntryService.ClockIn(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in successfully", entry)
}

// ClockOut implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	entry, err := h.timeEntryService.ClockOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out successfully", entry)
}

// CreateEntry implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.CreateManualEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	entry, err := h.timeEntryService.CreateManual(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time entry created successfully", entry)
}

// ListEntries implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	var filter timeentry.ListFilter
	query := r.URL.Query()

	if userID := query.Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if entryType := query.Get("entry_type"); entryType != "" {
		filter.EntryType = &entryType
	}
	if projectTask := query.Get("project_task"); projectTask != "" {
		filter.ProjectTask = &projectTask
	}
	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if pageSize := query.Get("page_size"); pageSize != "" {
		if ps, err := strconv.Atoi(pageSize); err == nil {
			filter.PageSize = ps
		}
	}

	result, err := h.timeEntryService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetEntry implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.timeEntryService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// UpdateEntry implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.UpdateEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	entry, err := h.timeEntryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry updated successfully", entry)
}

// DeleteEntry implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.DeleteEntryRequest

	if err := decodeOptional(r, &req); err != nil {
		slog.Error("DeleteEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	entry, err := h.timeEntryService.Delete(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time entry deleted successfully", entry)
}

// ApproveEntry implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) ApproveEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ApproveEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ApproveEntry decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timeEntryService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAuditTrail implements TimeEntryHandler.
func (h *TimeEntryHandlerImpl) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	records, err := h.timeEntryService.AuditTrail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// decodeOptional decodes a JSON body when one is present.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
