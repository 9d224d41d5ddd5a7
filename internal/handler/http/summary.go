package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/summary"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SummaryHandler interface {
	GetMySummary(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type SummaryHandlerImpl struct {
	summaryService summary.SummaryService
}

func NewSummaryHandler(summaryService summary.SummaryService) SummaryHandler {
	return &SummaryHandlerImpl{
		summaryService: summaryService,
	}
}

// GetMySummary implements SummaryHandler.
func (h *SummaryHandlerImpl) GetMySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.summaryService.GetSummary(r.Context(), "")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements SummaryHandler.
func (h *SummaryHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.summaryService.GetSummary(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
