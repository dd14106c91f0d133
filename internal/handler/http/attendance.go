package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Classify(w http.ResponseWriter, r *http.Request)
	Aggregate(w http.ResponseWriter, r *http.Request)
	GetStudentStatistics(w http.ResponseWriter, r *http.Request)
	GetStudentOverview(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// Classify implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Classify(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClassifyDayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Classify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	day, err := h.attendanceService.Classify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, day)
}

// Aggregate implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req attendance.AggregateRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Aggregate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.Aggregate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStudentStatistics implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetStudentStatistics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := attendance.StudentStatisticsFilter{
		StudentID:   chi.URLParam(r, "id"),
		Granularity: query.Get("granularity"),
		StartDate:   query.Get("start_date"),
		EndDate:     query.Get("end_date"),
	}

	result, err := h.attendanceService.GetStudentStatistics(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStudentOverview implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetStudentOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.attendanceService.GetStudentOverview(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}
