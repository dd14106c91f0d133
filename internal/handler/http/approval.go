package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/approval"
	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/campus-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ApprovalHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
	GetResolution(w http.ResponseWriter, r *http.Request)
	GetStageStatus(w http.ResponseWriter, r *http.Request)
	DecideStage(w http.ResponseWriter, r *http.Request)
	ListStudentRequests(w http.ResponseWriter, r *http.Request)
}

type ApprovalHandlerImpl struct {
	approvalService approval.ApprovalService
}

func NewApprovalHandler(approvalService approval.ApprovalService) ApprovalHandler {
	return &ApprovalHandlerImpl{approvalService: approvalService}
}

// Resolve implements ApprovalHandler.
func (h *ApprovalHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req approval.ResolveRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Resolve decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resolution, err := h.approvalService.ResolveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resolution)
}

// GetResolution implements ApprovalHandler.
func (h *ApprovalHandlerImpl) GetResolution(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	// Students only see their own requests; anyone else's reads as not found.
	var ownerID string
	p, _ := middleware.PrincipalFromContext(r.Context())
	if !p.Role.IsStaff() {
		if p.StudentID == nil {
			response.HandleError(w, user.ErrStudentAccessDenied)
			return
		}
		ownerID = *p.StudentID
	}

	resolution, err := h.approvalService.GetResolution(r.Context(), requestID, ownerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resolution)
}

// GetStageStatus implements ApprovalHandler.
func (h *ApprovalHandlerImpl) GetStageStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	stage := chi.URLParam(r, "stage")

	status, err := h.approvalService.GetStageStatus(r.Context(), requestID, approval.StageName(stage))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// DecideStage implements ApprovalHandler.
func (h *ApprovalHandlerImpl) DecideStage(w http.ResponseWriter, r *http.Request) {
	var req approval.DecideStageRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideStage decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.RequestID = chi.URLParam(r, "id")
	req.Stage = approval.StageName(chi.URLParam(r, "stage"))
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		req.DecidedBy = p.UserID
	}

	resolution, err := h.approvalService.DecideStage(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Approval stage decided successfully", resolution)
}

// ListStudentRequests implements ApprovalHandler.
func (h *ApprovalHandlerImpl) ListStudentRequests(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "id")
	query := r.URL.Query()

	var filter approval.LeaveRequestFilter
	if v := query.Get("overall_status"); v != "" {
		filter.OverallStatus = &v
	}
	if v := query.Get("request_type"); v != "" {
		filter.RequestType = &v
	}
	if v := query.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "page must be a number", nil)
			return
		}
		filter.Page = page
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}

	list, err := h.approvalService.ListStudentRequests(r.Context(), studentID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Requests, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}
