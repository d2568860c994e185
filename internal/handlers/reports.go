package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/midgardbridge/dealreport/internal/repos"
	"github.com/midgardbridge/dealreport/internal/services"
)

type ReportsHandler struct {
	reports services.ReportService
}

func NewReportsHandler(reports services.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// GET /api/reports?status=NEW
func (h *ReportsHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListReports(c.Request.Context(), c.Query("status"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_reports_failed", err)
		return
	}
	RespondOK(c, gin.H{"reports": reports})
}

type updateReportBody struct {
	Status         string `json:"status" binding:"required"`
	NewExpectedMin *int   `json:"newExpectedMin"`
	NewExpectedMax *int   `json:"newExpectedMax"`
	AlternativeBid string `json:"alternativeBid"`
}

// PUT /api/reports/:reportId
func (h *ReportsHandler) UpdateReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}
	var body updateReportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	err = h.reports.UpdateResolution(c.Request.Context(), reportID, services.ResolutionUpdate{
		Status:         body.Status,
		NewExpectedMin: body.NewExpectedMin,
		NewExpectedMax: body.NewExpectedMax,
		AlternativeBid: body.AlternativeBid,
	})
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "report_not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "update_report_failed", err)
		return
	}
	RespondOK(c, gin.H{"value": "OK"})
}

type updateReportStatusBody struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/reports/:reportId/status
func (h *ReportsHandler) UpdateReportStatus(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("reportId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_report_id", err)
		return
	}
	var body updateReportStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}

	err = h.reports.UpdateStatus(c.Request.Context(), reportID, body.Status)
	if errors.Is(err, repos.ErrNotFound) {
		RespondError(c, http.StatusNotFound, "report_not_found", err)
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "update_report_status_failed", err)
		return
	}
	RespondOK(c, gin.H{"value": "OK"})
}
