package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/reporting"
	"spendbook/internal/services"
)

// ReportHandler serves the reporting page data.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportQuery holds the optional report period parameters.
type ReportQuery struct {
	Month int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int    `form:"year" binding:"omitempty,min=1,max=9999"`
	View  string `form:"view" binding:"omitempty,report_view"`
}

// GetReport builds the report for a month
// @Summary     Spending report
// @Description Totals, growth, trends and category breakdown for a month. Missing parameters default to the current month and the monthly view.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       month query int    false "Month 1-12"
// @Param       year  query int    false "Year"
// @Param       view  query string false "Trend granularity" Enums(monthly, quarterly, yearly)
// @Success     200 {object} services.Report "Report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.reportService.BuildReport(c.Request.Context(), services.ReportRequest{
		Month: q.Month,
		Year:  q.Year,
		View:  reporting.View(q.View),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
