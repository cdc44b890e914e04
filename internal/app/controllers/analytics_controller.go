package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ddct/showcase/internal/app/models/dto"
	"github.com/ddct/showcase/internal/app/services"
	"github.com/ddct/showcase/internal/middleware"
	"github.com/ddct/showcase/internal/pkg/export"
)

// AnalyticsController handles analytics export
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
	logger           zerolog.Logger
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService, logger zerolog.Logger) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// ExportReport godoc
// @Summary Export an analytics report
// @Description Runs an engagement report and streams it in the requested format. Every format carries the same rows. Admin only.
// @Tags admin
// @Accept json
// @Produce text/csv
// @Produce json
// @Produce application/pdf
// @Security ApiKeyAuth
// @Param report query string true "Report: categories, cohorts, monthly, top"
// @Param format query string false "Format: csv (default), json, pdf"
// @Param tag query string false "Tag filter for the top report"
// @Param year query int false "Year filter for the top report"
// @Param limit query int false "Row limit for the top report (default: 10, max: 100)"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse "Invalid report or format"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/analytics/export [get]
func (c *AnalyticsController) ExportReport(ctx *gin.Context) {
	var req dto.AnalyticsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	table, err := c.analyticsService.BuildReport(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Error().Err(err).Str("report", req.Report).Msg("Failed to build analytics report")
		middleware.HandleAPIError(ctx, err)
		return
	}

	format := export.ParseFormat(req.Format)

	var buf bytes.Buffer
	if err := export.Write(&buf, *table, format); err != nil {
		c.logger.Error().Err(err).Str("format", string(format)).Msg("Failed to render analytics report")
		middleware.HandleAPIError(ctx, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", req.Report, time.Now().Format("2006-01-02"), format.Extension())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
