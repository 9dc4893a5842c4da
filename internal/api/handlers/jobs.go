package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"vibe-jobs-gateway/internal/backend"
	"vibe-jobs-gateway/internal/cache"
	"vibe-jobs-gateway/internal/config"
	"vibe-jobs-gateway/internal/jobs"
	"vibe-jobs-gateway/internal/logging"
	"vibe-jobs-gateway/internal/sanitizer"
	"vibe-jobs-gateway/pkg/models"
	"vibe-jobs-gateway/pkg/utils"
)

var validate = validator.New()

// jobsListRequest binds the public list query parameters.
type jobsListRequest struct {
	Q          string `query:"q"`
	Location   string `query:"location"`
	Company    string `query:"company"`
	Level      string `query:"level"`
	Remote     string `query:"remote"`
	SalaryMin  string `query:"salaryMin"`
	DatePosted string `query:"datePosted"`
	Size       int    `query:"size" validate:"omitempty,min=1,max=100"`
	Cursor     string `query:"cursor"`
}

// JobsHandler serves one date-filtered page of normalized jobs, proxying the
// upstream list endpoint through the page loader so the "posted within N
// days" filter and locally synthesized cursors work the same here as in any
// embedding client.
func JobsHandler(cfg *config.Config, client *backend.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.GetGlobalLogger().WithField("request_id", requestID)

		var req jobsListRequest
		if err := c.Bind(&req); err != nil {
			logger.Warn("Failed to bind jobs query", map[string]any{"error": err.Error()})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid query parameters",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			verr := utils.NewValidationError(err.Error())
			return c.JSON(verr.Code, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   verr.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		pageSize := req.Size
		if pageSize <= 0 {
			pageSize = cfg.Jobs.PageSize
		}

		trimmedQuery := strings.TrimSpace(req.Q)
		query := models.JobsQuery{
			Q:            trimmedQuery,
			SearchDetail: trimmedQuery != "",
			Location:     strings.TrimSpace(req.Location),
			Company:      req.Company,
			Level:        req.Level,
			Remote:       req.Remote,
			SalaryMin:    req.SalaryMin,
			DatePosted:   req.DatePosted,
		}

		page, err := jobs.LoadPage(c.Request().Context(), client.FetchJobs, jobs.PageRequest{
			Query:    query,
			PageSize: pageSize,
			Cursor:   req.Cursor,
		})
		if err != nil {
			uerr := utils.NewUpstreamError(err.Error())
			logger.Error("Jobs page load failed", map[string]any{"error": err.Error()})
			return c.JSON(uerr.Code, models.ErrorResponse{
				Error:     "upstream_fetch_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		var nextCursor *string
		if page.NextCursor != "" {
			cursor := page.NextCursor
			nextCursor = &cursor
		}

		logger.Info("Jobs page served", map[string]any{
			"items":    len(page.Items),
			"has_more": page.HasMore,
		})
		return c.JSON(http.StatusOK, models.JobsResponse{
			Items:      page.Items,
			Total:      page.Total,
			NextCursor: nextCursor,
			HasMore:    page.HasMore,
			Size:       page.Size,
		})
	}
}

// JobDetailHandler serves a normalized job detail with sanitized description
// HTML, consulting the Redis cache before the backend. The cache stores the
// already-sanitized record; sanitization is idempotent, so serving a cached
// entry through this path again is harmless.
func JobDetailHandler(cfg *config.Config, client *backend.Client, detailCache *cache.DetailCache) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := requestIDFrom(c)
		logger := logging.GetGlobalLogger().WithField("request_id", requestID)

		id := c.Param("id")
		if strings.TrimSpace(id) == "" {
			berr := utils.NewBadRequestError("Job id is required")
			return c.JSON(berr.Code, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   berr.Message,
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()
		if detail, ok := detailCache.Get(ctx, id); ok {
			logger.Debug("Job detail served from cache", map[string]any{"job_id": id})
			return c.JSON(http.StatusOK, detail)
		}

		detail, err := client.FetchJobDetail(ctx, id)
		if err != nil {
			uerr := utils.NewUpstreamError(err.Error())
			logger.Error("Job detail fetch failed", map[string]any{"job_id": id, "error": err.Error()})
			return c.JSON(uerr.Code, models.ErrorResponse{
				Error:     "upstream_fetch_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		detail.Content = sanitizer.SanitizeJobContent(detail.Content)
		detailCache.Set(ctx, id, detail)

		logger.Info("Job detail served", map[string]any{"job_id": id})
		return c.JSON(http.StatusOK, detail)
	}
}

func requestIDFrom(c echo.Context) string {
	if id, ok := c.Get("request_id").(string); ok && id != "" {
		return id
	}
	return utils.GenerateRequestID()
}
