package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/kpihub/backend/internal/application/analytics"
	"github.com/kpihub/backend/internal/domain/metric"
)

// AnalyticsHandler answers analytics reads over the current workspace
// dataset: the metric catalog, single-metric computation, the domain
// overview and the procurement insight and risk reports.
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Catalog godoc
// @ID           getMetricCatalog
// @Summary      List available metrics
// @Description  Returns the metric catalog of the workspace domain, grouped into dashboard sections
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analytics.CatalogResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/metrics [get]
func (h *AnalyticsHandler) Catalog(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	catalog, err := h.analyticsService.Catalog(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, catalog)
}

// Compute godoc
// @ID           computeMetric
// @Summary      Compute one metric
// @Description  Runs the named metric over the workspace dataset. An insufficient dataset yields an empty table plus an explanatory headline, not an error.
// @Tags         analytics
// @Produce      json
// @Param        name       path  string true  "Metric name" example(on-time-delivery)
// @Param        start_date query string false "Restrict to rows on or after this date (YYYY-MM-DD)"
// @Param        end_date   query string false "Restrict to rows on or before this date (YYYY-MM-DD)"
// @Param        top_n      query int    false "Bucket count for ranked tables"
// @Param        months     query int    false "Projection horizon for forecast metrics"
// @Success      200 {object} APIResponse[analytics.MetricResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/metrics/{name} [get]
func (h *AnalyticsHandler) Compute(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}

	params := queryParams(c)
	result, err := h.analyticsService.Compute(c.Request.Context(), id, c.Param("name"), params)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Overview godoc
// @ID           getOverview
// @Summary      Domain overview
// @Description  Computes the headline KPIs of the workspace domain in display order
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analytics.OverviewResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	overview, err := h.analyticsService.Overview(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// Insights godoc
// @ID           getInsights
// @Summary      Procurement insights
// @Description  Generates threshold-driven narrative findings over the procurement dataset, every topic in display order
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analytics.InsightsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/insights [get]
func (h *AnalyticsHandler) Insights(c *gin.Context) {
	h.insights(c, "")
}

// InsightsTopic godoc
// @ID           getInsightsTopic
// @Summary      Procurement insights for one topic
// @Description  Generates the narrative findings of a single insight topic
// @Tags         analytics
// @Produce      json
// @Param        topic path string true "Insight topic" example(spend)
// @Success      200 {object} APIResponse[analytics.InsightsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/insights/{topic} [get]
func (h *AnalyticsHandler) InsightsTopic(c *gin.Context) {
	h.insights(c, c.Param("topic"))
}

func (h *AnalyticsHandler) insights(c *gin.Context, topic string) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	insights, err := h.analyticsService.Insights(c.Request.Context(), id, topic)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, insights)
}

// Risk godoc
// @ID           getRiskAssessment
// @Summary      Procurement risk assessment
// @Description  Scores the eight weighted procurement risk categories and consolidates the top mitigation strategies
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analytics.RiskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /analytics/risk [get]
func (h *AnalyticsHandler) Risk(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	risk, err := h.analyticsService.Risk(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, risk)
}

// queryParams flattens the query string into metric parameters. Repeated
// keys keep their first value.
func queryParams(c *gin.Context) metric.Params {
	values := c.Request.URL.Query()
	if len(values) == 0 {
		return nil
	}
	params := make(metric.Params, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	return params
}
