package analytics

import (
	"github.com/kpihub/backend/internal/domain/metric"
	"github.com/kpihub/backend/internal/domain/procurement"
)

// MetricSection groups the catalog entries of one dashboard section
type MetricSection struct {
	Section string              `json:"section"`
	Metrics []metric.Descriptor `json:"metrics"`
}

// CatalogResponse lists the metrics a workspace domain can compute
type CatalogResponse struct {
	Domain   string          `json:"domain"`
	Total    int             `json:"total"`
	Sections []MetricSection `json:"sections"`
}

// MetricResponse carries one computed metric result together with the
// dataset version it was computed against
type MetricResponse struct {
	metric.Result
	Version int  `json:"version"`
	Cached  bool `json:"cached"`
}

// KPI is one headline number of the domain overview
type KPI struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Section  string `json:"section"`
	Headline string `json:"headline"`
}

// OverviewResponse is the dashboard header for one workspace
type OverviewResponse struct {
	Domain    string `json:"domain"`
	Source    string `json:"source"`
	Version   int    `json:"version"`
	TotalRows int    `json:"total_rows"`
	KPIs      []KPI  `json:"kpis"`
}

// TopicInsights carries the findings of one insight topic
type TopicInsights struct {
	Topic    string                `json:"topic"`
	Insights []procurement.Insight `json:"insights"`
}

// InsightsResponse groups narrative findings by topic
type InsightsResponse struct {
	Domain  string          `json:"domain"`
	Version int             `json:"version"`
	Topics  []TopicInsights `json:"topics"`
}

// RiskResponse carries the weighted supply-risk assessment
type RiskResponse struct {
	Domain     string                     `json:"domain"`
	Version    int                        `json:"version"`
	Assessment procurement.RiskAssessment `json:"assessment"`
}
