package sales

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/metric"
)

// Metric catalog sections
const (
	sectionRevenue  = "Revenue Analytics"
	sectionPipeline = "Pipeline & Funnel"
	sectionCustomer = "Customer Analytics"
	sectionTeam     = "Team Performance"
)

// Metrics builds the sales metric registry
func Metrics() *metric.Registry[*Dataset] {
	return metric.NewRegistry(
		metric.Definition[*Dataset]{Name: "revenue-by-product", Title: "Revenue by Product", Section: sectionRevenue, Compute: revenueByProduct},
		metric.Definition[*Dataset]{Name: "revenue-growth", Title: "Revenue Growth", Section: sectionRevenue, Compute: revenueGrowth},
		metric.Definition[*Dataset]{Name: "sales-by-region", Title: "Sales by Region", Section: sectionRevenue, Compute: salesByRegion},
		metric.Definition[*Dataset]{Name: "sales-by-channel", Title: "Sales by Channel", Section: sectionRevenue, Compute: salesByChannel},
		metric.Definition[*Dataset]{Name: "revenue-forecast", Title: "Revenue Forecast", Section: sectionRevenue, Compute: revenueForecast},
		metric.Definition[*Dataset]{Name: "profit-margin", Title: "Profit Margin", Section: sectionRevenue, Compute: profitMargin},
		metric.Definition[*Dataset]{Name: "average-selling-price", Title: "Average Selling Price", Section: sectionRevenue, Compute: averageSellingPrice},
		metric.Definition[*Dataset]{Name: "market-penetration", Title: "Market Penetration", Section: sectionRevenue, Compute: marketPenetration},
		metric.Definition[*Dataset]{Name: "market-share", Title: "Market Share Analysis", Section: sectionRevenue, Compute: marketShare},

		metric.Definition[*Dataset]{Name: "win-rate", Title: "Win Rate", Section: sectionPipeline, Compute: winRate},
		metric.Definition[*Dataset]{Name: "conversion-by-stage", Title: "Conversion by Stage", Section: sectionPipeline, Compute: conversionByStage},
		metric.Definition[*Dataset]{Name: "average-deal-size", Title: "Average Deal Size", Section: sectionPipeline, Compute: averageDealSize},
		metric.Definition[*Dataset]{Name: "pipeline-velocity", Title: "Pipeline Velocity", Section: sectionPipeline, Compute: pipelineVelocity},
		metric.Definition[*Dataset]{Name: "time-to-close", Title: "Time to Close", Section: sectionPipeline, Compute: timeToClose},

		metric.Definition[*Dataset]{Name: "customer-churn", Title: "Customer Churn", Section: sectionCustomer, Compute: customerChurn},
		metric.Definition[*Dataset]{Name: "customer-clv", Title: "Customer Lifetime Value", Section: sectionCustomer, Compute: customerLifetimeValue},
		metric.Definition[*Dataset]{Name: "customer-segmentation", Title: "Customer Segmentation", Section: sectionCustomer, Compute: customerSegmentation},
		metric.Definition[*Dataset]{Name: "repeat-purchase-rate", Title: "Repeat Purchase Rate", Section: sectionCustomer, Compute: repeatPurchaseRate},
		metric.Definition[*Dataset]{Name: "new-vs-returning", Title: "New vs Returning Customers", Section: sectionCustomer, Compute: newVsReturning},
		metric.Definition[*Dataset]{Name: "active-accounts", Title: "Active Accounts", Section: sectionCustomer, Compute: activeAccounts},
		metric.Definition[*Dataset]{Name: "dormant-accounts", Title: "Dormant Accounts", Section: sectionCustomer, Compute: dormantAccounts},

		metric.Definition[*Dataset]{Name: "quota-attainment", Title: "Quota Attainment", Section: sectionTeam, Compute: quotaAttainment},
		metric.Definition[*Dataset]{Name: "revenue-per-rep", Title: "Revenue per Rep", Section: sectionTeam, Compute: revenuePerRep},
		metric.Definition[*Dataset]{Name: "call-success-rate", Title: "Call Success Rate", Section: sectionTeam, Compute: callSuccessRate},
		metric.Definition[*Dataset]{Name: "sales-expense-ratio", Title: "Sales Expense Ratio", Section: sectionTeam, Compute: salesExpenseRatio},
		metric.Definition[*Dataset]{Name: "sales-productivity", Title: "Sales Productivity", Section: sectionTeam, Compute: salesProductivity},
		metric.Definition[*Dataset]{Name: "individual-performance", Title: "Individual Performance", Section: sectionTeam, Compute: individualPerformance},
		metric.Definition[*Dataset]{Name: "territory-performance", Title: "Territory Performance", Section: sectionTeam, Compute: territoryPerformance},
	)
}

func (d *Dataset) customersByID() map[string]Customer {
	out := make(map[string]Customer, len(d.Customers))
	for _, c := range d.Customers {
		out[c.CustomerID] = c
	}
	return out
}

func (d *Dataset) productsByID() map[string]Product {
	out := make(map[string]Product, len(d.Products))
	for _, p := range d.Products {
		out[p.ProductID] = p
	}
	return out
}

func (d *Dataset) repsByID() map[string]SalesRep {
	out := make(map[string]SalesRep, len(d.SalesReps))
	for _, r := range d.SalesReps {
		out[r.SalesRepID] = r
	}
	return out
}

// repNames maps rep IDs to display names
func (d *Dataset) repNames() map[string]string {
	names := make(map[string]string, len(d.SalesReps))
	for _, r := range d.SalesReps {
		names[r.SalesRepID] = r.FullName()
	}
	return names
}

// revenueByRepID sums order revenue per sales rep
func (d *Dataset) revenueByRepID() map[string]float64 {
	out := make(map[string]float64)
	for _, o := range d.SalesOrders {
		out[o.SalesRepID] += o.Revenue().InexactFloat64()
	}
	return out
}

// closedOpportunities splits terminal deals into won and lost
func (d *Dataset) closedOpportunities() (won, lost []Opportunity) {
	for _, o := range d.Opportunities {
		switch {
		case o.Won():
			won = append(won, o)
		case o.Lost():
			lost = append(lost, o)
		}
	}
	return won, lost
}

// latestOrderDate returns the most recent order date, used as the reference
// point for recency windows so uploaded history stays analyzable
func (d *Dataset) latestOrderDate() time.Time {
	var latest time.Time
	for _, o := range d.SalesOrders {
		if o.OrderDate.After(latest) {
			latest = o.OrderDate
		}
	}
	return latest
}

// repLabel resolves a rep ID to its display name, keeping the ID when the
// Sales_Reps sheet does not know it
func repLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func totalRevenueValue(orders []SalesOrder) float64 {
	total := 0.0
	for _, o := range orders {
		total += o.Revenue().InexactFloat64()
	}
	return total
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// lastMonth parses the final bucket of a chronologically sorted month series
func lastMonth(months []metric.KV) (time.Time, error) {
	if len(months) == 0 {
		return time.Time{}, fmt.Errorf("no month buckets")
	}
	return time.Parse("2006-01", months[len(months)-1].Key)
}
