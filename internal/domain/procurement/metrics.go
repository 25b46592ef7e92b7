package procurement

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/metric"
)

// Metric catalog sections
const (
	sectionSpend    = "Spend Analysis"
	sectionSupplier = "Supplier Performance"
	sectionContract = "Contract & Compliance"
	sectionCost     = "Advanced Cost Analytics"
)

// Metrics builds the procurement metric registry
func Metrics() *metric.Registry[*Dataset] {
	return metric.NewRegistry(
		metric.Definition[*Dataset]{Name: "total-spend", Title: "Total Spend", Section: sectionSpend, Compute: totalSpend},
		metric.Definition[*Dataset]{Name: "monthly-spend-trends", Title: "Monthly Spend Trends", Section: sectionSpend, Compute: monthlySpendTrends},
		metric.Definition[*Dataset]{Name: "spend-by-category", Title: "Spend by Category", Section: sectionSpend, Compute: spendByCategory},
		metric.Definition[*Dataset]{Name: "spend-by-supplier", Title: "Spend by Supplier", Section: sectionSpend, Compute: spendBySupplier},
		metric.Definition[*Dataset]{Name: "spend-by-department", Title: "Spend by Department", Section: sectionSpend, Compute: spendByDepartment},
		metric.Definition[*Dataset]{Name: "budget-utilization", Title: "Budget Utilization", Section: sectionSpend, Compute: budgetUtilization},
		metric.Definition[*Dataset]{Name: "tail-spend", Title: "Tail Spend", Section: sectionSpend, Compute: tailSpend},
		metric.Definition[*Dataset]{Name: "maverick-spend", Title: "Maverick Spend", Section: sectionSpend, Compute: maverickSpend},
		metric.Definition[*Dataset]{Name: "emergency-purchases", Title: "Emergency Purchases", Section: sectionSpend, Compute: emergencyPurchases},

		metric.Definition[*Dataset]{Name: "on-time-delivery", Title: "On-Time Delivery", Section: sectionSupplier, Compute: onTimeDelivery},
		metric.Definition[*Dataset]{Name: "defect-rate", Title: "Defect Rate", Section: sectionSupplier, Compute: defectRate},
		metric.Definition[*Dataset]{Name: "lead-time", Title: "Supplier Lead Time", Section: sectionSupplier, Compute: leadTime},
		metric.Definition[*Dataset]{Name: "order-cycle-time", Title: "Order Cycle Time", Section: sectionSupplier, Compute: orderCycleTime},
		metric.Definition[*Dataset]{Name: "supplier-concentration", Title: "Supplier Concentration", Section: sectionSupplier, Compute: supplierConcentration},
		metric.Definition[*Dataset]{Name: "price-variance", Title: "Price Variance", Section: sectionSupplier, Compute: priceVariance},
		metric.Definition[*Dataset]{Name: "demand-forecast", Title: "Demand Forecast", Section: sectionSupplier, Compute: demandForecast},

		metric.Definition[*Dataset]{Name: "contract-compliance", Title: "Contract Compliance", Section: sectionContract, Compute: contractCompliance},
		metric.Definition[*Dataset]{Name: "contract-utilization", Title: "Contract Utilization", Section: sectionContract, Compute: contractUtilization},
		metric.Definition[*Dataset]{Name: "contract-renewal", Title: "Contract Renewal Pipeline", Section: sectionContract, Compute: contractRenewal},
		metric.Definition[*Dataset]{Name: "rfq-savings", Title: "RFQ Savings", Section: sectionContract, Compute: rfqSavings},
		metric.Definition[*Dataset]{Name: "invoice-accuracy", Title: "Invoice Accuracy", Section: sectionContract, Compute: invoiceAccuracy},
		metric.Definition[*Dataset]{Name: "payment-terms", Title: "Payment Terms", Section: sectionContract, Compute: paymentTerms},

		metric.Definition[*Dataset]{Name: "benchmark-price-efficiency", Title: "Benchmark Price Efficiency", Section: sectionCost, Compute: benchmarkPriceEfficiency},
		metric.Definition[*Dataset]{Name: "negotiation-opportunity", Title: "Negotiation Opportunity", Section: sectionCost, Compute: negotiationOpportunity},
		metric.Definition[*Dataset]{Name: "tail-spend-optimization", Title: "Tail Spend Optimization", Section: sectionCost, Compute: tailSpendOptimization},
		metric.Definition[*Dataset]{Name: "unit-cost-trend", Title: "Unit Cost Trend", Section: sectionCost, Compute: unitCostTrend},
		metric.Definition[*Dataset]{Name: "savings-realization", Title: "Savings Realization", Section: sectionCost, Compute: savingsRealization},
		metric.Definition[*Dataset]{Name: "spend-avoidance", Title: "Spend Avoidance", Section: sectionCost, Compute: spendAvoidance},
		metric.Definition[*Dataset]{Name: "contract-leakage", Title: "Contract Leakage", Section: sectionCost, Compute: contractLeakage},
	)
}

// activeOrders returns the purchase orders that count toward spend
func (d *Dataset) activeOrders() []PurchaseOrder {
	out := make([]PurchaseOrder, 0, len(d.PurchaseOrders))
	for _, po := range d.PurchaseOrders {
		if po.Status != "Cancelled" {
			out = append(out, po)
		}
	}
	return out
}

func (d *Dataset) supplierNames() map[string]string {
	names := make(map[string]string, len(d.Suppliers))
	for _, s := range d.Suppliers {
		names[s.SupplierID] = s.SupplierName
	}
	return names
}

func (d *Dataset) suppliersByID() map[string]Supplier {
	out := make(map[string]Supplier, len(d.Suppliers))
	for _, s := range d.Suppliers {
		out[s.SupplierID] = s
	}
	return out
}

func (d *Dataset) itemsByID() map[string]Item {
	out := make(map[string]Item, len(d.Items))
	for _, it := range d.Items {
		out[it.ItemID] = it
	}
	return out
}

func (d *Dataset) ordersByPOID() map[string]PurchaseOrder {
	out := make(map[string]PurchaseOrder, len(d.PurchaseOrders))
	for _, po := range d.PurchaseOrders {
		out[po.POID] = po
	}
	return out
}

// supplierLabel resolves a supplier ID to its display name, keeping the ID
// when the Suppliers sheet does not know it
func supplierLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
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

func totalSpendValue(orders []PurchaseOrder) float64 {
	total := 0.0
	for _, po := range orders {
		total += po.Spend().InexactFloat64()
	}
	return total
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
