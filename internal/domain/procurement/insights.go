package procurement

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/metric"
	"github.com/kpihub/backend/internal/domain/shared"
)

// Insight severity levels, ordered from most to least urgent
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
	SeveritySuccess  = "success"
)

// Insight is one narrative finding derived from the dataset
type Insight struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Insight topics
const (
	TopicSpend             = "spend"
	TopicSupplier          = "supplier-performance"
	TopicCostSavings       = "cost-savings"
	TopicProcessEfficiency = "process-efficiency"
	TopicComplianceRisk    = "compliance-risk"
	TopicSustainability    = "sustainability"
	TopicExecutiveSummary  = "executive-summary"
)

// InsightTopics returns all topic keys in display order
func InsightTopics() []string {
	return []string{
		TopicSpend, TopicSupplier, TopicCostSavings, TopicProcessEfficiency,
		TopicComplianceRisk, TopicSustainability, TopicExecutiveSummary,
	}
}

// Insights generates the narrative findings for one topic
func Insights(d *Dataset, topic string, asOf time.Time) ([]Insight, error) {
	switch topic {
	case TopicSpend:
		return spendInsights(d), nil
	case TopicSupplier:
		return supplierInsights(d), nil
	case TopicCostSavings:
		return costSavingsInsights(d), nil
	case TopicProcessEfficiency:
		return processEfficiencyInsights(d), nil
	case TopicComplianceRisk:
		return complianceRiskInsights(d, asOf), nil
	case TopicSustainability:
		return sustainabilityInsights(d), nil
	case TopicExecutiveSummary:
		return executiveSummary(d, asOf), nil
	default:
		return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Unknown insight topic: %s", topic))
	}
}

func spendInsights(d *Dataset) []Insight {
	orders := d.activeOrders()
	if len(orders) == 0 {
		return []Insight{{Severity: SeverityInfo, Message: "No purchase orders loaded"}}
	}
	var insights []Insight
	total := totalSpendValue(orders)

	items := d.itemsByID()
	byCategory := make(map[string]float64)
	for _, po := range orders {
		category := "Uncategorized"
		if it, ok := items[po.ItemID]; ok && it.Category != "" {
			category = it.Category
		}
		byCategory[category] += po.Spend().InexactFloat64()
	}
	if ranked := metric.SortedDesc(byCategory); len(ranked) > 0 {
		share := metric.Ratio(ranked[0].Value, total) * 100
		switch {
		case share > 50:
			insights = append(insights, Insight{Severity: SeverityCritical,
				Message: fmt.Sprintf("Category %s concentrates %.1f%% of spend, a single point of failure", ranked[0].Key, share)})
		case share > 30:
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Category %s accounts for %.1f%% of spend, consider diversifying", ranked[0].Key, share)})
		default:
			insights = append(insights, Insight{Severity: SeveritySuccess,
				Message: fmt.Sprintf("Spend is well diversified, top category %s holds %.1f%%", ranked[0].Key, share)})
		}
	}

	spendByCode := make(map[string]float64)
	for _, po := range orders {
		spendByCode[po.BudgetCode] += po.Spend().InexactFloat64()
	}
	for _, b := range d.Budgets {
		utilization := metric.Ratio(spendByCode[b.BudgetCode], b.Amount.InexactFloat64()) * 100
		if utilization > 100 {
			insights = append(insights, Insight{Severity: SeverityCritical,
				Message: fmt.Sprintf("Budget %s is overspent at %.1f%% utilization", b.BudgetCode, utilization)})
		} else if utilization > 0 && utilization < 80 {
			insights = append(insights, Insight{Severity: SeverityInfo,
				Message: fmt.Sprintf("Budget %s is underutilized at %.1f%%", b.BudgetCode, utilization)})
		}
	}

	insights = append(insights, Insight{Severity: SeverityInfo,
		Message: fmt.Sprintf("Total spend across %d orders: %s", len(orders), metric.Currency(total))})
	return insights
}

func supplierInsights(d *Dataset) []Insight {
	orders := d.activeOrders()
	if len(orders) == 0 {
		return []Insight{{Severity: SeverityInfo, Message: "No purchase orders loaded"}}
	}
	var insights []Insight
	total := totalSpendValue(orders)
	names := d.supplierNames()
	bySupplier := make(map[string]float64)
	for _, po := range orders {
		bySupplier[supplierLabel(names, po.SupplierID)] += po.Spend().InexactFloat64()
	}
	if ranked := metric.SortedDesc(bySupplier); len(ranked) > 0 {
		share := metric.Ratio(ranked[0].Value, total) * 100
		switch {
		case share > 40:
			insights = append(insights, Insight{Severity: SeverityCritical,
				Message: fmt.Sprintf("Supplier %s holds %.1f%% of spend, severe dependency risk", ranked[0].Key, share)})
		case share > 25:
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Supplier %s holds %.1f%% of spend, monitor dependency", ranked[0].Key, share)})
		default:
			insights = append(insights, Insight{Severity: SeveritySuccess,
				Message: fmt.Sprintf("Supplier base is balanced, top supplier %s holds %.1f%%", ranked[0].Key, share)})
		}
	}

	measured, onTime := 0.0, 0.0
	defects := 0.0
	for _, del := range d.Deliveries {
		if !del.ActualDate.IsZero() && !del.DeliveryDate.IsZero() {
			measured++
			if del.OnTime() {
				onTime++
			}
		}
		if del.DefectFlag {
			defects++
		}
	}
	if measured > 0 {
		otd := metric.Ratio(onTime, measured) * 100
		if otd < 85 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("On-time delivery at %.1f%% is below the 85%% target", otd)})
		} else {
			insights = append(insights, Insight{Severity: SeveritySuccess,
				Message: fmt.Sprintf("On-time delivery is healthy at %.1f%%", otd)})
		}
	}
	if len(d.Deliveries) > 0 {
		rate := metric.Ratio(defects, float64(len(d.Deliveries))) * 100
		if rate > 5 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Defect rate of %.1f%% exceeds the 5%% threshold", rate)})
		}
	}
	return insights
}

func costSavingsInsights(d *Dataset) []Insight {
	var insights []Insight
	if len(d.RFQs) > 0 {
		estimated, actual := 0.0, 0.0
		for _, r := range d.RFQs {
			estimated += r.EstimatedSavings.InexactFloat64()
			actual += r.ActualSavings.InexactFloat64()
		}
		realization := metric.Ratio(actual, estimated) * 100
		if realization < 70 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Only %.1f%% of estimated RFQ savings were realized", realization)})
		} else {
			insights = append(insights, Insight{Severity: SeveritySuccess,
				Message: fmt.Sprintf("Savings realization is strong at %.1f%% (%s)", realization, metric.Currency(actual))})
		}
	}

	view, _ := negotiationOpportunity(d, nil)
	high := 0
	for _, row := range view.Rows {
		if len(row) == 6 && row[5] == "High" {
			high++
		}
	}
	if high > 0 {
		insights = append(insights, Insight{Severity: SeverityInfo,
			Message: fmt.Sprintf("%d items show high negotiation potential", high)})
	}

	if _, headline := spendAvoidance(d, nil); len(d.PurchaseOrders) > 0 {
		insights = append(insights, Insight{Severity: SeverityInfo, Message: headline})
	}
	if len(insights) == 0 {
		insights = append(insights, Insight{Severity: SeverityInfo, Message: "No savings activity recorded"})
	}
	return insights
}

func processEfficiencyInsights(d *Dataset) []Insight {
	var insights []Insight
	orders := d.ordersByPOID()
	var cycles []float64
	for _, del := range d.Deliveries {
		if po, ok := orders[del.POID]; ok && !del.ActualDate.IsZero() && !po.OrderDate.IsZero() {
			cycles = append(cycles, daysBetween(po.OrderDate, del.ActualDate))
		}
	}
	if len(cycles) > 0 {
		avg := metric.Mean(cycles)
		if avg > 14 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Average order cycle of %.1f days exceeds the 14-day target", avg)})
		} else {
			insights = append(insights, Insight{Severity: SeveritySuccess,
				Message: fmt.Sprintf("Order cycle time is healthy at %.1f days", avg)})
		}
	}

	if len(d.PurchaseOrders) > 0 {
		urgent := 0
		for _, po := range d.PurchaseOrders {
			if po.Status == "Urgent" {
				urgent++
			}
		}
		share := metric.Ratio(float64(urgent), float64(len(d.PurchaseOrders))) * 100
		if share > 5 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Emergency purchases make up %.1f%% of orders, review planning", share)})
		}
	}

	if len(d.Invoices) > 0 {
		_, headline := invoiceAccuracy(d, nil)
		insights = append(insights, Insight{Severity: SeverityInfo, Message: headline})
	}
	if len(insights) == 0 {
		insights = append(insights, Insight{Severity: SeverityInfo, Message: "No process activity recorded"})
	}
	return insights
}

func complianceRiskInsights(d *Dataset, asOf time.Time) []Insight {
	var insights []Insight
	if len(d.Contracts) > 0 {
		active, compliant := 0.0, 0.0
		for _, c := range d.Contracts {
			if c.ActiveOn(asOf) {
				active++
				if c.ComplianceStatus == "Compliant" {
					compliant++
				}
			}
		}
		if active > 0 {
			rate := metric.Ratio(compliant, active) * 100
			switch {
			case rate < 80:
				insights = append(insights, Insight{Severity: SeverityCritical,
					Message: fmt.Sprintf("Contract compliance at %.1f%% is critically low", rate)})
			case rate < 90:
				insights = append(insights, Insight{Severity: SeverityWarning,
					Message: fmt.Sprintf("Contract compliance at %.1f%% is below the 90%% target", rate)})
			default:
				insights = append(insights, Insight{Severity: SeveritySuccess,
					Message: fmt.Sprintf("Contract compliance is healthy at %.1f%%", rate)})
			}
		}
	}

	orders := d.activeOrders()
	if len(orders) > 0 {
		contractsBySupplier := make(map[string][]Contract)
		for _, c := range d.Contracts {
			contractsBySupplier[c.SupplierID] = append(contractsBySupplier[c.SupplierID], c)
		}
		maverick := 0.0
		for _, po := range orders {
			covered := false
			for _, c := range contractsBySupplier[po.SupplierID] {
				if c.ActiveOn(po.OrderDate) {
					covered = true
					break
				}
			}
			if !covered {
				maverick += po.Spend().InexactFloat64()
			}
		}
		share := metric.Ratio(maverick, totalSpendValue(orders)) * 100
		if share > 15 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("Maverick spend at %.1f%% of total is above the 15%% threshold", share)})
		}
	}
	if len(insights) == 0 {
		insights = append(insights, Insight{Severity: SeverityInfo, Message: "No contracts loaded"})
	}
	return insights
}

func sustainabilityInsights(d *Dataset) []Insight {
	if len(d.Suppliers) == 0 {
		return []Insight{{Severity: SeverityInfo, Message: "No suppliers loaded"}}
	}
	var insights []Insight
	var scores []float64
	for _, s := range d.Suppliers {
		scores = append(scores, s.ESGScore)
	}
	avg := metric.Mean(scores)
	if avg < 60 {
		insights = append(insights, Insight{Severity: SeverityWarning,
			Message: fmt.Sprintf("Average supplier ESG score of %.1f is below the 60-point target", avg)})
	} else {
		insights = append(insights, Insight{Severity: SeveritySuccess,
			Message: fmt.Sprintf("Average supplier ESG score is %.1f", avg)})
	}

	orders := d.activeOrders()
	if len(orders) > 0 {
		suppliers := d.suppliersByID()
		lowESG := 0.0
		preferred := 0.0
		total := totalSpendValue(orders)
		for _, po := range orders {
			s, ok := suppliers[po.SupplierID]
			if !ok {
				continue
			}
			value := po.Spend().InexactFloat64()
			if s.ESGScore < 50 {
				lowESG += value
			}
			if s.Preferred {
				preferred += value
			}
		}
		if share := metric.Ratio(lowESG, total) * 100; share > 20 {
			insights = append(insights, Insight{Severity: SeverityWarning,
				Message: fmt.Sprintf("%.1f%% of spend goes to suppliers with ESG scores below 50", share)})
		}
		insights = append(insights, Insight{Severity: SeverityInfo,
			Message: fmt.Sprintf("Preferred suppliers receive %.1f%% of spend", metric.Ratio(preferred, total)*100)})
	}
	return insights
}

// executiveSummary takes the leading finding from each topic
func executiveSummary(d *Dataset, asOf time.Time) []Insight {
	var summary []Insight
	sections := [][]Insight{
		spendInsights(d),
		supplierInsights(d),
		costSavingsInsights(d),
		processEfficiencyInsights(d),
		complianceRiskInsights(d, asOf),
		sustainabilityInsights(d),
	}
	for _, insights := range sections {
		if len(insights) > 0 {
			summary = append(summary, insights[0])
		}
	}
	return summary
}
