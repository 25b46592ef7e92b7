package procurement

import (
	"fmt"
	"sort"
	"time"

	"github.com/kpihub/backend/internal/domain/metric"
)

// Risk levels
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

// RiskCategory is one scored dimension of the assessment
type RiskCategory struct {
	Category   string   `json:"category"`
	Weight     float64  `json:"weight"`
	Score      float64  `json:"score"`
	Level      string   `json:"level"`
	Factors    []string `json:"factors"`
	Mitigation []string `json:"mitigation"`
}

// RiskAssessment is the weighted supply-risk picture of one dataset
type RiskAssessment struct {
	OverallScore float64        `json:"overall_score"`
	OverallLevel string         `json:"overall_level"`
	Categories   []RiskCategory `json:"categories"`
	TopRisks     []string       `json:"top_risks"`
	Mitigation   []string       `json:"mitigation"`
}

func riskLevel(score float64) string {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AssessRisk scores eight weighted risk categories and consolidates the
// top risks and mitigation actions
func AssessRisk(d *Dataset, asOf time.Time) RiskAssessment {
	categories := []RiskCategory{
		supplierConcentrationRisk(d),
		singleSourceRisk(d),
		contractExpiryRisk(d, asOf),
		deliveryPerformanceRisk(d),
		priceVolatilityRisk(d),
		geographicConcentrationRisk(d),
		complianceRisk(d, asOf),
		esgExposureRisk(d),
	}

	overall := 0.0
	for i := range categories {
		categories[i].Score = metric.Round1(categories[i].Score)
		categories[i].Level = riskLevel(categories[i].Score)
		overall += categories[i].Weight * categories[i].Score
	}
	overall = metric.Round1(overall)

	ranked := make([]RiskCategory, len(categories))
	copy(ranked, categories)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	var topRisks []string
	for i := 0; i < 3 && i < len(ranked); i++ {
		topRisks = append(topRisks, fmt.Sprintf("%s (%s, score %.1f)", ranked[i].Category, ranked[i].Level, ranked[i].Score))
	}

	seen := make(map[string]bool)
	var mitigation []string
	for _, c := range ranked {
		for _, m := range c.Mitigation {
			if seen[m] || len(mitigation) >= 10 {
				continue
			}
			seen[m] = true
			mitigation = append(mitigation, m)
		}
	}

	return RiskAssessment{
		OverallScore: overall,
		OverallLevel: riskLevel(overall),
		Categories:   categories,
		TopRisks:     topRisks,
		Mitigation:   mitigation,
	}
}

func supplierConcentrationRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "Supplier Concentration", Weight: 0.25}
	orders := d.activeOrders()
	if len(orders) == 0 {
		c.Factors = []string{"No purchase orders loaded"}
		return c
	}
	names := d.supplierNames()
	bySupplier := make(map[string]float64)
	for _, po := range orders {
		bySupplier[supplierLabel(names, po.SupplierID)] += po.Spend().InexactFloat64()
	}
	total := totalSpendValue(orders)
	ranked := metric.SortedDesc(bySupplier)
	topShare := 0.0
	for i := 0; i < 3 && i < len(ranked); i++ {
		topShare += metric.Ratio(ranked[i].Value, total) * 100
	}
	c.Score = topShare
	c.Factors = []string{fmt.Sprintf("Top 3 suppliers hold %.1f%% of spend", topShare)}
	if topShare >= 60 {
		c.Mitigation = []string{"Qualify alternative suppliers for top categories", "Split awards across at least two suppliers per category"}
	}
	return c
}

func singleSourceRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "Single-Source Dependency", Weight: 0.20}
	orders := d.activeOrders()
	if len(orders) == 0 {
		c.Factors = []string{"No purchase orders loaded"}
		return c
	}
	suppliersPerItem := make(map[string]map[string]bool)
	for _, po := range orders {
		if suppliersPerItem[po.ItemID] == nil {
			suppliersPerItem[po.ItemID] = make(map[string]bool)
		}
		suppliersPerItem[po.ItemID][po.SupplierID] = true
	}
	single := 0
	for _, set := range suppliersPerItem {
		if len(set) == 1 {
			single++
		}
	}
	share := metric.Ratio(float64(single), float64(len(suppliersPerItem))) * 100
	c.Score = share
	c.Factors = []string{fmt.Sprintf("%d of %d purchased items have a single source", single, len(suppliersPerItem))}
	if share >= 30 {
		c.Mitigation = []string{"Run RFQs to qualify second sources for single-sourced items"}
	}
	return c
}

func contractExpiryRisk(d *Dataset, asOf time.Time) RiskCategory {
	c := RiskCategory{Category: "Contract Expiry", Weight: 0.15}
	if len(d.Contracts) == 0 {
		c.Factors = []string{"No contracts loaded"}
		return c
	}
	active, expiring := 0.0, 0.0
	for _, ct := range d.Contracts {
		if !ct.ActiveOn(asOf) {
			continue
		}
		active++
		if daysBetween(asOf, ct.EndDate) <= 90 {
			expiring++
		}
	}
	if active == 0 {
		c.Factors = []string{"No contracts active on the reference date"}
		return c
	}
	c.Score = metric.Ratio(expiring, active) * 100
	c.Factors = []string{fmt.Sprintf("%.0f of %.0f active contracts expire within 90 days", expiring, active)}
	if expiring > 0 {
		c.Mitigation = []string{"Open renewal negotiations for contracts expiring within 90 days"}
	}
	return c
}

func deliveryPerformanceRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "Delivery Performance", Weight: 0.15}
	measured, onTime := 0.0, 0.0
	for _, del := range d.Deliveries {
		if del.ActualDate.IsZero() || del.DeliveryDate.IsZero() {
			continue
		}
		measured++
		if del.OnTime() {
			onTime++
		}
	}
	if measured == 0 {
		c.Factors = []string{"No measurable deliveries loaded"}
		return c
	}
	otd := metric.Ratio(onTime, measured) * 100
	c.Score = 100 - otd
	c.Factors = []string{fmt.Sprintf("On-time delivery at %.1f%%", otd)}
	if otd < 85 {
		c.Mitigation = []string{"Set delivery SLAs with the worst performing suppliers", "Add buffer stock for long lead-time items"}
	}
	return c
}

func priceVolatilityRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "Price Volatility", Weight: 0.10}
	orders := d.activeOrders()
	if len(orders) == 0 {
		c.Factors = []string{"No purchase orders loaded"}
		return c
	}
	prices := make(map[string][]float64)
	for _, po := range orders {
		prices[po.ItemID] = append(prices[po.ItemID], po.UnitPrice.InexactFloat64())
	}
	var cvs []float64
	for _, series := range prices {
		if len(series) < 2 {
			continue
		}
		cvs = append(cvs, metric.Ratio(metric.StdDev(series), metric.Mean(series))*100)
	}
	if len(cvs) == 0 {
		c.Factors = []string{"Not enough repeat purchases to measure volatility"}
		return c
	}
	avgCV := metric.Mean(cvs)
	if avgCV > 100 {
		avgCV = 100
	}
	c.Score = avgCV
	c.Factors = []string{fmt.Sprintf("Average unit-price variation of %.1f%% across repeat items", avgCV)}
	if avgCV >= 20 {
		c.Mitigation = []string{"Lock prices with fixed-price contracts for volatile items"}
	}
	return c
}

func geographicConcentrationRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "Geographic Concentration", Weight: 0.05}
	orders := d.activeOrders()
	if len(orders) == 0 || len(d.Suppliers) == 0 {
		c.Factors = []string{"No supplier geography loaded"}
		return c
	}
	suppliers := d.suppliersByID()
	byCountry := make(map[string]float64)
	total := 0.0
	for _, po := range orders {
		s, ok := suppliers[po.SupplierID]
		if !ok || s.Country == "" {
			continue
		}
		value := po.Spend().InexactFloat64()
		byCountry[s.Country] += value
		total += value
	}
	ranked := metric.SortedDesc(byCountry)
	if len(ranked) == 0 || total == 0 {
		c.Factors = []string{"No supplier geography loaded"}
		return c
	}
	share := metric.Ratio(ranked[0].Value, total) * 100
	c.Score = share
	c.Factors = []string{fmt.Sprintf("%s receives %.1f%% of spend", ranked[0].Key, share)}
	if share >= 50 {
		c.Mitigation = []string{"Develop suppliers in a second region to reduce geographic exposure"}
	}
	return c
}

func complianceRisk(d *Dataset, asOf time.Time) RiskCategory {
	c := RiskCategory{Category: "Contract Compliance", Weight: 0.05}
	active, compliant := 0.0, 0.0
	for _, ct := range d.Contracts {
		if ct.ActiveOn(asOf) {
			active++
			if ct.ComplianceStatus == "Compliant" {
				compliant++
			}
		}
	}
	if active == 0 {
		c.Factors = []string{"No contracts active on the reference date"}
		return c
	}
	rate := metric.Ratio(compliant, active) * 100
	c.Score = 100 - rate
	c.Factors = []string{fmt.Sprintf("Contract compliance at %.1f%%", rate)}
	if rate < 90 {
		c.Mitigation = []string{"Audit non-compliant contracts and agree remediation plans"}
	}
	return c
}

func esgExposureRisk(d *Dataset) RiskCategory {
	c := RiskCategory{Category: "ESG Exposure", Weight: 0.05}
	orders := d.activeOrders()
	if len(orders) == 0 || len(d.Suppliers) == 0 {
		c.Factors = []string{"No supplier ESG data loaded"}
		return c
	}
	suppliers := d.suppliersByID()
	lowESG := 0.0
	total := 0.0
	for _, po := range orders {
		s, ok := suppliers[po.SupplierID]
		if !ok {
			continue
		}
		value := po.Spend().InexactFloat64()
		total += value
		if s.ESGScore < 50 {
			lowESG += value
		}
	}
	if total == 0 {
		c.Factors = []string{"No supplier ESG data loaded"}
		return c
	}
	share := metric.Ratio(lowESG, total) * 100
	c.Score = share
	c.Factors = []string{fmt.Sprintf("%.1f%% of spend goes to suppliers with ESG scores below 50", share)}
	if share >= 20 {
		c.Mitigation = []string{"Launch ESG improvement plans with low scoring suppliers"}
	}
	return c
}
