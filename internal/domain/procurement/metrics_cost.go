package procurement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

// benchmarkPriceEfficiency compares the average paid price per item against
// the median paid price as an internal benchmark. An index above 1.1 flags
// the item as overpriced.
func benchmarkPriceEfficiency(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"item", "orders", "avg_price", "benchmark_price", "index", "flag"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("benchmark price efficiency")
	}
	threshold := params.Float("threshold", 1.1)
	items := d.itemsByID()
	prices := make(map[string][]float64)
	for _, po := range orders {
		label := po.ItemID
		if it, ok := items[po.ItemID]; ok && it.ItemName != "" {
			label = it.ItemName
		}
		prices[label] = append(prices[label], po.UnitPrice.InexactFloat64())
	}
	indexes := make(map[string]float64, len(prices))
	for label, series := range prices {
		indexes[label] = metric.Ratio(metric.Mean(series), metric.Median(series))
	}
	overpriced := 0
	for _, kv := range metric.SortedDesc(indexes) {
		series := prices[kv.Key]
		flag := "At Benchmark"
		if kv.Value > threshold {
			flag = "Overpriced"
			overpriced++
		}
		view.Rows = append(view.Rows, []any{kv.Key, len(series), metric.Round2(metric.Mean(series)), metric.Round2(metric.Median(series)), metric.Round2(kv.Value), flag})
	}
	return view, fmt.Sprintf("%d of %d items overpriced vs benchmark", overpriced, len(prices))
}

// negotiationOpportunity scores each item by volume weight, price stability
// and supplier competition. Scores of 0.7 and above are high priority, 0.4
// and above medium.
func negotiationOpportunity(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"item", "spend", "price_cv_pct", "suppliers", "score", "priority"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("negotiation opportunity")
	}
	items := d.itemsByID()
	spend := make(map[string]float64)
	prices := make(map[string][]float64)
	supplierSets := make(map[string]map[string]bool)
	for _, po := range orders {
		label := po.ItemID
		if it, ok := items[po.ItemID]; ok && it.ItemName != "" {
			label = it.ItemName
		}
		spend[label] += po.Spend().InexactFloat64()
		prices[label] = append(prices[label], po.UnitPrice.InexactFloat64())
		if supplierSets[label] == nil {
			supplierSets[label] = make(map[string]bool)
		}
		supplierSets[label][po.SupplierID] = true
	}
	maxSpend := 0.0
	for _, v := range spend {
		if v > maxSpend {
			maxSpend = v
		}
	}
	scores := make(map[string]float64, len(spend))
	for label, itemSpend := range spend {
		cv := metric.Ratio(metric.StdDev(prices[label]), metric.Mean(prices[label]))
		stability := 1 - cv
		if stability < 0 {
			stability = 0
		}
		competition := float64(len(supplierSets[label])) / 3
		if competition > 1 {
			competition = 1
		}
		scores[label] = metric.Ratio(itemSpend, maxSpend) * stability * competition
	}
	high := 0
	for _, kv := range metric.SortedDesc(scores) {
		priority := "Low"
		switch {
		case kv.Value >= 0.7:
			priority = "High"
			high++
		case kv.Value >= 0.4:
			priority = "Medium"
		}
		cv := metric.Ratio(metric.StdDev(prices[kv.Key]), metric.Mean(prices[kv.Key])) * 100
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(spend[kv.Key]), metric.Round1(cv), len(supplierSets[kv.Key]), metric.Round2(kv.Value), priority})
	}
	return view, fmt.Sprintf("%d high-priority negotiation opportunities", high)
}

// tailSpendOptimization lists the bottom 20% of suppliers by spend as
// consolidation candidates, with the categories they serve
func tailSpendOptimization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "orders", "spend", "categories"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("tail spend optimization")
	}
	names := d.supplierNames()
	items := d.itemsByID()
	spend := make(map[string]float64)
	counts := make(map[string]float64)
	categories := make(map[string]map[string]bool)
	for _, po := range orders {
		label := supplierLabel(names, po.SupplierID)
		spend[label] += po.Spend().InexactFloat64()
		counts[label]++
		if categories[label] == nil {
			categories[label] = make(map[string]bool)
		}
		if it, ok := items[po.ItemID]; ok && it.Category != "" {
			categories[label][it.Category] = true
		}
	}
	bySpendAsc := metric.SortedDesc(spend)
	sort.Slice(bySpendAsc, func(i, j int) bool {
		if bySpendAsc[i].Value != bySpendAsc[j].Value {
			return bySpendAsc[i].Value < bySpendAsc[j].Value
		}
		return bySpendAsc[i].Key < bySpendAsc[j].Key
	})
	tailSize := len(bySpendAsc) / 5
	if tailSize == 0 {
		tailSize = 1
	}
	tailTotal := 0.0
	for _, kv := range bySpendAsc[:tailSize] {
		var cats []string
		for c := range categories[kv.Key] {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		tailTotal += kv.Value
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value), strings.Join(cats, ", ")})
	}
	return view, fmt.Sprintf("Consolidation potential: %s across %d suppliers", metric.Currency(tailTotal), tailSize)
}

func unitCostTrend(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "avg_unit_price", "mom_change_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("unit cost trend")
	}
	prices := make(map[string][]float64)
	for _, po := range orders {
		prices[monthKey(po.OrderDate)] = append(prices[monthKey(po.OrderDate)], po.UnitPrice.InexactFloat64())
	}
	averages := make(map[string]float64, len(prices))
	for key, series := range prices {
		averages[key] = metric.Mean(series)
	}
	months := metric.SortedByKey(averages)
	prev := 0.0
	for i, kv := range months {
		change := 0.0
		if i > 0 {
			change = metric.Ratio(kv.Value-prev, prev) * 100
		}
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(change)})
		prev = kv.Value
	}
	overall := metric.Ratio(months[len(months)-1].Value-months[0].Value, months[0].Value) * 100
	return view, fmt.Sprintf("Unit cost trend: %+.1f%% over period", overall)
}

func savingsRealization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "estimated", "actual", "realization_pct"}}
	if len(d.RFQs) == 0 {
		return view, metric.NoData("savings realization")
	}
	estimated := make(map[string]float64)
	actual := make(map[string]float64)
	totalEstimated := 0.0
	totalActual := 0.0
	for _, r := range d.RFQs {
		key := monthKey(r.IssueDate)
		est := r.EstimatedSavings.InexactFloat64()
		act := r.ActualSavings.InexactFloat64()
		estimated[key] += est
		actual[key] += act
		totalEstimated += est
		totalActual += act
	}
	for _, kv := range metric.SortedByKey(estimated) {
		realization := metric.Ratio(actual[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round2(actual[kv.Key]), metric.Round1(realization)})
	}
	return view, fmt.Sprintf("Realized savings: %s of %s estimated", metric.Currency(totalActual), metric.Currency(totalEstimated))
}

// spendAvoidance totals the amount saved on orders priced below the item's
// standard cost
func spendAvoidance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"item", "orders", "avoidance"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("spend avoidance")
	}
	items := d.itemsByID()
	avoidance := make(map[string]float64)
	counts := make(map[string]float64)
	total := 0.0
	for _, po := range orders {
		it, ok := items[po.ItemID]
		if !ok || it.StandardCost.IsZero() {
			continue
		}
		saved := it.StandardCost.Sub(po.UnitPrice).InexactFloat64() * float64(po.Quantity)
		if saved <= 0 {
			continue
		}
		label := it.ItemName
		if label == "" {
			label = po.ItemID
		}
		avoidance[label] += saved
		counts[label]++
		total += saved
	}
	if len(avoidance) == 0 {
		return view, "No orders priced below standard cost"
	}
	for _, kv := range metric.SortedDesc(avoidance) {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value)})
	}
	return view, "Cost avoidance: " + metric.Currency(total)
}

// contractLeakage measures spend with contracted suppliers that falls
// outside any active contract window
func contractLeakage(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "contracted_spend", "leakage_spend", "leakage_pct"}}
	if len(d.Contracts) == 0 {
		return view, metric.NoData("contract leakage")
	}
	contractsBySupplier := make(map[string][]Contract)
	for _, c := range d.Contracts {
		contractsBySupplier[c.SupplierID] = append(contractsBySupplier[c.SupplierID], c)
	}
	names := d.supplierNames()
	contracted := make(map[string]float64)
	leakage := make(map[string]float64)
	totalContracted := 0.0
	totalLeakage := 0.0
	for _, po := range d.activeOrders() {
		contracts, ok := contractsBySupplier[po.SupplierID]
		if !ok {
			continue
		}
		label := supplierLabel(names, po.SupplierID)
		value := po.Spend().InexactFloat64()
		contracted[label] += value
		totalContracted += value
		covered := false
		for _, c := range contracts {
			if c.ActiveOn(po.OrderDate) {
				covered = true
				break
			}
		}
		if !covered {
			leakage[label] += value
			totalLeakage += value
		}
	}
	if totalContracted == 0 {
		return view, "No spend with contracted suppliers"
	}
	for _, kv := range metric.SortedDesc(contracted) {
		pct := metric.Ratio(leakage[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round2(leakage[kv.Key]), metric.Round1(pct)})
	}
	return view, "Contract leakage: " + metric.Percent(metric.Ratio(totalLeakage, totalContracted)*100)
}
