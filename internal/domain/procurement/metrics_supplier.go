package procurement

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func onTimeDelivery(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "deliveries", "on_time", "otd_pct"}}
	if len(d.Deliveries) == 0 {
		return view, metric.NoData("on-time delivery")
	}
	orders := d.ordersByPOID()
	names := d.supplierNames()
	deliveries := make(map[string]float64)
	onTime := make(map[string]float64)
	totalOnTime := 0.0
	measured := 0.0
	for _, del := range d.Deliveries {
		if del.ActualDate.IsZero() || del.DeliveryDate.IsZero() {
			continue
		}
		label := del.POID
		if po, ok := orders[del.POID]; ok {
			label = supplierLabel(names, po.SupplierID)
		}
		deliveries[label]++
		measured++
		if del.OnTime() {
			onTime[label]++
			totalOnTime++
		}
	}
	if measured == 0 {
		return view, "No deliveries with both promised and actual dates"
	}
	for _, kv := range metric.SortedDesc(deliveries) {
		pct := metric.Ratio(onTime[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), int(onTime[kv.Key]), metric.Round1(pct)})
	}
	return view, "On-time delivery: " + metric.Percent(metric.Ratio(totalOnTime, measured)*100)
}

func defectRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "deliveries", "defects", "defect_pct"}}
	if len(d.Deliveries) == 0 {
		return view, metric.NoData("defect rate")
	}
	orders := d.ordersByPOID()
	names := d.supplierNames()
	deliveries := make(map[string]float64)
	defects := make(map[string]float64)
	totalDefects := 0.0
	for _, del := range d.Deliveries {
		label := del.POID
		if po, ok := orders[del.POID]; ok {
			label = supplierLabel(names, po.SupplierID)
		}
		deliveries[label]++
		if del.DefectFlag {
			defects[label]++
			totalDefects++
		}
	}
	for _, kv := range metric.SortedDesc(defects) {
		count := deliveries[kv.Key]
		view.Rows = append(view.Rows, []any{kv.Key, int(count), int(kv.Value), metric.Round1(metric.Ratio(kv.Value, count) * 100)})
	}
	overall := metric.Ratio(totalDefects, float64(len(d.Deliveries))) * 100
	return view, "Defect rate: " + metric.Percent(overall)
}

func leadTime(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "deliveries", "avg_lead_days"}}
	if len(d.Deliveries) == 0 {
		return view, metric.NoData("supplier lead time")
	}
	orders := d.ordersByPOID()
	names := d.supplierNames()
	leadDays := make(map[string][]float64)
	var all []float64
	for _, del := range d.Deliveries {
		po, ok := orders[del.POID]
		if !ok || del.ActualDate.IsZero() || po.OrderDate.IsZero() {
			continue
		}
		days := daysBetween(po.OrderDate, del.ActualDate)
		label := supplierLabel(names, po.SupplierID)
		leadDays[label] = append(leadDays[label], days)
		all = append(all, days)
	}
	if len(all) == 0 {
		return view, "No deliveries matched to purchase orders"
	}
	averages := make(map[string]float64, len(leadDays))
	for label, days := range leadDays {
		averages[label] = metric.Mean(days)
	}
	for _, kv := range metric.SortedDesc(averages) {
		view.Rows = append(view.Rows, []any{kv.Key, len(leadDays[kv.Key]), metric.Round1(kv.Value)})
	}
	return view, fmt.Sprintf("Average lead time: %.1f days", metric.Mean(all))
}

func orderCycleTime(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "orders", "avg_cycle_days"}}
	if len(d.Deliveries) == 0 {
		return view, metric.NoData("order cycle time")
	}
	orders := d.ordersByPOID()
	cycle := make(map[string][]float64)
	var all []float64
	for _, del := range d.Deliveries {
		po, ok := orders[del.POID]
		if !ok || del.ActualDate.IsZero() || po.OrderDate.IsZero() {
			continue
		}
		days := daysBetween(po.OrderDate, del.ActualDate)
		key := monthKey(po.OrderDate)
		cycle[key] = append(cycle[key], days)
		all = append(all, days)
	}
	if len(all) == 0 {
		return view, "No deliveries matched to purchase orders"
	}
	averages := make(map[string]float64, len(cycle))
	for key, days := range cycle {
		averages[key] = metric.Mean(days)
	}
	for _, kv := range metric.SortedByKey(averages) {
		view.Rows = append(view.Rows, []any{kv.Key, len(cycle[kv.Key]), metric.Round1(kv.Value)})
	}
	return view, fmt.Sprintf("Average order cycle: %.1f days", metric.Mean(all))
}

func supplierConcentration(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "spend", "share_pct", "cumulative_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("supplier concentration")
	}
	names := d.supplierNames()
	bySupplier := make(map[string]float64)
	for _, po := range orders {
		bySupplier[supplierLabel(names, po.SupplierID)] += po.Spend().InexactFloat64()
	}
	total := totalSpendValue(orders)
	ranked := metric.SortedDesc(bySupplier)
	topN := params.Int("top_n", 3)
	cumulative := 0.0
	topShare := 0.0
	for i, kv := range ranked {
		share := metric.Ratio(kv.Value, total) * 100
		cumulative += share
		if i < topN {
			topShare = cumulative
		}
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(share), metric.Round1(cumulative)})
	}
	return view, fmt.Sprintf("Top %d suppliers account for %.1f%% of spend", topN, topShare)
}

// priceVariance reports the coefficient of variation of unit prices per item
func priceVariance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"item", "orders", "avg_price", "price_cv_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("price variance")
	}
	items := d.itemsByID()
	prices := make(map[string][]float64)
	for _, po := range orders {
		label := po.ItemID
		if it, ok := items[po.ItemID]; ok && it.ItemName != "" {
			label = it.ItemName
		}
		prices[label] = append(prices[label], po.UnitPrice.InexactFloat64())
	}
	cvs := make(map[string]float64, len(prices))
	for label, series := range prices {
		if len(series) < 2 {
			continue
		}
		cvs[label] = metric.Ratio(metric.StdDev(series), metric.Mean(series)) * 100
	}
	if len(cvs) == 0 {
		return view, "Not enough repeat purchases to measure variance"
	}
	var all []float64
	for _, kv := range metric.SortedDesc(cvs) {
		series := prices[kv.Key]
		view.Rows = append(view.Rows, []any{kv.Key, len(series), metric.Round2(metric.Mean(series)), metric.Round1(kv.Value)})
		all = append(all, kv.Value)
	}
	return view, "Average price variance: " + metric.Percent(metric.Mean(all))
}

// demandForecast extrapolates monthly order quantities with a trailing
// three-month moving average
func demandForecast(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "quantity", "kind"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("demand forecast")
	}
	byMonth := make(map[string]float64)
	for _, po := range orders {
		byMonth[monthKey(po.OrderDate)] += float64(po.Quantity)
	}
	months := metric.SortedByKey(byMonth)
	quantities := make([]float64, 0, len(months))
	for _, kv := range months {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round1(kv.Value), "actual"})
		quantities = append(quantities, kv.Value)
	}

	horizon := params.Int("months", 3)
	last, err := lastMonth(months)
	if err != nil {
		return view, "Order dates are missing, cannot forecast"
	}
	forecast := 0.0
	for i := 0; i < horizon; i++ {
		window := quantities
		if len(window) > 3 {
			window = window[len(window)-3:]
		}
		next := metric.Mean(window)
		last = last.AddDate(0, 1, 0)
		view.Rows = append(view.Rows, []any{monthKey(last), metric.Round1(next), "forecast"})
		quantities = append(quantities, next)
		if i == 0 {
			forecast = next
		}
	}
	return view, fmt.Sprintf("Next-month forecast: %.0f units", forecast)
}
