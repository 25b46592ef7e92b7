package sales

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func customerChurn(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"status", "customers", "share_pct"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("customer churn")
	}
	byStatus := make(map[string]float64)
	churned := 0.0
	for _, c := range d.Customers {
		status := c.Status
		if status == "" {
			status = "Unknown"
		}
		byStatus[status]++
		if c.Churned() {
			churned++
		}
	}
	total := float64(len(d.Customers))
	for _, kv := range metric.SortedDesc(byStatus) {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	rate := metric.Ratio(churned, total) * 100
	return view, "Churn rate: " + metric.Percent(rate)
}

// customerLifetimeValue estimates CLV as each customer's order revenue,
// ranked; the headline is the mean across buyers
func customerLifetimeValue(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"customer", "orders", "revenue"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("customer lifetime value")
	}
	customers := d.customersByID()
	revenue := make(map[string]float64)
	counts := make(map[string]float64)
	for _, o := range d.SalesOrders {
		label := o.CustomerID
		if c, ok := customers[o.CustomerID]; ok && c.CustomerName != "" {
			label = c.CustomerName
		}
		revenue[label] += o.Revenue().InexactFloat64()
		counts[label]++
	}
	ranked := metric.SortedDesc(revenue)
	for _, kv := range metric.Top(ranked, params.Int("top_n", 10)) {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value)})
	}
	var values []float64
	for _, kv := range ranked {
		values = append(values, kv.Value)
	}
	return view, "Average lifetime value: " + metric.Currency(metric.Mean(values))
}

func customerSegmentation(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"segment", "customers", "revenue", "avg_revenue"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("customer segmentation")
	}
	customers := d.customersByID()
	counts := make(map[string]float64)
	revenue := make(map[string]float64)
	for _, c := range d.Customers {
		segment := c.CustomerSegment
		if segment == "" {
			segment = "Unsegmented"
		}
		counts[segment]++
	}
	for _, o := range d.SalesOrders {
		segment := "Unsegmented"
		if c, ok := customers[o.CustomerID]; ok && c.CustomerSegment != "" {
			segment = c.CustomerSegment
		}
		revenue[segment] += o.Revenue().InexactFloat64()
	}
	ranked := metric.SortedDesc(counts)
	for _, kv := range ranked {
		avg := metric.Ratio(revenue[kv.Key], kv.Value)
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round2(revenue[kv.Key]), metric.Round2(avg)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Largest segment: %s (%d customers)", top.Key, int(top.Value))
}

func repeatPurchaseRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"orders_per_customer", "customers"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("repeat purchase rate")
	}
	counts := make(map[string]int)
	for _, o := range d.SalesOrders {
		counts[o.CustomerID]++
	}
	distribution := make(map[string]float64)
	repeat := 0.0
	for _, n := range counts {
		bucket := fmt.Sprintf("%d", n)
		if n >= 5 {
			bucket = "5+"
		}
		distribution[bucket]++
		if n > 1 {
			repeat++
		}
	}
	for _, kv := range metric.SortedByKey(distribution) {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value)})
	}
	rate := metric.Ratio(repeat, float64(len(counts))) * 100
	return view, "Repeat purchase rate: " + metric.Percent(rate)
}

// newVsReturning splits each month's buyers into first-time and returning
func newVsReturning(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "new_customers", "returning_customers"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("new vs returning customers")
	}
	firstOrder := make(map[string]string)
	for _, o := range d.SalesOrders {
		key := monthKey(o.OrderDate)
		if prev, ok := firstOrder[o.CustomerID]; !ok || key < prev {
			firstOrder[o.CustomerID] = key
		}
	}
	type split struct{ newBuyers, returning map[string]bool }
	months := make(map[string]*split)
	for _, o := range d.SalesOrders {
		key := monthKey(o.OrderDate)
		s, ok := months[key]
		if !ok {
			s = &split{newBuyers: map[string]bool{}, returning: map[string]bool{}}
			months[key] = s
		}
		if firstOrder[o.CustomerID] == key {
			s.newBuyers[o.CustomerID] = true
		} else {
			s.returning[o.CustomerID] = true
		}
	}
	keys := make(map[string]float64, len(months))
	for k := range months {
		keys[k] = 0
	}
	totalNew := 0
	totalReturning := 0
	for _, kv := range metric.SortedByKey(keys) {
		s := months[kv.Key]
		view.Rows = append(view.Rows, []any{kv.Key, len(s.newBuyers), len(s.returning)})
		totalNew += len(s.newBuyers)
		totalReturning += len(s.returning)
	}
	share := metric.Ratio(float64(totalReturning), float64(totalNew+totalReturning)) * 100
	return view, fmt.Sprintf("Returning buyers make up %.1f%% of monthly activity", share)
}

// activeAccounts lists customers who ordered within the trailing 90 days of
// the dataset's most recent order
func activeAccounts(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"customer", "last_order", "orders_90d", "revenue_90d"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("active accounts")
	}
	window := params.Int("days", 90)
	cutoff := d.latestOrderDate().AddDate(0, 0, -window)
	customers := d.customersByID()
	lastOrder := make(map[string]string)
	counts := make(map[string]float64)
	revenue := make(map[string]float64)
	for _, o := range d.SalesOrders {
		if o.OrderDate.Before(cutoff) {
			continue
		}
		label := o.CustomerID
		if c, ok := customers[o.CustomerID]; ok && c.CustomerName != "" {
			label = c.CustomerName
		}
		day := dataset.FormatDate(o.OrderDate)
		if day > lastOrder[label] {
			lastOrder[label] = day
		}
		counts[label]++
		revenue[label] += o.Revenue().InexactFloat64()
	}
	ranked := metric.SortedDesc(revenue)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, lastOrder[kv.Key], int(counts[kv.Key]), metric.Round2(kv.Value)})
	}
	return view, fmt.Sprintf("%d accounts active in the last %d days", len(ranked), window)
}

// dormantAccounts lists customers whose last order fell out of the trailing
// window, plus those who never ordered at all
func dormantAccounts(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"customer", "segment", "last_order", "lifetime_revenue"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("dormant accounts")
	}
	window := params.Int("days", 90)
	cutoff := d.latestOrderDate().AddDate(0, 0, -window)
	lastOrder := make(map[string]string)
	revenue := make(map[string]float64)
	active := make(map[string]bool)
	for _, o := range d.SalesOrders {
		day := dataset.FormatDate(o.OrderDate)
		if day > lastOrder[o.CustomerID] {
			lastOrder[o.CustomerID] = day
		}
		revenue[o.CustomerID] += o.Revenue().InexactFloat64()
		if !o.OrderDate.Before(cutoff) {
			active[o.CustomerID] = true
		}
	}
	dormantRevenue := make(map[string]float64)
	meta := make(map[string]Customer)
	for _, c := range d.Customers {
		if active[c.CustomerID] {
			continue
		}
		label := c.CustomerName
		if label == "" {
			label = c.CustomerID
		}
		dormantRevenue[label] = revenue[c.CustomerID]
		meta[label] = c
	}
	if len(dormantRevenue) == 0 {
		return view, "Every account ordered recently"
	}
	for _, kv := range metric.SortedDesc(dormantRevenue) {
		c := meta[kv.Key]
		last := lastOrder[c.CustomerID]
		if last == "" {
			last = "never"
		}
		view.Rows = append(view.Rows, []any{kv.Key, c.CustomerSegment, last, metric.Round2(kv.Value)})
	}
	pct := metric.Ratio(float64(len(dormantRevenue)), float64(len(d.Customers))) * 100
	return view, fmt.Sprintf("%d dormant accounts (%.1f%% of customer base)", len(dormantRevenue), pct)
}
