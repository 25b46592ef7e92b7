package sales

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func revenueByProduct(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"product", "units", "revenue", "share_pct"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("revenue by product")
	}
	products := d.productsByID()
	revenue := make(map[string]float64)
	units := make(map[string]float64)
	for _, o := range d.SalesOrders {
		label := o.ProductID
		if p, ok := products[o.ProductID]; ok && p.ProductName != "" {
			label = p.ProductName
		}
		revenue[label] += o.Revenue().InexactFloat64()
		units[label] += float64(o.Quantity)
	}
	total := totalRevenueValue(d.SalesOrders)
	ranked := metric.Top(metric.SortedDesc(revenue), params.Int("top_n", 10))
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, int(units[kv.Key]), metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top product: %s (%s)", top.Key, metric.Currency(top.Value))
}

func revenueGrowth(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "revenue", "growth_pct"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("revenue growth")
	}
	byMonth := make(map[string]float64)
	for _, o := range d.SalesOrders {
		byMonth[monthKey(o.OrderDate)] += o.Revenue().InexactFloat64()
	}
	months := metric.SortedByKey(byMonth)
	var growths []float64
	for i, kv := range months {
		if i == 0 {
			view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), nil})
			continue
		}
		growth := metric.Ratio(kv.Value-months[i-1].Value, months[i-1].Value) * 100
		growths = append(growths, growth)
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(growth)})
	}
	if len(growths) == 0 {
		return view, "Only one month of revenue, growth needs two"
	}
	latest := growths[len(growths)-1]
	return view, fmt.Sprintf("Latest month-over-month growth: %+.1f%%", latest)
}

func salesByRegion(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"region", "orders", "revenue", "share_pct"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("sales by region")
	}
	revenue := make(map[string]float64)
	counts := make(map[string]float64)
	for _, o := range d.SalesOrders {
		region := o.Region
		if region == "" {
			region = "Unassigned"
		}
		revenue[region] += o.Revenue().InexactFloat64()
		counts[region]++
	}
	total := totalRevenueValue(d.SalesOrders)
	ranked := metric.SortedDesc(revenue)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top region: %s (%s)", top.Key, metric.Currency(top.Value))
}

func salesByChannel(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "orders", "revenue", "share_pct"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("sales by channel")
	}
	revenue := make(map[string]float64)
	counts := make(map[string]float64)
	for _, o := range d.SalesOrders {
		channel := o.Channel
		if channel == "" {
			channel = "Unknown"
		}
		revenue[channel] += o.Revenue().InexactFloat64()
		counts[channel]++
	}
	total := totalRevenueValue(d.SalesOrders)
	ranked := metric.SortedDesc(revenue)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top channel: %s (%s)", top.Key, metric.Currency(top.Value))
}

// revenueForecast extrapolates monthly revenue with a trailing three-month
// moving average
func revenueForecast(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "revenue", "kind"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("revenue forecast")
	}
	byMonth := make(map[string]float64)
	for _, o := range d.SalesOrders {
		byMonth[monthKey(o.OrderDate)] += o.Revenue().InexactFloat64()
	}
	months := metric.SortedByKey(byMonth)
	series := make([]float64, 0, len(months))
	for _, kv := range months {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), "actual"})
		series = append(series, kv.Value)
	}

	horizon := params.Int("months", 3)
	last, err := lastMonth(months)
	if err != nil {
		return view, "Order dates are missing, cannot forecast"
	}
	forecast := 0.0
	for i := 0; i < horizon; i++ {
		window := series
		if len(window) > 3 {
			window = window[len(window)-3:]
		}
		next := metric.Mean(window)
		last = last.AddDate(0, 1, 0)
		view.Rows = append(view.Rows, []any{monthKey(last), metric.Round2(next), "forecast"})
		series = append(series, next)
		if i == 0 {
			forecast = next
		}
	}
	return view, "Next-month forecast: " + metric.Currency(forecast)
}

// profitMargin weights per-product margins by the revenue actually sold
func profitMargin(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"product", "revenue", "cost", "margin_pct"}}
	if len(d.SalesOrders) == 0 || len(d.Products) == 0 {
		return view, metric.NoData("profit margin")
	}
	products := d.productsByID()
	revenue := make(map[string]float64)
	cost := make(map[string]float64)
	totalRevenue := 0.0
	totalCost := 0.0
	for _, o := range d.SalesOrders {
		p, ok := products[o.ProductID]
		if !ok {
			continue
		}
		label := p.ProductName
		if label == "" {
			label = p.ProductID
		}
		r := o.Revenue().InexactFloat64()
		c := p.CostPrice.InexactFloat64() * float64(o.Quantity)
		revenue[label] += r
		cost[label] += c
		totalRevenue += r
		totalCost += c
	}
	if totalRevenue == 0 {
		return view, "Orders reference no priced products"
	}
	for _, kv := range metric.SortedDesc(revenue) {
		marginPct := metric.Ratio(kv.Value-cost[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round2(cost[kv.Key]), metric.Round1(marginPct)})
	}
	overall := metric.Ratio(totalRevenue-totalCost, totalRevenue) * 100
	return view, "Weighted profit margin: " + metric.Percent(overall)
}

func averageSellingPrice(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"product", "units", "avg_price", "list_price"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("average selling price")
	}
	products := d.productsByID()
	units := make(map[string]float64)
	revenue := make(map[string]float64)
	listPrice := make(map[string]float64)
	for _, o := range d.SalesOrders {
		label := o.ProductID
		if p, ok := products[o.ProductID]; ok {
			if p.ProductName != "" {
				label = p.ProductName
			}
			listPrice[label] = p.UnitPrice.InexactFloat64()
		}
		units[label] += float64(o.Quantity)
		revenue[label] += o.Revenue().InexactFloat64()
	}
	totalUnits := 0.0
	for _, u := range units {
		totalUnits += u
	}
	for _, kv := range metric.SortedDesc(revenue) {
		asp := metric.Ratio(kv.Value, units[kv.Key])
		view.Rows = append(view.Rows, []any{kv.Key, int(units[kv.Key]), metric.Round2(asp), metric.Round2(listPrice[kv.Key])})
	}
	overall := metric.Ratio(totalRevenueValue(d.SalesOrders), totalUnits)
	return view, "Average selling price: " + metric.Price(overall)
}

// marketPenetration reports the share of known customers who have ordered
func marketPenetration(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"segment", "customers", "buyers", "penetration_pct"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("market penetration")
	}
	buyers := make(map[string]bool)
	for _, o := range d.SalesOrders {
		buyers[o.CustomerID] = true
	}
	segTotal := make(map[string]float64)
	segBuyers := make(map[string]float64)
	for _, c := range d.Customers {
		segment := c.CustomerSegment
		if segment == "" {
			segment = "Unsegmented"
		}
		segTotal[segment]++
		if buyers[c.CustomerID] {
			segBuyers[segment]++
		}
	}
	for _, kv := range metric.SortedDesc(segTotal) {
		pct := metric.Ratio(segBuyers[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), int(segBuyers[kv.Key]), metric.Round1(pct)})
	}
	bought := 0.0
	for _, n := range segBuyers {
		bought += n
	}
	overall := metric.Ratio(bought, float64(len(d.Customers))) * 100
	return view, "Market penetration: " + metric.Percent(overall)
}

// marketShare breaks revenue down by industry, treating each industry's
// customer base as its addressable market
func marketShare(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"industry", "customers", "revenue", "share_pct"}}
	if len(d.SalesOrders) == 0 || len(d.Customers) == 0 {
		return view, metric.NoData("market share analysis")
	}
	customers := d.customersByID()
	revenue := make(map[string]float64)
	counts := make(map[string]float64)
	for _, c := range d.Customers {
		industry := c.Industry
		if industry == "" {
			industry = "Unclassified"
		}
		counts[industry]++
	}
	for _, o := range d.SalesOrders {
		industry := "Unclassified"
		if c, ok := customers[o.CustomerID]; ok && c.Industry != "" {
			industry = c.Industry
		}
		revenue[industry] += o.Revenue().InexactFloat64()
	}
	total := totalRevenueValue(d.SalesOrders)
	ranked := metric.SortedDesc(revenue)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Largest market: %s (%.1f%% of revenue)", top.Key, metric.Ratio(top.Value, total)*100)
}
