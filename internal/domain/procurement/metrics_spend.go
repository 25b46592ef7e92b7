package procurement

import (
	"fmt"
	"sort"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func totalSpend(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "spend"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("total spend")
	}
	byMonth := make(map[string]float64)
	for _, po := range orders {
		byMonth[monthKey(po.OrderDate)] += po.Spend().InexactFloat64()
	}
	for _, kv := range metric.SortedByKey(byMonth) {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value)})
	}
	return view, "Total spend: " + metric.Currency(totalSpendValue(orders))
}

func monthlySpendTrends(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "spend", "orders"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("monthly spend trends")
	}
	spend := make(map[string]float64)
	counts := make(map[string]float64)
	for _, po := range orders {
		key := monthKey(po.OrderDate)
		spend[key] += po.Spend().InexactFloat64()
		counts[key]++
	}
	months := metric.SortedByKey(spend)
	for _, kv := range months {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), int(counts[kv.Key])})
	}
	avg := totalSpendValue(orders) / float64(len(months))
	return view, "Average monthly spend: " + metric.Currency(avg)
}

func spendByCategory(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"category", "spend", "share_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("spend by category")
	}
	items := d.itemsByID()
	byCategory := make(map[string]float64)
	for _, po := range orders {
		category := "Uncategorized"
		if it, ok := items[po.ItemID]; ok && it.Category != "" {
			category = it.Category
		}
		byCategory[category] += po.Spend().InexactFloat64()
	}
	total := totalSpendValue(orders)
	ranked := metric.SortedDesc(byCategory)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top category: %s (%s)", top.Key, metric.Currency(top.Value))
}

func spendBySupplier(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "spend", "share_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("spend by supplier")
	}
	names := d.supplierNames()
	bySupplier := make(map[string]float64)
	for _, po := range orders {
		bySupplier[supplierLabel(names, po.SupplierID)] += po.Spend().InexactFloat64()
	}
	total := totalSpendValue(orders)
	ranked := metric.Top(metric.SortedDesc(bySupplier), params.Int("top_n", 10))
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top supplier: %s (%s)", top.Key, metric.Currency(top.Value))
}

func spendByDepartment(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"department", "spend", "share_pct"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("spend by department")
	}
	byDept := make(map[string]float64)
	for _, po := range orders {
		dept := po.Department
		if dept == "" {
			dept = "Unassigned"
		}
		byDept[dept] += po.Spend().InexactFloat64()
	}
	total := totalSpendValue(orders)
	ranked := metric.SortedDesc(byDept)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(kv.Value), metric.Round1(metric.Ratio(kv.Value, total) * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top department: %s (%s)", top.Key, metric.Currency(top.Value))
}

func budgetUtilization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"budget_code", "department", "budget", "spend", "utilization_pct"}}
	if len(d.Budgets) == 0 {
		return view, metric.NoData("budget utilization")
	}
	spendByCode := make(map[string]float64)
	for _, po := range d.activeOrders() {
		spendByCode[po.BudgetCode] += po.Spend().InexactFloat64()
	}
	var utilizations []float64
	for _, b := range d.Budgets {
		budget := b.Amount.InexactFloat64()
		spend := spendByCode[b.BudgetCode]
		utilization := metric.Ratio(spend, budget) * 100
		utilizations = append(utilizations, utilization)
		view.Rows = append(view.Rows, []any{b.BudgetCode, b.Department, metric.Round2(budget), metric.Round2(spend), metric.Round1(utilization)})
	}
	return view, fmt.Sprintf("Average utilization: %.1f%%", metric.Mean(utilizations))
}

// tailSpend reports the bottom 20% of suppliers by order count
func tailSpend(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "orders", "spend"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("tail spend")
	}
	names := d.supplierNames()
	counts := make(map[string]float64)
	spend := make(map[string]float64)
	for _, po := range orders {
		label := supplierLabel(names, po.SupplierID)
		counts[label]++
		spend[label] += po.Spend().InexactFloat64()
	}
	byCountAsc := metric.SortedDesc(counts)
	sort.Slice(byCountAsc, func(i, j int) bool {
		if byCountAsc[i].Value != byCountAsc[j].Value {
			return byCountAsc[i].Value < byCountAsc[j].Value
		}
		return byCountAsc[i].Key < byCountAsc[j].Key
	})
	tailSize := len(byCountAsc) / 5
	if tailSize == 0 {
		tailSize = 1
	}
	tailTotal := 0.0
	for _, kv := range byCountAsc[:tailSize] {
		tailTotal += spend[kv.Key]
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round2(spend[kv.Key])})
	}
	pct := metric.Ratio(tailTotal, totalSpendValue(orders)) * 100
	return view, fmt.Sprintf("%s (%.1f%% of total spend)", metric.Currency(tailTotal), pct)
}

// maverickSpend reports spend placed with suppliers that have no contract
// covering the order date
func maverickSpend(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "orders", "spend"}}
	orders := d.activeOrders()
	if len(orders) == 0 {
		return view, metric.NoData("maverick spend")
	}
	contractsBySupplier := make(map[string][]Contract)
	for _, c := range d.Contracts {
		contractsBySupplier[c.SupplierID] = append(contractsBySupplier[c.SupplierID], c)
	}
	names := d.supplierNames()
	maverickSpendBy := make(map[string]float64)
	maverickCount := make(map[string]float64)
	maverickTotal := 0.0
	for _, po := range orders {
		covered := false
		for _, c := range contractsBySupplier[po.SupplierID] {
			if c.ActiveOn(po.OrderDate) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		label := supplierLabel(names, po.SupplierID)
		value := po.Spend().InexactFloat64()
		maverickSpendBy[label] += value
		maverickCount[label]++
		maverickTotal += value
	}
	for _, kv := range metric.SortedDesc(maverickSpendBy) {
		view.Rows = append(view.Rows, []any{kv.Key, int(maverickCount[kv.Key]), metric.Round2(kv.Value)})
	}
	pct := metric.Ratio(maverickTotal, totalSpendValue(orders)) * 100
	return view, fmt.Sprintf("Maverick spend: %s (%.1f%% of total)", metric.Currency(maverickTotal), pct)
}

func emergencyPurchases(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"po_id", "supplier", "order_date", "spend"}}
	if len(d.PurchaseOrders) == 0 {
		return view, metric.NoData("emergency purchases")
	}
	names := d.supplierNames()
	total := 0.0
	for _, po := range d.PurchaseOrders {
		if po.Status != "Urgent" {
			continue
		}
		value := po.Spend().InexactFloat64()
		total += value
		view.Rows = append(view.Rows, []any{po.POID, supplierLabel(names, po.SupplierID), dataset.FormatDate(po.OrderDate), metric.Round2(value)})
	}
	if len(view.Rows) == 0 {
		return view, "No emergency purchases in the period"
	}
	return view, fmt.Sprintf("%d emergency purchases totaling %s", len(view.Rows), metric.Currency(total))
}
