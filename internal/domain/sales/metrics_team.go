package sales

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func quotaAttainment(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"rep", "quota", "revenue", "attainment_pct"}}
	if len(d.SalesReps) == 0 {
		return view, metric.NoData("quota attainment")
	}
	revenue := d.revenueByRepID()
	attainment := make(map[string]float64, len(d.SalesReps))
	rows := make(map[string][]any, len(d.SalesReps))
	for _, r := range d.SalesReps {
		quota := r.QuotaAnnual.InexactFloat64()
		pct := metric.Ratio(revenue[r.SalesRepID], quota) * 100
		attainment[r.FullName()] = pct
		rows[r.FullName()] = []any{r.FullName(), metric.Round2(quota), metric.Round2(revenue[r.SalesRepID]), metric.Round1(pct)}
	}
	var all []float64
	for _, kv := range metric.SortedDesc(attainment) {
		view.Rows = append(view.Rows, rows[kv.Key])
		all = append(all, kv.Value)
	}
	return view, fmt.Sprintf("Average quota attainment: %.1f%%", metric.Mean(all))
}

func revenuePerRep(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"rep", "orders", "revenue"}}
	if len(d.SalesOrders) == 0 {
		return view, metric.NoData("revenue per rep")
	}
	names := d.repNames()
	revenue := make(map[string]float64)
	counts := make(map[string]float64)
	for _, o := range d.SalesOrders {
		label := repLabel(names, o.SalesRepID)
		revenue[label] += o.Revenue().InexactFloat64()
		counts[label]++
	}
	ranked := metric.SortedDesc(revenue)
	for _, kv := range metric.Top(ranked, params.Int("top_n", 15)) {
		view.Rows = append(view.Rows, []any{kv.Key, int(counts[kv.Key]), metric.Round2(kv.Value)})
	}
	var values []float64
	for _, kv := range ranked {
		values = append(values, kv.Value)
	}
	return view, "Average revenue per rep: " + metric.Currency(metric.Mean(values))
}

func callSuccessRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"type", "activities", "successful", "success_pct"}}
	if len(d.Activities) == 0 {
		return view, metric.NoData("call success rate")
	}
	totals := make(map[string]float64)
	successes := make(map[string]float64)
	calls := 0.0
	callWins := 0.0
	for _, a := range d.Activities {
		kind := a.Type
		if kind == "" {
			kind = "Other"
		}
		totals[kind]++
		if a.Successful() {
			successes[kind]++
		}
		if a.Type == "Call" {
			calls++
			if a.Successful() {
				callWins++
			}
		}
	}
	for _, kv := range metric.SortedDesc(totals) {
		pct := metric.Ratio(successes[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), int(successes[kv.Key]), metric.Round1(pct)})
	}
	if calls == 0 {
		return view, "No call activities recorded"
	}
	rate := metric.Ratio(callWins, calls) * 100
	return view, "Call success rate: " + metric.Percent(rate)
}

// salesExpenseRatio compares rep base salaries against the revenue they
// brought in
func salesExpenseRatio(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"rep", "base_salary", "revenue", "expense_ratio_pct"}}
	if len(d.SalesReps) == 0 {
		return view, metric.NoData("sales expense ratio")
	}
	revenue := d.revenueByRepID()
	ratios := make(map[string]float64, len(d.SalesReps))
	rows := make(map[string][]any, len(d.SalesReps))
	totalSalary := 0.0
	totalRevenue := 0.0
	for _, r := range d.SalesReps {
		salary := r.BaseSalary.InexactFloat64()
		rev := revenue[r.SalesRepID]
		ratio := metric.Ratio(salary, rev) * 100
		ratios[r.FullName()] = ratio
		rows[r.FullName()] = []any{r.FullName(), metric.Round2(salary), metric.Round2(rev), metric.Round1(ratio)}
		totalSalary += salary
		totalRevenue += rev
	}
	for _, kv := range metric.SortedDesc(ratios) {
		view.Rows = append(view.Rows, rows[kv.Key])
	}
	if totalRevenue == 0 {
		return view, "Reps have no attributed revenue"
	}
	overall := metric.Ratio(totalSalary, totalRevenue) * 100
	return view, "Sales expense ratio: " + metric.Percent(overall)
}

// salesProductivity measures revenue generated per hour of logged activity
func salesProductivity(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"rep", "activity_hours", "revenue", "revenue_per_hour"}}
	if len(d.Activities) == 0 || len(d.SalesOrders) == 0 {
		return view, metric.NoData("sales productivity")
	}
	names := d.repNames()
	hours := make(map[string]float64)
	for _, a := range d.Activities {
		hours[repLabel(names, a.SalesRepID)] += float64(a.DurationMinutes) / 60
	}
	revenue := make(map[string]float64)
	for _, o := range d.SalesOrders {
		revenue[repLabel(names, o.SalesRepID)] += o.Revenue().InexactFloat64()
	}
	perHour := make(map[string]float64)
	for label, h := range hours {
		if h > 0 {
			perHour[label] = revenue[label] / h
		}
	}
	if len(perHour) == 0 {
		return view, "Activities carry no durations"
	}
	for _, kv := range metric.SortedDesc(perHour) {
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round1(hours[kv.Key]), metric.Round2(revenue[kv.Key]), metric.Round2(kv.Value)})
	}
	totalHours := 0.0
	totalRevenue := 0.0
	for label, h := range hours {
		totalHours += h
		totalRevenue += revenue[label]
	}
	overall := metric.Ratio(totalRevenue, totalHours)
	return view, fmt.Sprintf("Sales productivity: %s/hour", metric.Currency(overall))
}

// individualPerformance is the per-rep composite: revenue, orders, logged
// activity and target attainment from the Targets sheet
func individualPerformance(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"rep", "team", "orders", "revenue", "activities", "target_attainment_pct"}}
	if len(d.SalesReps) == 0 {
		return view, metric.NoData("individual performance")
	}
	revenue := d.revenueByRepID()
	orders := make(map[string]float64)
	for _, o := range d.SalesOrders {
		orders[o.SalesRepID]++
	}
	activities := make(map[string]float64)
	for _, a := range d.Activities {
		activities[a.SalesRepID]++
	}
	targets := make(map[string]float64)
	for _, t := range d.Targets {
		targets[t.SalesRepID] += t.RevenueTarget.InexactFloat64()
	}
	byRevenue := make(map[string]float64, len(d.SalesReps))
	rows := make(map[string][]any, len(d.SalesReps))
	for _, r := range d.SalesReps {
		rev := revenue[r.SalesRepID]
		var attainment any
		if target := targets[r.SalesRepID]; target > 0 {
			attainment = metric.Round1(metric.Ratio(rev, target) * 100)
		}
		byRevenue[r.FullName()] = rev
		rows[r.FullName()] = []any{
			r.FullName(), r.Team, int(orders[r.SalesRepID]), metric.Round2(rev),
			int(activities[r.SalesRepID]), attainment,
		}
	}
	ranked := metric.SortedDesc(byRevenue)
	for _, kv := range metric.Top(ranked, params.Int("top_n", 15)) {
		view.Rows = append(view.Rows, rows[kv.Key])
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top performer: %s (%s)", top.Key, metric.Currency(top.Value))
}

func territoryPerformance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"team", "reps", "orders", "revenue", "revenue_per_rep"}}
	if len(d.SalesReps) == 0 || len(d.SalesOrders) == 0 {
		return view, metric.NoData("territory performance")
	}
	reps := d.repsByID()
	repsPerTeam := make(map[string]float64)
	for _, r := range d.SalesReps {
		team := r.Team
		if team == "" {
			team = "Unassigned"
		}
		repsPerTeam[team]++
	}
	revenue := make(map[string]float64)
	orders := make(map[string]float64)
	for _, o := range d.SalesOrders {
		team := "Unassigned"
		if r, ok := reps[o.SalesRepID]; ok && r.Team != "" {
			team = r.Team
		}
		revenue[team] += o.Revenue().InexactFloat64()
		orders[team]++
	}
	ranked := metric.SortedDesc(revenue)
	for _, kv := range ranked {
		perRep := metric.Ratio(kv.Value, repsPerTeam[kv.Key])
		view.Rows = append(view.Rows, []any{kv.Key, int(repsPerTeam[kv.Key]), int(orders[kv.Key]), metric.Round2(kv.Value), metric.Round2(perRep)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top territory: %s (%s)", top.Key, metric.Currency(top.Value))
}
