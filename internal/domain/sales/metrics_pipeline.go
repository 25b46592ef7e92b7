package sales

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func winRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"outcome", "deals", "value"}}
	won, lost := d.closedOpportunities()
	if len(won)+len(lost) == 0 {
		return view, metric.NoData("win rate")
	}
	wonValue := 0.0
	for _, o := range won {
		wonValue += o.Amount.InexactFloat64()
	}
	lostValue := 0.0
	for _, o := range lost {
		lostValue += o.Amount.InexactFloat64()
	}
	view.Rows = append(view.Rows,
		[]any{"Closed Won", len(won), metric.Round2(wonValue)},
		[]any{"Closed Lost", len(lost), metric.Round2(lostValue)},
	)
	rate := metric.Ratio(float64(len(won)), float64(len(won)+len(lost))) * 100
	return view, "Win rate: " + metric.Percent(rate)
}

// conversionByStage renders the funnel: how many deals sit at or past each
// stage, and what share of the pipeline that is. Closed Lost deals count
// only as entering the funnel, since their exit stage is unknown.
func conversionByStage(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"stage", "deals", "reached_pct", "value"}}
	if len(d.Opportunities) == 0 {
		return view, metric.NoData("conversion by stage")
	}
	rank := make(map[string]int, len(stageOrder))
	for i, s := range stageOrder {
		rank[s] = i
	}
	wonRank := rank["Closed Won"]
	counts := make([]int, len(stageOrder)-1)
	values := make([]float64, len(stageOrder)-1)
	total := 0
	for _, o := range d.Opportunities {
		r, ok := rank[o.Stage]
		if !ok {
			continue
		}
		total++
		if o.Lost() {
			// lost deals progressed at least to prospecting
			counts[0]++
			values[0] += o.Amount.InexactFloat64()
			continue
		}
		for i := 0; i <= r && i <= wonRank; i++ {
			counts[i]++
			values[i] += o.Amount.InexactFloat64()
		}
	}
	if total == 0 {
		return view, "Opportunities carry no recognizable stages"
	}
	for i, stage := range stageOrder[:len(stageOrder)-1] {
		pct := metric.Ratio(float64(counts[i]), float64(total)) * 100
		view.Rows = append(view.Rows, []any{stage, counts[i], metric.Round1(pct), metric.Round2(values[i])})
	}
	winPct := metric.Ratio(float64(counts[wonRank]), float64(total)) * 100
	return view, fmt.Sprintf("%.1f%% of opportunities reach Closed Won", winPct)
}

func averageDealSize(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"stage", "deals", "avg_amount"}}
	if len(d.Opportunities) == 0 {
		return view, metric.NoData("average deal size")
	}
	amounts := make(map[string][]float64)
	for _, o := range d.Opportunities {
		amounts[o.Stage] = append(amounts[o.Stage], o.Amount.InexactFloat64())
	}
	var won []float64
	for _, stage := range stageOrder {
		series, ok := amounts[stage]
		if !ok {
			continue
		}
		view.Rows = append(view.Rows, []any{stage, len(series), metric.Round2(metric.Mean(series))})
		if stage == "Closed Won" {
			won = series
		}
	}
	if len(won) == 0 {
		return view, "No deals closed won yet"
	}
	return view, "Average won deal: " + metric.Currency(metric.Mean(won))
}

// pipelineVelocity estimates how much value moves through the pipeline per
// day: open deals' probability-weighted value divided by the mean cycle days
// of closed deals
func pipelineVelocity(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"stage", "open_deals", "weighted_value"}}
	if len(d.Opportunities) == 0 {
		return view, metric.NoData("pipeline velocity")
	}
	weighted := make(map[string]float64)
	counts := make(map[string]float64)
	totalWeighted := 0.0
	var cycles []float64
	for _, o := range d.Opportunities {
		if o.Open() {
			w := o.Amount.InexactFloat64() * o.Probability / 100
			weighted[o.Stage] += w
			counts[o.Stage]++
			totalWeighted += w
			continue
		}
		if days := o.CycleDays(); days > 0 {
			cycles = append(cycles, days)
		}
	}
	for _, stage := range stageOrder[:4] {
		if counts[stage] == 0 {
			continue
		}
		view.Rows = append(view.Rows, []any{stage, int(counts[stage]), metric.Round2(weighted[stage])})
	}
	if len(view.Rows) == 0 {
		return view, "No open opportunities in the pipeline"
	}
	meanCycle := metric.Mean(cycles)
	if meanCycle == 0 {
		return view, fmt.Sprintf("Weighted pipeline %s, no closed deals to pace it", metric.Currency(totalWeighted))
	}
	velocity := totalWeighted / meanCycle
	return view, fmt.Sprintf("Pipeline velocity: %s/day", metric.Currency(velocity))
}

func timeToClose(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"outcome", "deals", "avg_days", "median_days"}}
	won, lost := d.closedOpportunities()
	if len(won)+len(lost) == 0 {
		return view, metric.NoData("time to close")
	}
	cycleDays := func(deals []Opportunity) []float64 {
		var out []float64
		for _, o := range deals {
			if days := o.CycleDays(); days > 0 {
				out = append(out, days)
			}
		}
		return out
	}
	wonDays := cycleDays(won)
	lostDays := cycleDays(lost)
	if len(wonDays) > 0 {
		view.Rows = append(view.Rows, []any{"Closed Won", len(wonDays), metric.Round1(metric.Mean(wonDays)), metric.Round1(metric.Median(wonDays))})
	}
	if len(lostDays) > 0 {
		view.Rows = append(view.Rows, []any{"Closed Lost", len(lostDays), metric.Round1(metric.Mean(lostDays)), metric.Round1(metric.Median(lostDays))})
	}
	all := append(wonDays, lostDays...)
	if len(all) == 0 {
		return view, "Closed deals are missing created or close dates"
	}
	return view, fmt.Sprintf("Average time to close: %.1f days", metric.Mean(all))
}
