package support

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func churnRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"segment", "customers", "churned", "churn_pct"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("churn rate")
	}
	type bucket struct{ customers, churned int }
	bySegment := make(map[string]*bucket)
	churned := 0
	for _, c := range d.Customers {
		b := bySegment[c.Segment]
		if b == nil {
			b = &bucket{}
			bySegment[c.Segment] = b
		}
		b.customers++
		if c.Churned() {
			b.churned++
			churned++
		}
	}
	for _, segment := range sortedKeys(bySegment) {
		b := bySegment[segment]
		view.Rows = append(view.Rows, []any{
			segment, b.customers, b.churned,
			metric.Round1(metric.Ratio(float64(b.churned), float64(b.customers)) * 100),
		})
	}
	return view, fmt.Sprintf("Churn rate: %.1f%%", metric.Ratio(float64(churned), float64(len(d.Customers)))*100)
}

func retentionRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"region", "customers", "retained", "retention_pct"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("retention rate")
	}
	type bucket struct{ customers, retained int }
	byRegion := make(map[string]*bucket)
	retained := 0
	for _, c := range d.Customers {
		b := byRegion[c.Region]
		if b == nil {
			b = &bucket{}
			byRegion[c.Region] = b
		}
		b.customers++
		if !c.Churned() {
			b.retained++
			retained++
		}
	}
	for _, region := range sortedKeys(byRegion) {
		b := byRegion[region]
		view.Rows = append(view.Rows, []any{
			region, b.customers, b.retained,
			metric.Round1(metric.Ratio(float64(b.retained), float64(b.customers)) * 100),
		})
	}
	return view, fmt.Sprintf("Retention rate: %.1f%%", metric.Ratio(float64(retained), float64(len(d.Customers)))*100)
}

func customerLifetimeValue(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"segment", "customers", "avg_monthly_spend", "avg_tenure_months", "clv"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("customer lifetime value")
	}
	asOf := params.Date("as_of", time.Now().UTC())
	type bucket struct{ spend, tenure []float64 }
	bySegment := make(map[string]*bucket)
	var allSpend, allTenure []float64
	for _, c := range d.Customers {
		b := bySegment[c.Segment]
		if b == nil {
			b = &bucket{}
			bySegment[c.Segment] = b
		}
		spend := c.MonthlySpend.InexactFloat64()
		tenure := c.TenureMonths(asOf)
		b.spend = append(b.spend, spend)
		b.tenure = append(b.tenure, tenure)
		allSpend = append(allSpend, spend)
		allTenure = append(allTenure, tenure)
	}
	for _, segment := range sortedKeys(bySegment) {
		b := bySegment[segment]
		view.Rows = append(view.Rows, []any{
			segment, len(b.spend), metric.Round2(metric.Mean(b.spend)),
			metric.Round1(metric.Mean(b.tenure)), metric.Round2(metric.Mean(b.spend) * metric.Mean(b.tenure)),
		})
	}
	clv := metric.Mean(allSpend) * metric.Mean(allTenure)
	return view, "Estimated customer lifetime value: " + metric.Currency(clv)
}

// Churn risk bands
const (
	churnHigh   = "High"
	churnMedium = "Medium"
	churnLow    = "Low"
)

// churnBand maps a 0-100 churn risk score to its band
func churnBand(score float64) string {
	switch {
	case score >= 60:
		return churnHigh
	case score >= 30:
		return churnMedium
	default:
		return churnLow
	}
}

// churnPrediction scores every non-churned customer from three signals:
// days since last contact (40 points at 90+ days), average feedback score
// (30 points at the floor of 1) and ticket frequency (30 points at two or
// more tickets per month). Customers without feedback take the neutral
// half of the satisfaction weight.
func churnPrediction(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"customer", "days_inactive", "avg_feedback_score", "tickets_per_month", "risk_score", "band"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("churn prediction")
	}
	asOf := params.Date("as_of", time.Now().UTC())
	lastContact := make(map[string]time.Time)
	for _, in := range d.Interactions {
		if in.OccurredAt.After(lastContact[in.CustomerID]) {
			lastContact[in.CustomerID] = in.OccurredAt
		}
	}
	ticketCounts := make(map[string]int)
	for _, t := range d.Tickets {
		ticketCounts[t.CustomerID]++
	}
	scores := make(map[string][]float64)
	for _, f := range d.Feedback {
		scores[f.CustomerID] = append(scores[f.CustomerID], float64(f.Score))
	}
	type scored struct {
		name      string
		inactive  float64
		avgScore  float64
		frequency float64
		risk      float64
	}
	var rows []scored
	high := 0
	for _, c := range d.Customers {
		if c.Churned() {
			continue
		}
		last := lastContact[c.CustomerID]
		if last.IsZero() {
			last = c.SignupDate
		}
		inactive := 0.0
		if !last.IsZero() && asOf.After(last) {
			inactive = asOf.Sub(last).Hours() / 24
		}
		inactivity := math.Min(inactive/90, 1) * 40

		satisfaction := 15.0
		avgScore := 0.0
		if xs := scores[c.CustomerID]; len(xs) > 0 {
			avgScore = metric.Mean(xs)
			satisfaction = (5 - avgScore) / 4 * 30
		}

		frequency := 0.0
		if tenure := c.TenureMonths(asOf); tenure > 0 {
			frequency = float64(ticketCounts[c.CustomerID]) / tenure
		}
		pressure := math.Min(frequency/2, 1) * 30

		risk := metric.Round1(inactivity + satisfaction + pressure)
		if churnBand(risk) == churnHigh {
			high++
		}
		name := c.Name
		if name == "" {
			name = c.CustomerID
		}
		rows = append(rows, scored{name, metric.Round1(inactive), metric.Round2(avgScore), metric.Round2(frequency), risk})
	}
	if len(rows) == 0 {
		return view, "No active customers to score"
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].risk > rows[j].risk })
	if limit := params.Int("top_n", 20); limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, r := range rows {
		view.Rows = append(view.Rows, []any{r.name, r.inactive, r.avgScore, r.frequency, r.risk, churnBand(r.risk)})
	}
	return view, fmt.Sprintf("%d customers at high churn risk", high)
}

func behaviorPatterns(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"hour", "interactions"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("behavior patterns")
	}
	var hours [24]int
	for _, in := range d.Interactions {
		hours[in.OccurredAt.Hour()]++
	}
	peak, peakCount := 0, 0
	for h, n := range hours {
		if n == 0 {
			continue
		}
		view.Rows = append(view.Rows, []any{fmt.Sprintf("%02d:00", h), n})
		if n > peakCount {
			peak, peakCount = h, n
		}
	}
	return view, fmt.Sprintf("Peak hour: %02d:00 (%d interactions)", peak, peakCount)
}

func contactReasonMix(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"reason", "interactions", "share_pct"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("contact reason mix")
	}
	byReason := make(map[string]float64)
	for _, in := range d.Interactions {
		reason := in.ContactReason
		if reason == "" {
			reason = "Unspecified"
		}
		byReason[reason]++
	}
	total := float64(len(d.Interactions))
	ranked := metric.SortedDesc(byReason)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round1(kv.Value / total * 100)})
	}
	top := ranked[0]
	return view, fmt.Sprintf("Top contact reason: %s (%.1f%%)", top.Key, top.Value/total*100)
}

func interactionTrends(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "interactions", "avg_duration_minutes"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("interaction trends")
	}
	counts := make(map[string]float64)
	durations := make(map[string][]float64)
	for _, in := range d.Interactions {
		key := monthKey(in.OccurredAt)
		counts[key]++
		durations[key] = append(durations[key], in.DurationMinutes)
	}
	months := metric.SortedByKey(counts)
	for _, kv := range months {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round1(metric.Mean(durations[kv.Key]))})
	}
	avg := float64(len(d.Interactions)) / float64(len(months))
	return view, fmt.Sprintf("Average monthly interactions: %.0f", avg)
}

func revenueRecovery(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "cases", "recovered"}}
	byMonth := make(map[string]float64)
	cases := make(map[string]int)
	total, n := 0.0, 0
	for _, in := range d.Interactions {
		amount := in.RevenueRecovered.InexactFloat64()
		if amount <= 0 {
			continue
		}
		key := monthKey(in.OccurredAt)
		byMonth[key] += amount
		cases[key]++
		total += amount
		n++
	}
	if n == 0 {
		return view, metric.NoData("revenue recovery")
	}
	for _, kv := range metric.SortedByKey(byMonth) {
		view.Rows = append(view.Rows, []any{kv.Key, cases[kv.Key], metric.Round2(kv.Value)})
	}
	return view, fmt.Sprintf("Revenue recovered: %s across %d cases", metric.Currency(total), n)
}

func refundTrends(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "refunds", "amount"}}
	byMonth := make(map[string]float64)
	cases := make(map[string]int)
	total, n := 0.0, 0
	for _, in := range d.Interactions {
		amount := in.RefundAmount.InexactFloat64()
		if amount <= 0 {
			continue
		}
		key := monthKey(in.OccurredAt)
		byMonth[key] += amount
		cases[key]++
		total += amount
		n++
	}
	if n == 0 {
		return view, metric.NoData("refund trends")
	}
	for _, kv := range metric.SortedByKey(byMonth) {
		view.Rows = append(view.Rows, []any{kv.Key, cases[kv.Key], metric.Round2(kv.Value)})
	}
	return view, fmt.Sprintf("Refunds total %s across %d cases", metric.Currency(total), n)
}

func crossSellSuccess(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "interactions", "conversions", "success_pct"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("cross-sell success")
	}
	type bucket struct{ interactions, conversions int }
	byChannel := make(map[string]*bucket)
	conversions := 0
	for _, in := range d.Interactions {
		b := byChannel[in.Channel]
		if b == nil {
			b = &bucket{}
			byChannel[in.Channel] = b
		}
		b.interactions++
		if in.CrossSellSuccess {
			b.conversions++
			conversions++
		}
	}
	for _, ch := range sortedKeys(byChannel) {
		b := byChannel[ch]
		view.Rows = append(view.Rows, []any{
			ch, b.interactions, b.conversions,
			metric.Round1(metric.Ratio(float64(b.conversions), float64(b.interactions)) * 100),
		})
	}
	return view, fmt.Sprintf("Cross-sell success: %.1f%%", metric.Ratio(float64(conversions), float64(len(d.Interactions)))*100)
}
