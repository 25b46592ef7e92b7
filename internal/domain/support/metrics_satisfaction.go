package support

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func csat(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"score", "responses", "share_pct"}}
	if len(d.Feedback) == 0 {
		return view, metric.NoData("CSAT")
	}
	counts := make(map[int]int)
	for _, f := range d.Feedback {
		counts[f.Score]++
	}
	total := float64(len(d.Feedback))
	for score := 1; score <= 5; score++ {
		view.Rows = append(view.Rows, []any{score, counts[score], metric.Round1(float64(counts[score]) / total * 100)})
	}
	return view, fmt.Sprintf("CSAT: %.1f%%", csatShare(d.Feedback))
}

func nps(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"group", "responses", "share_pct"}}
	if len(d.Feedback) == 0 {
		return view, metric.NoData("NPS")
	}
	var promoters, passives, detractors int
	for _, f := range d.Feedback {
		switch {
		case f.NPSScore >= 9:
			promoters++
		case f.NPSScore >= 7:
			passives++
		default:
			detractors++
		}
	}
	total := float64(len(d.Feedback))
	promoterPct := float64(promoters) / total * 100
	detractorPct := float64(detractors) / total * 100
	view.Rows = append(view.Rows,
		[]any{"Promoters", promoters, metric.Round1(promoterPct)},
		[]any{"Passives", passives, metric.Round1(float64(passives) / total * 100)},
		[]any{"Detractors", detractors, metric.Round1(detractorPct)},
	)
	return view, fmt.Sprintf("NPS: %+.1f", promoterPct-detractorPct)
}

func ces(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "responses", "avg_effort"}}
	if len(d.Feedback) == 0 {
		return view, metric.NoData("customer effort score")
	}
	byChannel := make(map[string][]float64)
	var all []float64
	for _, f := range d.Feedback {
		effort := float64(f.EffortScore)
		byChannel[f.Channel] = append(byChannel[f.Channel], effort)
		all = append(all, effort)
	}
	for _, ch := range sortedKeys(byChannel) {
		xs := byChannel[ch]
		view.Rows = append(view.Rows, []any{ch, len(xs), metric.Round2(metric.Mean(xs))})
	}
	return view, fmt.Sprintf("Customer effort score: %.2f / 7", metric.Mean(all))
}

func sentimentSplit(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"sentiment", "interactions", "share_pct"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("sentiment split")
	}
	counts := make(map[string]int)
	for _, in := range d.Interactions {
		counts[in.Sentiment]++
	}
	total := float64(len(d.Interactions))
	for _, s := range sentimentOrder {
		view.Rows = append(view.Rows, []any{s, counts[s], metric.Round1(float64(counts[s]) / total * 100)})
	}
	return view, fmt.Sprintf("Positive sentiment: %.1f%%", float64(counts["Positive"])/total*100)
}

func omnichannelSatisfaction(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "responses", "csat_pct"}}
	if len(d.Feedback) == 0 {
		return view, metric.NoData("omnichannel satisfaction")
	}
	byChannel := make(map[string][]Feedback)
	for _, f := range d.Feedback {
		byChannel[f.Channel] = append(byChannel[f.Channel], f)
	}
	scores := make(map[string]float64, len(byChannel))
	for ch, responses := range byChannel {
		scores[ch] = csatShare(responses)
	}
	ranked := metric.SortedDesc(scores)
	for _, kv := range ranked {
		view.Rows = append(view.Rows, []any{kv.Key, len(byChannel[kv.Key]), metric.Round1(kv.Value)})
	}
	best := ranked[0]
	return view, fmt.Sprintf("Best channel: %s (CSAT %.1f%%)", best.Key, best.Value)
}

func proactiveSupportImpact(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"group", "responses", "csat_pct"}}
	if len(d.Feedback) == 0 {
		return view, metric.NoData("proactive support impact")
	}
	proactive := d.proactiveTickets()
	var outreach, inbound []Feedback
	for _, f := range d.Feedback {
		if proactive[f.TicketID] {
			outreach = append(outreach, f)
		} else {
			inbound = append(inbound, f)
		}
	}
	outreachCSAT := csatShare(outreach)
	inboundCSAT := csatShare(inbound)
	view.Rows = append(view.Rows,
		[]any{"Proactive", len(outreach), metric.Round1(outreachCSAT)},
		[]any{"Reactive", len(inbound), metric.Round1(inboundCSAT)},
	)
	if len(outreach) == 0 {
		return view, "No feedback on proactive outreach yet"
	}
	return view, fmt.Sprintf("Proactive CSAT %+.1f points vs reactive", outreachCSAT-inboundCSAT)
}

func loyaltyEffectiveness(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"group", "customers", "avg_monthly_spend", "avg_referrals", "churn_pct"}}
	if len(d.Customers) == 0 {
		return view, metric.NoData("loyalty effectiveness")
	}
	type bucket struct {
		spend     []float64
		referrals []float64
		churned   int
	}
	referring, other := &bucket{}, &bucket{}
	for _, c := range d.Customers {
		b := other
		if c.ReferralCount > 0 {
			b = referring
		}
		b.spend = append(b.spend, c.MonthlySpend.InexactFloat64())
		b.referrals = append(b.referrals, float64(c.ReferralCount))
		if c.Churned() {
			b.churned++
		}
	}
	addRow := func(label string, b *bucket) {
		churn := metric.Ratio(float64(b.churned), float64(len(b.spend))) * 100
		view.Rows = append(view.Rows, []any{
			label, len(b.spend), metric.Round2(metric.Mean(b.spend)),
			metric.Round2(metric.Mean(b.referrals)), metric.Round1(churn),
		})
	}
	addRow("Referring customers", referring)
	addRow("Non-referring customers", other)
	if len(referring.spend) == 0 || metric.Mean(other.spend) == 0 {
		return view, fmt.Sprintf("%d of %d customers have referred someone", len(referring.spend), len(d.Customers))
	}
	lift := (metric.Mean(referring.spend)/metric.Mean(other.spend) - 1) * 100
	return view, fmt.Sprintf("Referring customers spend %+.1f%% vs non-referring", lift)
}

func advocacyImpact(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"measure", "value"}}
	if len(d.Feedback) == 0 && len(d.Customers) == 0 {
		return view, metric.NoData("advocacy impact")
	}
	recommenders := 0
	for _, f := range d.Feedback {
		if f.WouldRecommend {
			recommenders++
		}
	}
	recommendPct := metric.Ratio(float64(recommenders), float64(len(d.Feedback))) * 100
	totalReferrals, referring := 0, 0
	for _, c := range d.Customers {
		totalReferrals += c.ReferralCount
		if c.ReferralCount > 0 {
			referring++
		}
	}
	view.Rows = append(view.Rows,
		[]any{"would_recommend_pct", metric.Round1(recommendPct)},
		[]any{"total_referrals", totalReferrals},
		[]any{"referring_customers", referring},
		[]any{"avg_referrals_per_customer", metric.Round2(metric.Ratio(float64(totalReferrals), float64(len(d.Customers))))},
	)
	return view, fmt.Sprintf("%.1f%% would recommend, %d referrals on record", recommendPct, totalReferrals)
}
