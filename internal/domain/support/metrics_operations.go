package support

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func firstResponseTime(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"priority", "tickets", "avg_first_response_minutes"}}
	byPriority := make(map[string][]float64)
	var all []float64
	for _, t := range d.Tickets {
		if t.FirstResponseMinutes <= 0 {
			continue
		}
		byPriority[t.Priority] = append(byPriority[t.Priority], t.FirstResponseMinutes)
		all = append(all, t.FirstResponseMinutes)
	}
	if len(all) == 0 {
		return view, metric.NoData("first response time")
	}
	for _, p := range sortedPriorities(byPriority) {
		xs := byPriority[p]
		view.Rows = append(view.Rows, []any{p, len(xs), metric.Round1(metric.Mean(xs))})
	}
	return view, fmt.Sprintf("Average first response: %.1f minutes", metric.Mean(all))
}

func avgResolutionTime(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"priority", "tickets", "avg_resolution_minutes"}}
	byPriority := make(map[string][]float64)
	var all []float64
	for _, t := range d.resolvedTickets() {
		if t.ResolutionMinutes <= 0 {
			continue
		}
		byPriority[t.Priority] = append(byPriority[t.Priority], t.ResolutionMinutes)
		all = append(all, t.ResolutionMinutes)
	}
	if len(all) == 0 {
		return view, metric.NoData("resolution time")
	}
	for _, p := range sortedPriorities(byPriority) {
		xs := byPriority[p]
		view.Rows = append(view.Rows, []any{p, len(xs), metric.Round1(metric.Mean(xs))})
	}
	return view, fmt.Sprintf("Average resolution time: %.1f hours", metric.Mean(all)/60)
}

func firstContactResolution(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "resolved", "first_contact", "fcr_pct"}}
	resolved := d.resolvedTickets()
	if len(resolved) == 0 {
		return view, metric.NoData("first contact resolution")
	}
	type bucket struct{ resolved, firstContact int }
	byChannel := make(map[string]*bucket)
	firstContact := 0
	for _, t := range resolved {
		b := byChannel[t.Channel]
		if b == nil {
			b = &bucket{}
			byChannel[t.Channel] = b
		}
		b.resolved++
		if t.FirstContactResolution() {
			b.firstContact++
			firstContact++
		}
	}
	for _, ch := range sortedKeys(byChannel) {
		b := byChannel[ch]
		view.Rows = append(view.Rows, []any{
			ch, b.resolved, b.firstContact,
			metric.Round1(metric.Ratio(float64(b.firstContact), float64(b.resolved)) * 100),
		})
	}
	return view, fmt.Sprintf("First contact resolution: %.1f%%", metric.Ratio(float64(firstContact), float64(len(resolved)))*100)
}

func escalationAnalysis(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"priority", "tickets", "escalated", "escalation_pct", "avg_escalated_resolution_minutes"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("escalation analysis")
	}
	type bucket struct {
		tickets, escalated int
		resolution         []float64
	}
	byPriority := make(map[string]*bucket)
	escalated := 0
	for _, t := range d.Tickets {
		b := byPriority[t.Priority]
		if b == nil {
			b = &bucket{}
			byPriority[t.Priority] = b
		}
		b.tickets++
		if t.Escalated {
			b.escalated++
			escalated++
			if t.ResolutionMinutes > 0 {
				b.resolution = append(b.resolution, t.ResolutionMinutes)
			}
		}
	}
	for _, p := range sortedPriorities(byPriority) {
		b := byPriority[p]
		view.Rows = append(view.Rows, []any{
			p, b.tickets, b.escalated,
			metric.Round1(metric.Ratio(float64(b.escalated), float64(b.tickets)) * 100),
			metric.Round1(metric.Mean(b.resolution)),
		})
	}
	return view, fmt.Sprintf("Escalation rate: %.1f%%", metric.Ratio(float64(escalated), float64(len(d.Tickets)))*100)
}

func queueWait(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "tickets", "avg_queue_wait_minutes"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("queue wait")
	}
	byChannel := make(map[string][]float64)
	var all []float64
	for _, t := range d.Tickets {
		byChannel[t.Channel] = append(byChannel[t.Channel], t.QueueWaitMinutes)
		all = append(all, t.QueueWaitMinutes)
	}
	for _, ch := range sortedKeys(byChannel) {
		xs := byChannel[ch]
		view.Rows = append(view.Rows, []any{ch, len(xs), metric.Round1(metric.Mean(xs))})
	}
	return view, fmt.Sprintf("Average queue wait: %.1f minutes", metric.Mean(all))
}

func ticketVolume(d *Dataset, params metric.Params) (dataset.View, string) {
	if len(d.Tickets) == 0 {
		return dataset.View{Columns: []string{"date", "tickets"}}, metric.NoData("ticket volume")
	}
	if params.String("group", "day") == "channel" {
		view := dataset.View{Columns: []string{"channel", "tickets", "share_pct"}}
		byChannel := make(map[string]float64)
		for _, t := range d.Tickets {
			byChannel[t.Channel]++
		}
		total := float64(len(d.Tickets))
		ranked := metric.SortedDesc(byChannel)
		for _, kv := range ranked {
			view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round1(kv.Value / total * 100)})
		}
		top := ranked[0]
		return view, fmt.Sprintf("Busiest channel: %s (%d tickets)", top.Key, int(top.Value))
	}
	view := dataset.View{Columns: []string{"date", "tickets"}}
	byDay := make(map[string]float64)
	for _, t := range d.Tickets {
		byDay[dayKey(t.CreatedAt)]++
	}
	days := metric.SortedByKey(byDay)
	for _, kv := range days {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value)})
	}
	avg := float64(len(d.Tickets)) / float64(len(days))
	return view, fmt.Sprintf("%d tickets over %d days (avg %.1f/day)", len(d.Tickets), len(days), avg)
}

func slaCompliance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"priority", "tickets", "first_response_met_pct", "resolution_met_pct", "overall_pct"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("SLA compliance")
	}
	if len(d.SLAs) == 0 {
		return view, "No SLA targets loaded"
	}
	targets := make(map[string]SLATarget, len(d.SLAs))
	for _, s := range d.SLAs {
		targets[s.Priority] = s
	}
	type bucket struct{ tickets, responseMet, resolutionMet, overall int }
	byPriority := make(map[string]*bucket)
	matched, compliant := 0, 0
	for _, t := range d.Tickets {
		target, ok := targets[t.Priority]
		if !ok {
			continue
		}
		b := byPriority[t.Priority]
		if b == nil {
			b = &bucket{}
			byPriority[t.Priority] = b
		}
		b.tickets++
		matched++
		responseOK := t.FirstResponseMinutes > 0 && t.FirstResponseMinutes <= target.TargetFirstResponseMinutes
		resolutionOK := !t.Resolved() || (t.ResolutionMinutes > 0 && t.ResolutionMinutes <= target.TargetResolutionMinutes)
		if responseOK {
			b.responseMet++
		}
		if resolutionOK {
			b.resolutionMet++
		}
		if responseOK && resolutionOK {
			b.overall++
			compliant++
		}
	}
	if matched == 0 {
		return view, "No tickets match the loaded SLA priorities"
	}
	for _, p := range sortedPriorities(byPriority) {
		b := byPriority[p]
		n := float64(b.tickets)
		view.Rows = append(view.Rows, []any{
			p, b.tickets,
			metric.Round1(float64(b.responseMet) / n * 100),
			metric.Round1(float64(b.resolutionMet) / n * 100),
			metric.Round1(float64(b.overall) / n * 100),
		})
	}
	return view, fmt.Sprintf("SLA compliance: %.1f%%", metric.Ratio(float64(compliant), float64(matched))*100)
}

func channelPerformance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "tickets", "avg_resolution_minutes", "csat_pct", "escalation_pct"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("channel performance")
	}
	type bucket struct {
		tickets, escalated int
		resolution         []float64
	}
	byChannel := make(map[string]*bucket)
	for _, t := range d.Tickets {
		b := byChannel[t.Channel]
		if b == nil {
			b = &bucket{}
			byChannel[t.Channel] = b
		}
		b.tickets++
		if t.Escalated {
			b.escalated++
		}
		if t.Resolved() && t.ResolutionMinutes > 0 {
			b.resolution = append(b.resolution, t.ResolutionMinutes)
		}
	}
	responses := make(map[string][]Feedback)
	for _, f := range d.Feedback {
		responses[f.Channel] = append(responses[f.Channel], f)
	}
	best, bestCSAT := "", -1.0
	for _, ch := range sortedKeys(byChannel) {
		b := byChannel[ch]
		channelCSAT := csatShare(responses[ch])
		if len(responses[ch]) > 0 && channelCSAT > bestCSAT {
			best, bestCSAT = ch, channelCSAT
		}
		view.Rows = append(view.Rows, []any{
			ch, b.tickets, metric.Round1(metric.Mean(b.resolution)), metric.Round1(channelCSAT),
			metric.Round1(metric.Ratio(float64(b.escalated), float64(b.tickets)) * 100),
		})
	}
	if best == "" {
		return view, fmt.Sprintf("%d tickets across %d channels", len(d.Tickets), len(byChannel))
	}
	return view, fmt.Sprintf("Best channel: %s (CSAT %.1f%%)", best, bestCSAT)
}

func costPerResolution(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "resolved", "total_cost", "avg_cost"}}
	type bucket struct {
		resolved int
		cost     float64
	}
	byChannel := make(map[string]*bucket)
	resolved, total := 0, 0.0
	for _, t := range d.resolvedTickets() {
		b := byChannel[t.Channel]
		if b == nil {
			b = &bucket{}
			byChannel[t.Channel] = b
		}
		cost := t.ResolutionCost.InexactFloat64()
		b.resolved++
		b.cost += cost
		resolved++
		total += cost
	}
	if resolved == 0 {
		return view, metric.NoData("cost per resolution")
	}
	for _, ch := range sortedKeys(byChannel) {
		b := byChannel[ch]
		view.Rows = append(view.Rows, []any{ch, b.resolved, metric.Round2(b.cost), metric.Round2(b.cost / float64(b.resolved))})
	}
	return view, "Average cost per resolution: " + metric.Price(total/float64(resolved))
}

func abandonmentRate(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"channel", "tickets", "abandoned", "abandonment_pct"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("abandonment rate")
	}
	type bucket struct{ tickets, abandoned int }
	byChannel := make(map[string]*bucket)
	abandoned := 0
	for _, t := range d.Tickets {
		b := byChannel[t.Channel]
		if b == nil {
			b = &bucket{}
			byChannel[t.Channel] = b
		}
		b.tickets++
		if t.Abandoned {
			b.abandoned++
			abandoned++
		}
	}
	for _, ch := range sortedKeys(byChannel) {
		b := byChannel[ch]
		view.Rows = append(view.Rows, []any{
			ch, b.tickets, b.abandoned,
			metric.Round1(metric.Ratio(float64(b.abandoned), float64(b.tickets)) * 100),
		})
	}
	return view, fmt.Sprintf("Abandonment rate: %.1f%%", metric.Ratio(float64(abandoned), float64(len(d.Tickets)))*100)
}

func journeyMapping(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"stage", "tickets", "pct_of_created"}}
	if len(d.Tickets) == 0 {
		return view, metric.NoData("journey mapping")
	}
	surveyed := make(map[string]bool)
	for _, f := range d.Feedback {
		if f.TicketID != "" {
			surveyed[f.TicketID] = true
		}
	}
	var responded, escalated, resolved, reopened, withFeedback int
	for _, t := range d.Tickets {
		if t.FirstResponseMinutes > 0 {
			responded++
		}
		if t.Escalated {
			escalated++
		}
		if t.Resolved() {
			resolved++
		}
		if t.Reopened {
			reopened++
		}
		if surveyed[t.TicketID] {
			withFeedback++
		}
	}
	total := float64(len(d.Tickets))
	stage := func(name string, n int) {
		view.Rows = append(view.Rows, []any{name, n, metric.Round1(float64(n) / total * 100)})
	}
	stage("Created", len(d.Tickets))
	stage("First response", responded)
	stage("Escalated", escalated)
	stage("Resolved", resolved)
	stage("Reopened", reopened)
	stage("Feedback received", withFeedback)
	return view, fmt.Sprintf("%.1f%% of tickets reach resolution", float64(resolved)/total*100)
}
