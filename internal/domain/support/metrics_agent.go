package support

import (
	"fmt"
	"math"
	"sort"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func agentUtilization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"agent", "interactions", "handled_minutes", "utilization_pct"}}
	if len(d.Agents) == 0 || len(d.Interactions) == 0 {
		return view, metric.NoData("agent utilization")
	}
	days := make(map[string]bool)
	handled := make(map[string]float64)
	counts := make(map[string]int)
	for _, in := range d.Interactions {
		days[dayKey(in.OccurredAt)] = true
		if in.AgentID == "" {
			continue
		}
		handled[in.AgentID] += in.DurationMinutes
		counts[in.AgentID]++
	}
	span := float64(len(days))
	var utilizations []float64
	for _, a := range d.Agents {
		if !a.Active() {
			continue
		}
		capacity := a.ActiveHoursPerDay * 60 * span
		utilization := metric.Ratio(handled[a.AgentID], capacity) * 100
		utilizations = append(utilizations, utilization)
		name := a.Name
		if name == "" {
			name = a.AgentID
		}
		view.Rows = append(view.Rows, []any{name, counts[a.AgentID], metric.Round1(handled[a.AgentID]), metric.Round1(utilization)})
	}
	if len(utilizations) == 0 {
		return view, "No active agents on file"
	}
	return view, fmt.Sprintf("Average agent utilization: %.1f%%", metric.Mean(utilizations))
}

// agentPerformance blends four equal-weight components into a 0-100 score:
// ticket volume relative to the busiest agent, resolution speed relative to
// the slowest, CSAT on the agent's tickets, and the QA quality score.
func agentPerformance(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"agent", "tickets", "avg_resolution_minutes", "csat_pct", "quality_score", "composite"}}
	if len(d.Agents) == 0 || len(d.Tickets) == 0 {
		return view, metric.NoData("agent performance")
	}
	type perf struct {
		tickets    int
		resolution []float64
		responses  []Feedback
	}
	byAgent := make(map[string]*perf)
	for _, t := range d.Tickets {
		if t.AgentID == "" {
			continue
		}
		p := byAgent[t.AgentID]
		if p == nil {
			p = &perf{}
			byAgent[t.AgentID] = p
		}
		p.tickets++
		if t.Resolved() && t.ResolutionMinutes > 0 {
			p.resolution = append(p.resolution, t.ResolutionMinutes)
		}
	}
	tickets := d.ticketsByID()
	for _, f := range d.Feedback {
		t, ok := tickets[f.TicketID]
		if !ok || t.AgentID == "" {
			continue
		}
		if p := byAgent[t.AgentID]; p != nil {
			p.responses = append(p.responses, f)
		}
	}
	maxVolume, maxResolution := 0.0, 0.0
	for _, p := range byAgent {
		maxVolume = math.Max(maxVolume, float64(p.tickets))
		if len(p.resolution) > 0 {
			maxResolution = math.Max(maxResolution, metric.Mean(p.resolution))
		}
	}
	type scored struct {
		name       string
		tickets    int
		resolution float64
		csat       float64
		quality    float64
		composite  float64
	}
	var rows []scored
	for _, a := range d.Agents {
		p := byAgent[a.AgentID]
		if p == nil {
			continue
		}
		avgResolution := metric.Mean(p.resolution)
		volumeScore := metric.Ratio(float64(p.tickets), maxVolume) * 25
		speedScore := 25.0
		if maxResolution > 0 && avgResolution > 0 {
			speedScore = (1 - avgResolution/maxResolution) * 25
		}
		agentCSAT := csatShare(p.responses)
		composite := volumeScore + speedScore + agentCSAT/100*25 + a.QualityScore/100*25
		name := a.Name
		if name == "" {
			name = a.AgentID
		}
		rows = append(rows, scored{name, p.tickets, avgResolution, agentCSAT, a.QualityScore, composite})
	}
	if len(rows) == 0 {
		return view, "No tickets are assigned to known agents"
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].composite > rows[j].composite })
	for _, r := range rows {
		view.Rows = append(view.Rows, []any{
			r.name, r.tickets, metric.Round1(r.resolution), metric.Round1(r.csat),
			metric.Round1(r.quality), metric.Round1(r.composite),
		})
	}
	top := rows[0]
	return view, fmt.Sprintf("Top agent: %s (score %.1f)", top.name, top.composite)
}

func trainingEffectiveness(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"course", "sessions", "avg_score_before", "avg_score_after", "avg_lift"}}
	if len(d.Trainings) == 0 {
		return view, metric.NoData("training effectiveness")
	}
	type bucket struct{ before, after []float64 }
	byCourse := make(map[string]*bucket)
	var lifts []float64
	for _, tr := range d.Trainings {
		b := byCourse[tr.Course]
		if b == nil {
			b = &bucket{}
			byCourse[tr.Course] = b
		}
		b.before = append(b.before, tr.ScoreBefore)
		b.after = append(b.after, tr.ScoreAfter)
		lifts = append(lifts, tr.ScoreAfter-tr.ScoreBefore)
	}
	for _, course := range sortedKeys(byCourse) {
		b := byCourse[course]
		view.Rows = append(view.Rows, []any{
			course, len(b.before), metric.Round1(metric.Mean(b.before)), metric.Round1(metric.Mean(b.after)),
			metric.Round1(metric.Mean(b.after) - metric.Mean(b.before)),
		})
	}
	return view, fmt.Sprintf("Average score lift: %+.1f points", metric.Mean(lifts))
}

func callQuality(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"team", "agents", "avg_quality_score"}}
	if len(d.Agents) == 0 {
		return view, metric.NoData("call quality")
	}
	byTeam := make(map[string][]float64)
	var all []float64
	for _, a := range d.Agents {
		team := a.Team
		if team == "" {
			team = "Unassigned"
		}
		byTeam[team] = append(byTeam[team], a.QualityScore)
		all = append(all, a.QualityScore)
	}
	for _, team := range sortedKeys(byTeam) {
		xs := byTeam[team]
		view.Rows = append(view.Rows, []any{team, len(xs), metric.Round1(metric.Mean(xs))})
	}
	return view, fmt.Sprintf("Average quality score: %.1f", metric.Mean(all))
}

func agentTurnover(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"team", "agents", "departed", "turnover_pct"}}
	if len(d.Agents) == 0 {
		return view, metric.NoData("agent turnover")
	}
	type bucket struct{ agents, departed int }
	byTeam := make(map[string]*bucket)
	departed := 0
	for _, a := range d.Agents {
		team := a.Team
		if team == "" {
			team = "Unassigned"
		}
		b := byTeam[team]
		if b == nil {
			b = &bucket{}
			byTeam[team] = b
		}
		b.agents++
		if !a.Active() {
			b.departed++
			departed++
		}
	}
	for _, team := range sortedKeys(byTeam) {
		b := byTeam[team]
		view.Rows = append(view.Rows, []any{
			team, b.agents, b.departed,
			metric.Round1(metric.Ratio(float64(b.departed), float64(b.agents)) * 100),
		})
	}
	return view, fmt.Sprintf("Agent turnover: %.1f%%", metric.Ratio(float64(departed), float64(len(d.Agents)))*100)
}

func kbUtilization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"category", "articles", "views", "helpful_pct"}}
	if len(d.Articles) == 0 {
		return view, metric.NoData("knowledge base utilization")
	}
	type bucket struct{ articles, views, helpful, unhelpful int }
	byCategory := make(map[string]*bucket)
	views, helpful, unhelpful := 0, 0, 0
	for _, a := range d.Articles {
		category := a.Category
		if category == "" {
			category = "Uncategorized"
		}
		b := byCategory[category]
		if b == nil {
			b = &bucket{}
			byCategory[category] = b
		}
		b.articles++
		b.views += a.Views
		b.helpful += a.HelpfulVotes
		b.unhelpful += a.UnhelpfulVotes
		views += a.Views
		helpful += a.HelpfulVotes
		unhelpful += a.UnhelpfulVotes
	}
	for _, category := range sortedKeys(byCategory) {
		b := byCategory[category]
		view.Rows = append(view.Rows, []any{
			category, b.articles, b.views,
			metric.Round1(metric.Ratio(float64(b.helpful), float64(b.helpful+b.unhelpful)) * 100),
		})
	}
	helpfulPct := metric.Ratio(float64(helpful), float64(helpful+unhelpful)) * 100
	return view, fmt.Sprintf("Knowledge base: %s views, %.1f%% helpful", metric.Count(views), helpfulPct)
}
