package support

import (
	"fmt"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func socialMediaMetrics(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"measure", "value"}}
	var tickets []Ticket
	for _, t := range d.Tickets {
		if t.Channel == "Social" {
			tickets = append(tickets, t)
		}
	}
	interactions, positive := 0, 0
	for _, in := range d.Interactions {
		if in.Channel != "Social" {
			continue
		}
		interactions++
		if in.Sentiment == "Positive" {
			positive++
		}
	}
	if len(tickets) == 0 && interactions == 0 {
		return view, metric.NoData("social media support")
	}
	var response []float64
	for _, t := range tickets {
		if t.FirstResponseMinutes > 0 {
			response = append(response, t.FirstResponseMinutes)
		}
	}
	positivePct := metric.Ratio(float64(positive), float64(interactions)) * 100
	view.Rows = append(view.Rows,
		[]any{"tickets", len(tickets)},
		[]any{"interactions", interactions},
		[]any{"avg_first_response_minutes", metric.Round1(metric.Mean(response))},
		[]any{"positive_sentiment_pct", metric.Round1(positivePct)},
	)
	return view, fmt.Sprintf("%d social interactions, %.1f%% positive", interactions, positivePct)
}

// Containment counts chatbot contacts that never opened a ticket.
func chatbotMetrics(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"measure", "value"}}
	if len(d.Interactions) == 0 {
		return view, metric.NoData("chatbot performance")
	}
	bot, contained := 0, 0
	var botDuration, humanDuration []float64
	for _, in := range d.Interactions {
		if in.IsChatbot {
			bot++
			if in.TicketID == "" {
				contained++
			}
			botDuration = append(botDuration, in.DurationMinutes)
		} else {
			humanDuration = append(humanDuration, in.DurationMinutes)
		}
	}
	if bot == 0 {
		return view, "No chatbot interactions recorded"
	}
	share := metric.Ratio(float64(bot), float64(len(d.Interactions))) * 100
	containment := metric.Ratio(float64(contained), float64(bot)) * 100
	view.Rows = append(view.Rows,
		[]any{"chatbot_interactions", bot},
		[]any{"share_of_interactions_pct", metric.Round1(share)},
		[]any{"containment_pct", metric.Round1(containment)},
		[]any{"avg_chatbot_duration_minutes", metric.Round1(metric.Mean(botDuration))},
		[]any{"avg_human_duration_minutes", metric.Round1(metric.Mean(humanDuration))},
	)
	return view, fmt.Sprintf("Chatbot handles %.1f%% of interactions (%.1f%% contained)", share, containment)
}

func mobileVsDesktop(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"device", "interactions", "share_pct", "avg_duration_minutes", "positive_pct"}}
	type bucket struct {
		interactions, positive int
		duration               []float64
	}
	byDevice := make(map[string]*bucket)
	total := 0
	for _, in := range d.Interactions {
		if in.Device == "" {
			continue
		}
		b := byDevice[in.Device]
		if b == nil {
			b = &bucket{}
			byDevice[in.Device] = b
		}
		b.interactions++
		total++
		if in.Sentiment == "Positive" {
			b.positive++
		}
		b.duration = append(b.duration, in.DurationMinutes)
	}
	if total == 0 {
		return view, metric.NoData("mobile vs desktop")
	}
	for _, device := range sortedKeys(byDevice) {
		b := byDevice[device]
		view.Rows = append(view.Rows, []any{
			device, b.interactions,
			metric.Round1(metric.Ratio(float64(b.interactions), float64(total)) * 100),
			metric.Round1(metric.Mean(b.duration)),
			metric.Round1(metric.Ratio(float64(b.positive), float64(b.interactions)) * 100),
		})
	}
	mobile := 0
	if b := byDevice["Mobile"]; b != nil {
		mobile = b.interactions
	}
	return view, fmt.Sprintf("Mobile accounts for %.1f%% of device-tagged interactions", metric.Ratio(float64(mobile), float64(total))*100)
}
