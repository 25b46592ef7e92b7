package support

import (
	"sort"
	"time"

	"github.com/kpihub/backend/internal/domain/metric"
)

// Metric catalog sections
const (
	sectionSatisfaction = "Satisfaction & Experience"
	sectionOperations   = "Service Operations"
	sectionCustomer     = "Customer Analytics"
	sectionAgent        = "Agent Performance"
	sectionDigital      = "Digital Channels"
)

// sentimentOrder fixes the row order of sentiment breakdowns
var sentimentOrder = []string{"Positive", "Neutral", "Negative"}

// priorityOrder ranks ticket priorities from most to least urgent
var priorityOrder = []string{"Critical", "High", "Medium", "Low"}

// Metrics builds the customer service metric registry
func Metrics() *metric.Registry[*Dataset] {
	return metric.NewRegistry(
		metric.Definition[*Dataset]{Name: "csat", Title: "Customer Satisfaction (CSAT)", Section: sectionSatisfaction, Compute: csat},
		metric.Definition[*Dataset]{Name: "nps", Title: "Net Promoter Score", Section: sectionSatisfaction, Compute: nps},
		metric.Definition[*Dataset]{Name: "ces", Title: "Customer Effort Score", Section: sectionSatisfaction, Compute: ces},
		metric.Definition[*Dataset]{Name: "sentiment-split", Title: "Sentiment Split", Section: sectionSatisfaction, Compute: sentimentSplit},
		metric.Definition[*Dataset]{Name: "omnichannel-satisfaction", Title: "Omnichannel Satisfaction", Section: sectionSatisfaction, Compute: omnichannelSatisfaction},
		metric.Definition[*Dataset]{Name: "proactive-support-impact", Title: "Proactive Support Impact", Section: sectionSatisfaction, Compute: proactiveSupportImpact},
		metric.Definition[*Dataset]{Name: "loyalty-effectiveness", Title: "Loyalty Effectiveness", Section: sectionSatisfaction, Compute: loyaltyEffectiveness},
		metric.Definition[*Dataset]{Name: "advocacy-impact", Title: "Advocacy Impact", Section: sectionSatisfaction, Compute: advocacyImpact},

		metric.Definition[*Dataset]{Name: "frt", Title: "First Response Time", Section: sectionOperations, Compute: firstResponseTime},
		metric.Definition[*Dataset]{Name: "art", Title: "Average Resolution Time", Section: sectionOperations, Compute: avgResolutionTime},
		metric.Definition[*Dataset]{Name: "fcr", Title: "First Contact Resolution", Section: sectionOperations, Compute: firstContactResolution},
		metric.Definition[*Dataset]{Name: "escalation-time", Title: "Escalation Analysis", Section: sectionOperations, Compute: escalationAnalysis},
		metric.Definition[*Dataset]{Name: "queue-wait", Title: "Queue Wait Time", Section: sectionOperations, Compute: queueWait},
		metric.Definition[*Dataset]{Name: "ticket-volume", Title: "Ticket Volume", Section: sectionOperations, Compute: ticketVolume},
		metric.Definition[*Dataset]{Name: "sla-compliance", Title: "SLA Compliance", Section: sectionOperations, Compute: slaCompliance},
		metric.Definition[*Dataset]{Name: "channel-performance", Title: "Channel Performance", Section: sectionOperations, Compute: channelPerformance},
		metric.Definition[*Dataset]{Name: "cost-per-resolution", Title: "Cost per Resolution", Section: sectionOperations, Compute: costPerResolution},
		metric.Definition[*Dataset]{Name: "abandonment-rate", Title: "Abandonment Rate", Section: sectionOperations, Compute: abandonmentRate},
		metric.Definition[*Dataset]{Name: "journey-mapping", Title: "Customer Journey Mapping", Section: sectionOperations, Compute: journeyMapping},

		metric.Definition[*Dataset]{Name: "churn-rate", Title: "Churn Rate", Section: sectionCustomer, Compute: churnRate},
		metric.Definition[*Dataset]{Name: "retention-rate", Title: "Retention Rate", Section: sectionCustomer, Compute: retentionRate},
		metric.Definition[*Dataset]{Name: "clv", Title: "Customer Lifetime Value", Section: sectionCustomer, Compute: customerLifetimeValue},
		metric.Definition[*Dataset]{Name: "churn-prediction", Title: "Churn Risk Prediction", Section: sectionCustomer, Compute: churnPrediction},
		metric.Definition[*Dataset]{Name: "behavior-patterns", Title: "Behavior Patterns", Section: sectionCustomer, Compute: behaviorPatterns},
		metric.Definition[*Dataset]{Name: "contact-reason-mix", Title: "Contact Reason Mix", Section: sectionCustomer, Compute: contactReasonMix},
		metric.Definition[*Dataset]{Name: "interaction-trends", Title: "Interaction Trends", Section: sectionCustomer, Compute: interactionTrends},
		metric.Definition[*Dataset]{Name: "revenue-recovery", Title: "Revenue Recovery", Section: sectionCustomer, Compute: revenueRecovery},
		metric.Definition[*Dataset]{Name: "refund-trends", Title: "Refund Trends", Section: sectionCustomer, Compute: refundTrends},
		metric.Definition[*Dataset]{Name: "cross-sell-success", Title: "Cross-Sell Success", Section: sectionCustomer, Compute: crossSellSuccess},

		metric.Definition[*Dataset]{Name: "agent-utilization", Title: "Agent Utilization", Section: sectionAgent, Compute: agentUtilization},
		metric.Definition[*Dataset]{Name: "agent-performance", Title: "Agent Performance", Section: sectionAgent, Compute: agentPerformance},
		metric.Definition[*Dataset]{Name: "training-effectiveness", Title: "Training Effectiveness", Section: sectionAgent, Compute: trainingEffectiveness},
		metric.Definition[*Dataset]{Name: "call-quality", Title: "Call Quality", Section: sectionAgent, Compute: callQuality},
		metric.Definition[*Dataset]{Name: "agent-turnover", Title: "Agent Turnover", Section: sectionAgent, Compute: agentTurnover},
		metric.Definition[*Dataset]{Name: "kb-utilization", Title: "Knowledge Base Utilization", Section: sectionAgent, Compute: kbUtilization},

		metric.Definition[*Dataset]{Name: "social-media-metrics", Title: "Social Media Support", Section: sectionDigital, Compute: socialMediaMetrics},
		metric.Definition[*Dataset]{Name: "chatbot-metrics", Title: "Chatbot Performance", Section: sectionDigital, Compute: chatbotMetrics},
		metric.Definition[*Dataset]{Name: "mobile-vs-desktop", Title: "Mobile vs Desktop", Section: sectionDigital, Compute: mobileVsDesktop},
	)
}

func (d *Dataset) agentNames() map[string]string {
	names := make(map[string]string, len(d.Agents))
	for _, a := range d.Agents {
		names[a.AgentID] = a.Name
	}
	return names
}

func (d *Dataset) customersByID() map[string]Customer {
	out := make(map[string]Customer, len(d.Customers))
	for _, c := range d.Customers {
		out[c.CustomerID] = c
	}
	return out
}

func (d *Dataset) ticketsByID() map[string]Ticket {
	out := make(map[string]Ticket, len(d.Tickets))
	for _, t := range d.Tickets {
		out[t.TicketID] = t
	}
	return out
}

// resolvedTickets returns the tickets in a terminal resolved state
func (d *Dataset) resolvedTickets() []Ticket {
	out := make([]Ticket, 0, len(d.Tickets))
	for _, t := range d.Tickets {
		if t.Resolved() {
			out = append(out, t)
		}
	}
	return out
}

// proactiveTickets returns the IDs of tickets touched by at least one
// proactive interaction
func (d *Dataset) proactiveTickets() map[string]bool {
	out := make(map[string]bool)
	for _, in := range d.Interactions {
		if in.IsProactive && in.TicketID != "" {
			out[in.TicketID] = true
		}
	}
	return out
}

// agentLabel resolves an agent ID to its display name, keeping the ID when
// the Agents sheet does not know it
func agentLabel(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// sortedKeys returns the map keys in lexical order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedPriorities returns the map keys ordered urgent-first, with unknown
// priorities trailing in lexical order
func sortedPriorities[V any](m map[string]V) []string {
	rank := make(map[string]int, len(priorityOrder))
	for i, p := range priorityOrder {
		rank[p] = i
	}
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iKnown := rank[keys[i]]
		rj, jKnown := rank[keys[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		default:
			return false
		}
	})
	return keys
}

// csatShare returns the percentage of responses scoring 4 or above
func csatShare(responses []Feedback) float64 {
	if len(responses) == 0 {
		return 0
	}
	satisfied := 0
	for _, f := range responses {
		if f.Satisfied() {
			satisfied++
		}
	}
	return metric.Ratio(float64(satisfied), float64(len(responses))) * 100
}
