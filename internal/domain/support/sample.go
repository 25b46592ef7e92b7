package support

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// sampleSeed fixes the demo dataset so repeated loads are identical
const sampleSeed = 42

const (
	sampleCustomers    = 50
	sampleAgents       = 15
	sampleTickets      = 200
	sampleInteractions = 300
	sampleFeedback     = 150
	sampleArticles     = 30
	sampleTrainings    = 40
)

var (
	sampleSegments   = []string{"Consumer", "SMB", "Enterprise"}
	sampleRegions    = []string{"North America", "Europe", "Asia Pacific", "Latin America"}
	sampleChannels   = []string{"Phone", "Email", "Chat", "Social", "Mobile App", "Web"}
	sampleCategories = []string{"Billing", "Technical Issue", "Account Access", "Product Question", "Complaint", "Feature Request"}
	sampleReasons    = []string{"Billing question", "Bug report", "How-to", "Outage", "Refund request", "Upgrade", "Cancellation"}
	sampleTeams      = []string{"Tier 1", "Tier 2", "Escalations"}
	sampleCourses    = []string{"De-escalation", "Product Deep Dive", "Empathy at Scale", "Tooling Refresher"}
	sampleDevices    = []string{"Mobile", "Desktop"}
)

// sampleSLAs are the per-priority targets shipped with the demo dataset
var sampleSLAs = []SLATarget{
	{SLAID: "SLA-001", Priority: "Critical", TargetFirstResponseMinutes: 15, TargetResolutionMinutes: 240},
	{SLAID: "SLA-002", Priority: "High", TargetFirstResponseMinutes: 30, TargetResolutionMinutes: 480},
	{SLAID: "SLA-003", Priority: "Medium", TargetFirstResponseMinutes: 60, TargetResolutionMinutes: 1440},
	{SLAID: "SLA-004", Priority: "Low", TargetFirstResponseMinutes: 120, TargetResolutionMinutes: 2880},
}

// Sample generates the demonstration dataset anchored at now. The generator
// is seeded, so two datasets built from the same anchor are identical.
func Sample(now time.Time) *Dataset {
	return SampleSeeded(now, sampleSeed)
}

// SampleSeeded generates the demonstration dataset with a caller-chosen seed
func SampleSeeded(now time.Time, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	base := now.UTC().Truncate(24 * time.Hour)
	d := NewDataset()

	for i := 0; i < sampleCustomers; i++ {
		referrals := 0
		if rng.Float64() < 0.3 {
			referrals = 1 + rng.Intn(5)
		}
		d.Customers = append(d.Customers, Customer{
			CustomerID:    fmt.Sprintf("CUST-%03d", i+1),
			Name:          fmt.Sprintf("Customer %d", i+1),
			Email:         fmt.Sprintf("customer%d@example.com", i+1),
			Segment:       pick(rng, sampleSegments),
			Region:        pick(rng, sampleRegions),
			SignupDate:    base.AddDate(0, 0, -(30 + rng.Intn(1065))),
			Status:        sampleCustomerStatus(rng),
			MonthlySpend:  money(20 + rng.Float64()*480),
			ReferralCount: referrals,
		})
	}

	for i := 0; i < sampleAgents; i++ {
		agent := Agent{
			AgentID:           fmt.Sprintf("AGT-%03d", i+1),
			Name:              fmt.Sprintf("Agent %d", i+1),
			Team:              pick(rng, sampleTeams),
			HireDate:          base.AddDate(0, 0, -(90 + rng.Intn(1280))),
			SalaryMonthly:     money(3000 + rng.Float64()*3000),
			ActiveHoursPerDay: 6 + rng.Float64()*2,
			QualityScore:      70 + rng.Float64()*30,
		}
		if rng.Float64() < 0.13 {
			agent.TerminationDate = base.AddDate(0, 0, -rng.Intn(90))
		}
		d.Agents = append(d.Agents, agent)
	}

	d.SLAs = append(d.SLAs, sampleSLAs...)
	responseTargets := make(map[string]float64, len(sampleSLAs))
	resolutionTargets := make(map[string]float64, len(sampleSLAs))
	for _, s := range sampleSLAs {
		responseTargets[s.Priority] = s.TargetFirstResponseMinutes
		resolutionTargets[s.Priority] = s.TargetResolutionMinutes
	}

	for i := 0; i < sampleTickets; i++ {
		priority := sampleTicketPriority(rng)
		status := sampleTicketStatus(rng)
		created := base.AddDate(0, 0, -(8 + rng.Intn(172))).
			Add(time.Duration(8+rng.Intn(12))*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
		t := Ticket{
			TicketID:             fmt.Sprintf("TKT-%04d", i+1),
			CustomerID:           d.Customers[rng.Intn(len(d.Customers))].CustomerID,
			AgentID:              d.Agents[rng.Intn(len(d.Agents))].AgentID,
			Channel:              pick(rng, sampleChannels),
			Category:             pick(rng, sampleCategories),
			Priority:             priority,
			Status:               status,
			CreatedAt:            created,
			FirstResponseMinutes: responseTargets[priority] * (0.3 + rng.Float64()*1.4),
			Escalated:            status == "Escalated" || rng.Float64() < 0.05,
			Reopened:             rng.Float64() < 0.07,
			Abandoned:            rng.Float64() < 0.03,
			QueueWaitMinutes:     rng.Float64() * 30,
		}
		if t.Resolved() {
			t.ResolutionMinutes = resolutionTargets[priority] * (0.2 + rng.Float64()*1.6)
			t.ResolutionCost = money(5 + rng.Float64()*45)
		}
		d.Tickets = append(d.Tickets, t)
	}

	for i := 0; i < sampleInteractions; i++ {
		in := Interaction{
			InteractionID:    fmt.Sprintf("INT-%04d", i+1),
			Channel:          pick(rng, sampleChannels),
			Sentiment:        sampleSentiment(rng),
			ContactReason:    pick(rng, sampleReasons),
			Device:           pick(rng, sampleDevices),
			IsProactive:      rng.Float64() < 0.10,
			IsChatbot:        rng.Float64() < 0.15,
			CrossSellSuccess: rng.Float64() < 0.08,
			DurationMinutes:  2 + rng.Float64()*38,
		}
		if rng.Float64() < 0.8 {
			t := d.Tickets[rng.Intn(len(d.Tickets))]
			in.TicketID = t.TicketID
			in.CustomerID = t.CustomerID
			in.AgentID = t.AgentID
			in.Channel = t.Channel
			in.OccurredAt = t.CreatedAt.Add(time.Duration(rng.Intn(48)) * time.Hour)
		} else {
			in.CustomerID = d.Customers[rng.Intn(len(d.Customers))].CustomerID
			in.AgentID = d.Agents[rng.Intn(len(d.Agents))].AgentID
			in.OccurredAt = base.AddDate(0, 0, -(1 + rng.Intn(179))).
				Add(time.Duration(8+rng.Intn(12)) * time.Hour)
		}
		if in.IsChatbot {
			in.AgentID = ""
			in.DurationMinutes = 1 + rng.Float64()*9
		}
		if rng.Float64() < 0.05 {
			in.RevenueRecovered = money(20 + rng.Float64()*200)
		}
		if rng.Float64() < 0.06 {
			in.RefundAmount = money(10 + rng.Float64()*100)
		}
		d.Interactions = append(d.Interactions, in)
	}

	for i := 0; i < sampleFeedback; i++ {
		t := d.Tickets[rng.Intn(len(d.Tickets))]
		score := sampleScore(rng)
		effort := 7 - score - rng.Intn(2)
		if effort < 1 {
			effort = 1
		}
		d.Feedback = append(d.Feedback, Feedback{
			FeedbackID:     fmt.Sprintf("FBK-%04d", i+1),
			TicketID:       t.TicketID,
			CustomerID:     t.CustomerID,
			Score:          score,
			NPSScore:       sampleNPS(rng, score),
			EffortScore:    effort,
			Sentiment:      scoreSentiment(score),
			Channel:        t.Channel,
			SubmittedAt:    t.CreatedAt.AddDate(0, 0, 1+rng.Intn(5)),
			WouldRecommend: score >= 4 && rng.Float64() < 0.9,
		})
	}

	for i := 0; i < sampleArticles; i++ {
		d.Articles = append(d.Articles, Article{
			ArticleID:      fmt.Sprintf("ART-%03d", i+1),
			Title:          fmt.Sprintf("Help Article %d", i+1),
			Category:       pick(rng, sampleCategories),
			Views:          50 + rng.Intn(4950),
			HelpfulVotes:   rng.Intn(200),
			UnhelpfulVotes: rng.Intn(60),
			CreatedAt:      base.AddDate(0, 0, -(30 + rng.Intn(700))),
			LastUpdated:    base.AddDate(0, 0, -rng.Intn(30)),
		})
	}

	for i := 0; i < sampleTrainings; i++ {
		before := 50 + rng.Float64()*30
		after := before + rng.Float64()*20
		if after > 100 {
			after = 100
		}
		d.Trainings = append(d.Trainings, Training{
			TrainingID:  fmt.Sprintf("TRN-%03d", i+1),
			AgentID:     d.Agents[rng.Intn(len(d.Agents))].AgentID,
			Course:      pick(rng, sampleCourses),
			CompletedAt: base.AddDate(0, 0, -rng.Intn(365)),
			ScoreBefore: before,
			ScoreAfter:  after,
			Hours:       2 + rng.Float64()*14,
		})
	}

	return d
}

func sampleCustomerStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.70:
		return "Active"
	case r < 0.85:
		return "Inactive"
	default:
		return "Churned"
	}
}

func sampleTicketStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.55:
		return "Resolved"
	case r < 0.75:
		return "Closed"
	case r < 0.85:
		return "In Progress"
	case r < 0.93:
		return "Open"
	default:
		return "Escalated"
	}
}

func sampleTicketPriority(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.10:
		return "Critical"
	case r < 0.35:
		return "High"
	case r < 0.80:
		return "Medium"
	default:
		return "Low"
	}
}

func sampleSentiment(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.45:
		return "Positive"
	case r < 0.80:
		return "Neutral"
	default:
		return "Negative"
	}
}

// sampleScore skews CSAT answers toward the satisfied end
func sampleScore(rng *rand.Rand) int {
	switch r := rng.Float64(); {
	case r < 0.05:
		return 1
	case r < 0.15:
		return 2
	case r < 0.30:
		return 3
	case r < 0.65:
		return 4
	default:
		return 5
	}
}

// sampleNPS keeps the recommendation answer roughly in line with the CSAT
// answer of the same response
func sampleNPS(rng *rand.Rand, score int) int {
	switch {
	case score >= 4:
		return 7 + rng.Intn(4)
	case score == 3:
		return 5 + rng.Intn(4)
	default:
		return rng.Intn(7)
	}
}

func scoreSentiment(score int) string {
	switch {
	case score >= 4:
		return "Positive"
	case score == 3:
		return "Neutral"
	default:
		return "Negative"
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
