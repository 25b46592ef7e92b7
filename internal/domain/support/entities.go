package support

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is one row of the Customers sheet
type Customer struct {
	CustomerID    string          `json:"customer_id" mapstructure:"customer_id"`
	Name          string          `json:"name" mapstructure:"name"`
	Email         string          `json:"email" mapstructure:"email"`
	Segment       string          `json:"segment" mapstructure:"segment"`
	Region        string          `json:"region" mapstructure:"region"`
	SignupDate    time.Time       `json:"signup_date" mapstructure:"signup_date"`
	Status        string          `json:"status" mapstructure:"status"`
	MonthlySpend  decimal.Decimal `json:"monthly_spend" mapstructure:"monthly_spend"`
	ReferralCount int             `json:"referral_count" mapstructure:"referral_count"`
}

// Churned reports whether the customer has left
func (c Customer) Churned() bool { return c.Status == "Churned" }

// TenureMonths returns the months between signup and asOf, never negative
func (c Customer) TenureMonths(asOf time.Time) float64 {
	if c.SignupDate.IsZero() || asOf.Before(c.SignupDate) {
		return 0
	}
	return asOf.Sub(c.SignupDate).Hours() / 24 / 30.44
}

// Ticket is one row of the Tickets sheet
type Ticket struct {
	TicketID             string          `json:"ticket_id" mapstructure:"ticket_id"`
	CustomerID           string          `json:"customer_id" mapstructure:"customer_id"`
	AgentID              string          `json:"agent_id" mapstructure:"agent_id"`
	Channel              string          `json:"channel" mapstructure:"channel"`
	Category             string          `json:"category" mapstructure:"category"`
	Priority             string          `json:"priority" mapstructure:"priority"`
	Status               string          `json:"status" mapstructure:"status"`
	CreatedAt            time.Time       `json:"created_at" mapstructure:"created_at"`
	FirstResponseMinutes float64         `json:"first_response_minutes" mapstructure:"first_response_minutes"`
	ResolutionMinutes    float64         `json:"resolution_minutes" mapstructure:"resolution_minutes"`
	Escalated            bool            `json:"escalated" mapstructure:"escalated"`
	Reopened             bool            `json:"reopened" mapstructure:"reopened"`
	ResolutionCost       decimal.Decimal `json:"resolution_cost" mapstructure:"resolution_cost"`
	Abandoned            bool            `json:"abandoned" mapstructure:"abandoned"`
	QueueWaitMinutes     float64         `json:"queue_wait_minutes" mapstructure:"queue_wait_minutes"`
}

// Resolved reports whether the ticket reached a terminal resolved state
func (t Ticket) Resolved() bool {
	return t.Status == "Resolved" || t.Status == "Closed"
}

// FirstContactResolution reports whether the ticket was resolved without a
// reopen or an escalation
func (t Ticket) FirstContactResolution() bool {
	return t.Resolved() && !t.Reopened && !t.Escalated
}

// Agent is one row of the Agents sheet. A zero TerminationDate means the
// agent is still employed.
type Agent struct {
	AgentID           string          `json:"agent_id" mapstructure:"agent_id"`
	Name              string          `json:"name" mapstructure:"name"`
	Team              string          `json:"team" mapstructure:"team"`
	HireDate          time.Time       `json:"hire_date" mapstructure:"hire_date"`
	TerminationDate   time.Time       `json:"termination_date" mapstructure:"termination_date"`
	SalaryMonthly     decimal.Decimal `json:"salary_monthly" mapstructure:"salary_monthly"`
	ActiveHoursPerDay float64         `json:"active_hours_per_day" mapstructure:"active_hours_per_day"`
	QualityScore      float64         `json:"quality_score" mapstructure:"quality_score"`
}

// Active reports whether the agent is still on the team
func (a Agent) Active() bool { return a.TerminationDate.IsZero() }

// Interaction is one row of the Interactions sheet. TicketID is empty for
// contacts that never opened a ticket.
type Interaction struct {
	InteractionID    string          `json:"interaction_id" mapstructure:"interaction_id"`
	TicketID         string          `json:"ticket_id" mapstructure:"ticket_id"`
	CustomerID       string          `json:"customer_id" mapstructure:"customer_id"`
	AgentID          string          `json:"agent_id" mapstructure:"agent_id"`
	Channel          string          `json:"channel" mapstructure:"channel"`
	OccurredAt       time.Time       `json:"occurred_at" mapstructure:"occurred_at"`
	DurationMinutes  float64         `json:"duration_minutes" mapstructure:"duration_minutes"`
	Sentiment        string          `json:"sentiment" mapstructure:"sentiment"`
	ContactReason    string          `json:"contact_reason" mapstructure:"contact_reason"`
	Device           string          `json:"device" mapstructure:"device"`
	IsProactive      bool            `json:"is_proactive" mapstructure:"is_proactive"`
	IsChatbot        bool            `json:"is_chatbot" mapstructure:"is_chatbot"`
	CrossSellSuccess bool            `json:"cross_sell_success" mapstructure:"cross_sell_success"`
	RevenueRecovered decimal.Decimal `json:"revenue_recovered" mapstructure:"revenue_recovered"`
	RefundAmount     decimal.Decimal `json:"refund_amount" mapstructure:"refund_amount"`
}

// Feedback is one row of the Feedback sheet. Score is the 1-5 CSAT answer,
// NPSScore the 0-10 recommendation answer and EffortScore the 1-7 CES answer.
type Feedback struct {
	FeedbackID     string    `json:"feedback_id" mapstructure:"feedback_id"`
	TicketID       string    `json:"ticket_id" mapstructure:"ticket_id"`
	CustomerID     string    `json:"customer_id" mapstructure:"customer_id"`
	Score          int       `json:"score" mapstructure:"score"`
	NPSScore       int       `json:"nps_score" mapstructure:"nps_score"`
	EffortScore    int       `json:"effort_score" mapstructure:"effort_score"`
	Sentiment      string    `json:"sentiment" mapstructure:"sentiment"`
	Channel        string    `json:"channel" mapstructure:"channel"`
	SubmittedAt    time.Time `json:"submitted_at" mapstructure:"submitted_at"`
	WouldRecommend bool      `json:"would_recommend" mapstructure:"would_recommend"`
}

// Satisfied reports whether the response counts toward CSAT
func (f Feedback) Satisfied() bool { return f.Score >= 4 }

// SLATarget is one row of the SLA sheet, the response and resolution targets
// for one ticket priority
type SLATarget struct {
	SLAID                      string  `json:"sla_id" mapstructure:"sla_id"`
	Priority                   string  `json:"priority" mapstructure:"priority"`
	TargetFirstResponseMinutes float64 `json:"target_first_response_minutes" mapstructure:"target_first_response_minutes"`
	TargetResolutionMinutes    float64 `json:"target_resolution_minutes" mapstructure:"target_resolution_minutes"`
}

// Article is one row of the Knowledge_Base sheet
type Article struct {
	ArticleID      string    `json:"article_id" mapstructure:"article_id"`
	Title          string    `json:"title" mapstructure:"title"`
	Category       string    `json:"category" mapstructure:"category"`
	Views          int       `json:"views" mapstructure:"views"`
	HelpfulVotes   int       `json:"helpful_votes" mapstructure:"helpful_votes"`
	UnhelpfulVotes int       `json:"unhelpful_votes" mapstructure:"unhelpful_votes"`
	CreatedAt      time.Time `json:"created_at" mapstructure:"created_at"`
	LastUpdated    time.Time `json:"last_updated" mapstructure:"last_updated"`
}

// Training is one row of the Training sheet
type Training struct {
	TrainingID  string    `json:"training_id" mapstructure:"training_id"`
	AgentID     string    `json:"agent_id" mapstructure:"agent_id"`
	Course      string    `json:"course" mapstructure:"course"`
	CompletedAt time.Time `json:"completed_at" mapstructure:"completed_at"`
	ScoreBefore float64   `json:"score_before" mapstructure:"score_before"`
	ScoreAfter  float64   `json:"score_after" mapstructure:"score_after"`
	Hours       float64   `json:"hours" mapstructure:"hours"`
}
