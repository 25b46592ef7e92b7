package support

import "github.com/kpihub/backend/internal/domain/dataset"

// Domain is the department key of this analytics module
const Domain = "customer-service"

// Required sheet names
const (
	TableCustomers     = "Customers"
	TableTickets       = "Tickets"
	TableAgents        = "Agents"
	TableInteractions  = "Interactions"
	TableFeedback      = "Feedback"
	TableSLA           = "SLA"
	TableKnowledgeBase = "Knowledge_Base"
	TableTraining      = "Training"
)

var (
	customerColumns    = []string{"customer_id", "name", "email", "segment", "region", "signup_date", "status", "monthly_spend", "referral_count"}
	ticketColumns      = []string{"ticket_id", "customer_id", "agent_id", "channel", "category", "priority", "status", "created_at", "first_response_minutes", "resolution_minutes", "escalated", "reopened", "resolution_cost", "abandoned", "queue_wait_minutes"}
	agentColumns       = []string{"agent_id", "name", "team", "hire_date", "termination_date", "salary_monthly", "active_hours_per_day", "quality_score"}
	interactionColumns = []string{"interaction_id", "ticket_id", "customer_id", "agent_id", "channel", "occurred_at", "duration_minutes", "sentiment", "contact_reason", "device", "is_proactive", "is_chatbot", "cross_sell_success", "revenue_recovered", "refund_amount"}
	feedbackColumns    = []string{"feedback_id", "ticket_id", "customer_id", "score", "nps_score", "effort_score", "sentiment", "channel", "submitted_at", "would_recommend"}
	slaColumns         = []string{"sla_id", "priority", "target_first_response_minutes", "target_resolution_minutes"}
	articleColumns     = []string{"article_id", "title", "category", "views", "helpful_votes", "unhelpful_votes", "created_at", "last_updated"}
	trainingColumns    = []string{"training_id", "agent_id", "course", "completed_at", "score_before", "score_after", "hours"}
)

// Schema returns the workbook layout the customer service module accepts
func Schema() dataset.Schema {
	return dataset.Schema{Sheets: []dataset.Sheet{
		{Name: TableCustomers, Columns: customerColumns},
		{Name: TableTickets, Columns: ticketColumns},
		{Name: TableAgents, Columns: agentColumns},
		{Name: TableInteractions, Columns: interactionColumns},
		{Name: TableFeedback, Columns: feedbackColumns},
		{Name: TableSLA, Columns: slaColumns},
		{Name: TableKnowledgeBase, Columns: articleColumns},
		{Name: TableTraining, Columns: trainingColumns},
	}}
}
