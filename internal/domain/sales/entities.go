package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Pipeline stages in funnel order. Closed Won and Closed Lost are terminal.
var stageOrder = []string{"Prospecting", "Qualification", "Proposal", "Negotiation", "Closed Won", "Closed Lost"}

// Customer is one row of the Customers sheet
type Customer struct {
	CustomerID      string    `json:"customer_id" mapstructure:"customer_id"`
	CustomerName    string    `json:"customer_name" mapstructure:"customer_name"`
	Company         string    `json:"company" mapstructure:"company"`
	Industry        string    `json:"industry" mapstructure:"industry"`
	Region          string    `json:"region" mapstructure:"region"`
	Country         string    `json:"country" mapstructure:"country"`
	CustomerSegment string    `json:"customer_segment" mapstructure:"customer_segment"`
	AcquisitionDate time.Time `json:"acquisition_date" mapstructure:"acquisition_date"`
	Status          string    `json:"status" mapstructure:"status"`
}

// Churned reports whether the customer has been lost
func (c Customer) Churned() bool {
	return c.Status == "Churned"
}

// Product is one row of the Products sheet
type Product struct {
	ProductID   string          `json:"product_id" mapstructure:"product_id"`
	ProductName string          `json:"product_name" mapstructure:"product_name"`
	Category    string          `json:"category" mapstructure:"category"`
	Subcategory string          `json:"subcategory" mapstructure:"subcategory"`
	UnitPrice   decimal.Decimal `json:"unit_price" mapstructure:"unit_price"`
	CostPrice   decimal.Decimal `json:"cost_price" mapstructure:"cost_price"`
	LaunchDate  time.Time       `json:"launch_date" mapstructure:"launch_date"`
	Status      string          `json:"status" mapstructure:"status"`
}

// MarginPct returns (unit_price - cost_price) / unit_price * 100, or 0 when
// the unit price is unset
func (p Product) MarginPct() float64 {
	price := p.UnitPrice.InexactFloat64()
	if price == 0 {
		return 0
	}
	return (price - p.CostPrice.InexactFloat64()) / price * 100
}

// SalesOrder is one row of the Sales_Orders sheet
type SalesOrder struct {
	OrderID     string          `json:"order_id" mapstructure:"order_id"`
	CustomerID  string          `json:"customer_id" mapstructure:"customer_id"`
	OrderDate   time.Time       `json:"order_date" mapstructure:"order_date"`
	ProductID   string          `json:"product_id" mapstructure:"product_id"`
	Quantity    int             `json:"quantity" mapstructure:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" mapstructure:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount" mapstructure:"total_amount"`
	SalesRepID  string          `json:"sales_rep_id" mapstructure:"sales_rep_id"`
	Region      string          `json:"region" mapstructure:"region"`
	Channel     string          `json:"channel" mapstructure:"channel"`
}

// Revenue returns the order value, falling back to quantity x unit price
// when the total_amount column was left blank
func (o SalesOrder) Revenue() decimal.Decimal {
	if !o.TotalAmount.IsZero() {
		return o.TotalAmount
	}
	return o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// SalesRep is one row of the Sales_Reps sheet
type SalesRep struct {
	SalesRepID  string          `json:"sales_rep_id" mapstructure:"sales_rep_id"`
	FirstName   string          `json:"first_name" mapstructure:"first_name"`
	LastName    string          `json:"last_name" mapstructure:"last_name"`
	Region      string          `json:"region" mapstructure:"region"`
	Team        string          `json:"team" mapstructure:"team"`
	HireDate    time.Time       `json:"hire_date" mapstructure:"hire_date"`
	QuotaAnnual decimal.Decimal `json:"quota_annual" mapstructure:"quota_annual"`
	BaseSalary  decimal.Decimal `json:"base_salary" mapstructure:"base_salary"`
}

// FullName joins the rep's first and last name
func (r SalesRep) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}

// Lead is one row of the Leads sheet
type Lead struct {
	LeadID         string          `json:"lead_id" mapstructure:"lead_id"`
	Source         string          `json:"source" mapstructure:"source"`
	CreatedDate    time.Time       `json:"created_date" mapstructure:"created_date"`
	Status         string          `json:"status" mapstructure:"status"`
	EstimatedValue decimal.Decimal `json:"estimated_value" mapstructure:"estimated_value"`
}

// Converted reports whether the lead became an opportunity
func (l Lead) Converted() bool {
	return l.Status == "Converted"
}

// Opportunity is one row of the Opportunities sheet
type Opportunity struct {
	OpportunityID string          `json:"opportunity_id" mapstructure:"opportunity_id"`
	LeadID        string          `json:"lead_id" mapstructure:"lead_id"`
	CustomerID    string          `json:"customer_id" mapstructure:"customer_id"`
	Stage         string          `json:"stage" mapstructure:"stage"`
	Amount        decimal.Decimal `json:"amount" mapstructure:"amount"`
	CreatedDate   time.Time       `json:"created_date" mapstructure:"created_date"`
	CloseDate     time.Time       `json:"close_date" mapstructure:"close_date"`
	Probability   float64         `json:"probability" mapstructure:"probability"`
}

// Won reports whether the deal closed successfully
func (o Opportunity) Won() bool {
	return o.Stage == "Closed Won"
}

// Lost reports whether the deal closed unsuccessfully
func (o Opportunity) Lost() bool {
	return o.Stage == "Closed Lost"
}

// Open reports whether the deal is still in flight
func (o Opportunity) Open() bool {
	return !o.Won() && !o.Lost()
}

// CycleDays returns the days between creation and close, or 0 when either
// date is missing
func (o Opportunity) CycleDays() float64 {
	if o.CreatedDate.IsZero() || o.CloseDate.IsZero() {
		return 0
	}
	return o.CloseDate.Sub(o.CreatedDate).Hours() / 24
}

// Activity is one row of the Activities sheet
type Activity struct {
	ActivityID      string    `json:"activity_id" mapstructure:"activity_id"`
	SalesRepID      string    `json:"sales_rep_id" mapstructure:"sales_rep_id"`
	Type            string    `json:"type" mapstructure:"type"`
	OccurredAt      time.Time `json:"occurred_at" mapstructure:"occurred_at"`
	DurationMinutes int       `json:"duration_minutes" mapstructure:"duration_minutes"`
	Outcome         string    `json:"outcome" mapstructure:"outcome"`
}

// Successful reports whether the activity reached its goal
func (a Activity) Successful() bool {
	return a.Outcome == "Successful"
}

// Target is one row of the Targets sheet
type Target struct {
	TargetID      string          `json:"target_id" mapstructure:"target_id"`
	SalesRepID    string          `json:"sales_rep_id" mapstructure:"sales_rep_id"`
	Period        string          `json:"period" mapstructure:"period"`
	RevenueTarget decimal.Decimal `json:"revenue_target" mapstructure:"revenue_target"`
	DealsTarget   int             `json:"deals_target" mapstructure:"deals_target"`
}
