package sales

import "github.com/kpihub/backend/internal/domain/dataset"

// Domain is the department key of this analytics module
const Domain = "sales"

// Required sheet names
const (
	TableCustomers     = "Customers"
	TableProducts      = "Products"
	TableSalesOrders   = "Sales_Orders"
	TableSalesReps     = "Sales_Reps"
	TableLeads         = "Leads"
	TableOpportunities = "Opportunities"
	TableActivities    = "Activities"
	TableTargets       = "Targets"
)

var (
	customerColumns    = []string{"customer_id", "customer_name", "company", "industry", "region", "country", "customer_segment", "acquisition_date", "status"}
	productColumns     = []string{"product_id", "product_name", "category", "subcategory", "unit_price", "cost_price", "launch_date", "status"}
	orderColumns       = []string{"order_id", "customer_id", "order_date", "product_id", "quantity", "unit_price", "total_amount", "sales_rep_id", "region", "channel"}
	repColumns         = []string{"sales_rep_id", "first_name", "last_name", "region", "team", "hire_date", "quota_annual", "base_salary"}
	leadColumns        = []string{"lead_id", "source", "created_date", "status", "estimated_value"}
	opportunityColumns = []string{"opportunity_id", "lead_id", "customer_id", "stage", "amount", "created_date", "close_date", "probability"}
	activityColumns    = []string{"activity_id", "sales_rep_id", "type", "occurred_at", "duration_minutes", "outcome"}
	targetColumns      = []string{"target_id", "sales_rep_id", "period", "revenue_target", "deals_target"}
)

// Schema returns the workbook layout the sales module accepts
func Schema() dataset.Schema {
	return dataset.Schema{Sheets: []dataset.Sheet{
		{Name: TableCustomers, Columns: customerColumns},
		{Name: TableProducts, Columns: productColumns},
		{Name: TableSalesOrders, Columns: orderColumns},
		{Name: TableSalesReps, Columns: repColumns},
		{Name: TableLeads, Columns: leadColumns},
		{Name: TableOpportunities, Columns: opportunityColumns},
		{Name: TableActivities, Columns: activityColumns},
		{Name: TableTargets, Columns: targetColumns},
	}}
}
