package procurement

import "github.com/kpihub/backend/internal/domain/dataset"

// Domain is the department key of this analytics module
const Domain = "procurement"

// Required sheet names
const (
	TableSuppliers      = "Suppliers"
	TableItems          = "Items"
	TablePurchaseOrders = "Purchase_Orders"
	TableContracts      = "Contracts"
	TableDeliveries     = "Deliveries"
	TableInvoices       = "Invoices"
	TableBudgets        = "Budgets"
	TableRFQs           = "RFQs"
)

var (
	supplierColumns = []string{"supplier_id", "supplier_name", "country", "city", "esg_score", "preferred", "payment_terms_days"}
	itemColumns     = []string{"item_id", "item_name", "category", "unit_of_measure", "standard_cost"}
	orderColumns    = []string{"po_id", "supplier_id", "item_id", "order_date", "quantity", "unit_price", "department", "budget_code", "status"}
	contractColumns = []string{"contract_id", "supplier_id", "start_date", "end_date", "contract_value", "compliance_status", "auto_renewal"}
	deliveryColumns = []string{"delivery_id", "po_id", "delivery_date", "delivery_date_actual", "defect_flag", "quantity_received"}
	invoiceColumns  = []string{"invoice_id", "po_id", "invoice_date", "amount", "paid_date", "discount_captured"}
	budgetColumns   = []string{"budget_code", "department", "fiscal_year", "amount"}
	rfqColumns      = []string{"rfq_id", "item_id", "issue_date", "responses_received", "estimated_savings", "actual_savings", "status"}
)

// Schema returns the workbook layout the procurement module accepts
func Schema() dataset.Schema {
	return dataset.Schema{Sheets: []dataset.Sheet{
		{Name: TableSuppliers, Columns: supplierColumns},
		{Name: TableItems, Columns: itemColumns},
		{Name: TablePurchaseOrders, Columns: orderColumns},
		{Name: TableContracts, Columns: contractColumns},
		{Name: TableDeliveries, Columns: deliveryColumns},
		{Name: TableInvoices, Columns: invoiceColumns},
		{Name: TableBudgets, Columns: budgetColumns},
		{Name: TableRFQs, Columns: rfqColumns},
	}}
}
