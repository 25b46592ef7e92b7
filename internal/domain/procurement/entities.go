package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is one row of the Suppliers sheet
type Supplier struct {
	SupplierID       string  `json:"supplier_id" mapstructure:"supplier_id"`
	SupplierName     string  `json:"supplier_name" mapstructure:"supplier_name"`
	Country          string  `json:"country" mapstructure:"country"`
	City             string  `json:"city" mapstructure:"city"`
	ESGScore         float64 `json:"esg_score" mapstructure:"esg_score"`
	Preferred        bool    `json:"preferred" mapstructure:"preferred"`
	PaymentTermsDays int     `json:"payment_terms_days" mapstructure:"payment_terms_days"`
}

// Item is one row of the Items sheet
type Item struct {
	ItemID        string          `json:"item_id" mapstructure:"item_id"`
	ItemName      string          `json:"item_name" mapstructure:"item_name"`
	Category      string          `json:"category" mapstructure:"category"`
	UnitOfMeasure string          `json:"unit_of_measure" mapstructure:"unit_of_measure"`
	StandardCost  decimal.Decimal `json:"standard_cost" mapstructure:"standard_cost"`
}

// PurchaseOrder is one row of the Purchase_Orders sheet
type PurchaseOrder struct {
	POID       string          `json:"po_id" mapstructure:"po_id"`
	SupplierID string          `json:"supplier_id" mapstructure:"supplier_id"`
	ItemID     string          `json:"item_id" mapstructure:"item_id"`
	OrderDate  time.Time       `json:"order_date" mapstructure:"order_date"`
	Quantity   int             `json:"quantity" mapstructure:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price" mapstructure:"unit_price"`
	Department string          `json:"department" mapstructure:"department"`
	BudgetCode string          `json:"budget_code" mapstructure:"budget_code"`
	Status     string          `json:"status" mapstructure:"status"`
}

// Spend returns the monetary value of the order
func (po PurchaseOrder) Spend() decimal.Decimal {
	return po.UnitPrice.Mul(decimal.NewFromInt(int64(po.Quantity)))
}

// Contract is one row of the Contracts sheet
type Contract struct {
	ContractID       string          `json:"contract_id" mapstructure:"contract_id"`
	SupplierID       string          `json:"supplier_id" mapstructure:"supplier_id"`
	StartDate        time.Time       `json:"start_date" mapstructure:"start_date"`
	EndDate          time.Time       `json:"end_date" mapstructure:"end_date"`
	ContractValue    decimal.Decimal `json:"contract_value" mapstructure:"contract_value"`
	ComplianceStatus string          `json:"compliance_status" mapstructure:"compliance_status"`
	AutoRenewal      bool            `json:"auto_renewal" mapstructure:"auto_renewal"`
}

// ActiveOn reports whether the contract covers the given date
func (c Contract) ActiveOn(day time.Time) bool {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return false
	}
	return !day.Before(c.StartDate) && !day.After(c.EndDate)
}

// Delivery is one row of the Deliveries sheet. DeliveryDate is the promised
// date; ActualDate is resolved from the first populated actual-date column.
type Delivery struct {
	DeliveryID       string    `json:"delivery_id" mapstructure:"delivery_id"`
	POID             string    `json:"po_id" mapstructure:"po_id"`
	DeliveryDate     time.Time `json:"delivery_date" mapstructure:"delivery_date"`
	ActualDate       time.Time `json:"delivery_date_actual" mapstructure:"delivery_date_actual"`
	DefectFlag       bool      `json:"defect_flag" mapstructure:"defect_flag"`
	QuantityReceived int       `json:"quantity_received" mapstructure:"quantity_received"`
}

// OnTime reports whether the delivery arrived on or before the promised date
func (d Delivery) OnTime() bool {
	if d.ActualDate.IsZero() || d.DeliveryDate.IsZero() {
		return false
	}
	return !d.ActualDate.After(d.DeliveryDate)
}

// Invoice is one row of the Invoices sheet
type Invoice struct {
	InvoiceID        string          `json:"invoice_id" mapstructure:"invoice_id"`
	POID             string          `json:"po_id" mapstructure:"po_id"`
	InvoiceDate      time.Time       `json:"invoice_date" mapstructure:"invoice_date"`
	Amount           decimal.Decimal `json:"amount" mapstructure:"amount"`
	PaidDate         time.Time       `json:"paid_date" mapstructure:"paid_date"`
	DiscountCaptured bool            `json:"discount_captured" mapstructure:"discount_captured"`
}

// Budget is one row of the Budgets sheet
type Budget struct {
	BudgetCode string          `json:"budget_code" mapstructure:"budget_code"`
	Department string          `json:"department" mapstructure:"department"`
	FiscalYear int             `json:"fiscal_year" mapstructure:"fiscal_year"`
	Amount     decimal.Decimal `json:"amount" mapstructure:"amount"`
}

// RFQ is one row of the RFQs sheet
type RFQ struct {
	RFQID             string          `json:"rfq_id" mapstructure:"rfq_id"`
	ItemID            string          `json:"item_id" mapstructure:"item_id"`
	IssueDate         time.Time       `json:"issue_date" mapstructure:"issue_date"`
	ResponsesReceived int             `json:"responses_received" mapstructure:"responses_received"`
	EstimatedSavings  decimal.Decimal `json:"estimated_savings" mapstructure:"estimated_savings"`
	ActualSavings     decimal.Decimal `json:"actual_savings" mapstructure:"actual_savings"`
	Status            string          `json:"status" mapstructure:"status"`
}
