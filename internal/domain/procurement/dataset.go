package procurement

import (
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// deliveryDateAliases are the actual-delivery column names accepted on
// upload, tried in order
var deliveryDateAliases = []string{"delivery_date_actual", "actual_delivery_date", "date_delivered"}

// Dataset holds the in-memory tables of one procurement workspace
type Dataset struct {
	Suppliers      []Supplier      `json:"suppliers"`
	Items          []Item          `json:"items"`
	PurchaseOrders []PurchaseOrder `json:"purchase_orders"`
	Contracts      []Contract      `json:"contracts"`
	Deliveries     []Delivery      `json:"deliveries"`
	Invoices       []Invoice       `json:"invoices"`
	Budgets        []Budget        `json:"budgets"`
	RFQs           []RFQ           `json:"rfqs"`
}

// NewDataset returns an empty procurement dataset
func NewDataset() *Dataset {
	return &Dataset{}
}

// FromRecords decodes raw workbook rows into a dataset. Sheet presence is
// validated by the caller against Schema; unknown sheets are ignored.
func FromRecords(sheets map[string][]map[string]any) (*Dataset, error) {
	d := NewDataset()
	var err error
	if d.Suppliers, err = dataset.DecodeTable[Supplier](TableSuppliers, sheets[TableSuppliers]); err != nil {
		return nil, err
	}
	if d.Items, err = dataset.DecodeTable[Item](TableItems, sheets[TableItems]); err != nil {
		return nil, err
	}
	if d.PurchaseOrders, err = dataset.DecodeTable[PurchaseOrder](TablePurchaseOrders, sheets[TablePurchaseOrders]); err != nil {
		return nil, err
	}
	if d.Contracts, err = dataset.DecodeTable[Contract](TableContracts, sheets[TableContracts]); err != nil {
		return nil, err
	}
	if d.Deliveries, err = dataset.DecodeTable[Delivery](TableDeliveries, sheets[TableDeliveries]); err != nil {
		return nil, err
	}
	if err = resolveDeliveryDates(d.Deliveries, sheets[TableDeliveries]); err != nil {
		return nil, err
	}
	if d.Invoices, err = dataset.DecodeTable[Invoice](TableInvoices, sheets[TableInvoices]); err != nil {
		return nil, err
	}
	if d.Budgets, err = dataset.DecodeTable[Budget](TableBudgets, sheets[TableBudgets]); err != nil {
		return nil, err
	}
	if d.RFQs, err = dataset.DecodeTable[RFQ](TableRFQs, sheets[TableRFQs]); err != nil {
		return nil, err
	}
	return d, nil
}

// resolveDeliveryDates fills ActualDate from alias columns when the primary
// actual-date column was absent
func resolveDeliveryDates(deliveries []Delivery, records []map[string]any) error {
	for i := range deliveries {
		if !deliveries[i].ActualDate.IsZero() || i >= len(records) {
			continue
		}
		for _, alias := range deliveryDateAliases[1:] {
			raw, ok := records[i][alias]
			if !ok {
				continue
			}
			parsed, err := dataset.ParseDate(raw)
			if err != nil {
				return err
			}
			if !parsed.IsZero() {
				deliveries[i].ActualDate = parsed
				break
			}
		}
	}
	return nil
}

// Department returns the owning department key
func (d *Dataset) Department() string { return Domain }

// Schema returns the workbook layout of the procurement module
func (d *Dataset) Schema() dataset.Schema { return Schema() }

// TableNames returns the table names in canonical order
func (d *Dataset) TableNames() []string {
	return Schema().SheetNames()
}

// View renders the named table
func (d *Dataset) View(table string) (dataset.View, error) {
	switch table {
	case TableSuppliers:
		view := dataset.View{Name: table, Columns: supplierColumns}
		for _, s := range d.Suppliers {
			view.Rows = append(view.Rows, []any{s.SupplierID, s.SupplierName, s.Country, s.City, s.ESGScore, s.Preferred, s.PaymentTermsDays})
		}
		return view, nil
	case TableItems:
		view := dataset.View{Name: table, Columns: itemColumns}
		for _, it := range d.Items {
			view.Rows = append(view.Rows, []any{it.ItemID, it.ItemName, it.Category, it.UnitOfMeasure, it.StandardCost.InexactFloat64()})
		}
		return view, nil
	case TablePurchaseOrders:
		view := dataset.View{Name: table, Columns: orderColumns}
		for _, po := range d.PurchaseOrders {
			view.Rows = append(view.Rows, []any{
				po.POID, po.SupplierID, po.ItemID, dataset.FormatDate(po.OrderDate),
				po.Quantity, po.UnitPrice.InexactFloat64(), po.Department, po.BudgetCode, po.Status,
			})
		}
		return view, nil
	case TableContracts:
		view := dataset.View{Name: table, Columns: contractColumns}
		for _, c := range d.Contracts {
			view.Rows = append(view.Rows, []any{
				c.ContractID, c.SupplierID, dataset.FormatDate(c.StartDate), dataset.FormatDate(c.EndDate),
				c.ContractValue.InexactFloat64(), c.ComplianceStatus, c.AutoRenewal,
			})
		}
		return view, nil
	case TableDeliveries:
		view := dataset.View{Name: table, Columns: deliveryColumns}
		for _, del := range d.Deliveries {
			view.Rows = append(view.Rows, []any{
				del.DeliveryID, del.POID, dataset.FormatDate(del.DeliveryDate), dataset.FormatDate(del.ActualDate),
				del.DefectFlag, del.QuantityReceived,
			})
		}
		return view, nil
	case TableInvoices:
		view := dataset.View{Name: table, Columns: invoiceColumns}
		for _, inv := range d.Invoices {
			view.Rows = append(view.Rows, []any{
				inv.InvoiceID, inv.POID, dataset.FormatDate(inv.InvoiceDate), inv.Amount.InexactFloat64(),
				dataset.FormatDate(inv.PaidDate), inv.DiscountCaptured,
			})
		}
		return view, nil
	case TableBudgets:
		view := dataset.View{Name: table, Columns: budgetColumns}
		for _, b := range d.Budgets {
			view.Rows = append(view.Rows, []any{b.BudgetCode, b.Department, b.FiscalYear, b.Amount.InexactFloat64()})
		}
		return view, nil
	case TableRFQs:
		view := dataset.View{Name: table, Columns: rfqColumns}
		for _, r := range d.RFQs {
			view.Rows = append(view.Rows, []any{
				r.RFQID, r.ItemID, dataset.FormatDate(r.IssueDate), r.ResponsesReceived,
				r.EstimatedSavings.InexactFloat64(), r.ActualSavings.InexactFloat64(), r.Status,
			})
		}
		return view, nil
	default:
		return dataset.View{}, dataset.ErrUnknownTable(table)
	}
}

// Append decodes one record into the named table
func (d *Dataset) Append(table string, record map[string]any) error {
	switch table {
	case TableSuppliers:
		var row Supplier
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.Suppliers = append(d.Suppliers, row)
	case TableItems:
		var row Item
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.Items = append(d.Items, row)
	case TablePurchaseOrders:
		var row PurchaseOrder
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.PurchaseOrders = append(d.PurchaseOrders, row)
	case TableContracts:
		var row Contract
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.Contracts = append(d.Contracts, row)
	case TableDeliveries:
		var row Delivery
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		rows := []Delivery{row}
		if err := resolveDeliveryDates(rows, []map[string]any{record}); err != nil {
			return invalidRecord(table, err)
		}
		d.Deliveries = append(d.Deliveries, rows[0])
	case TableInvoices:
		var row Invoice
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.Invoices = append(d.Invoices, row)
	case TableBudgets:
		var row Budget
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.Budgets = append(d.Budgets, row)
	case TableRFQs:
		var row RFQ
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return invalidRecord(table, err)
		}
		d.RFQs = append(d.RFQs, row)
	default:
		return dataset.ErrUnknownTable(table)
	}
	return nil
}

// Clear empties the named table
func (d *Dataset) Clear(table string) error {
	switch table {
	case TableSuppliers:
		d.Suppliers = nil
	case TableItems:
		d.Items = nil
	case TablePurchaseOrders:
		d.PurchaseOrders = nil
	case TableContracts:
		d.Contracts = nil
	case TableDeliveries:
		d.Deliveries = nil
	case TableInvoices:
		d.Invoices = nil
	case TableBudgets:
		d.Budgets = nil
	case TableRFQs:
		d.RFQs = nil
	default:
		return dataset.ErrUnknownTable(table)
	}
	return nil
}

// Reset empties every table
func (d *Dataset) Reset() {
	*d = Dataset{}
}

// Between returns a copy restricted to orders, deliveries, invoices and
// RFQs dated within [start, end]. The end bound covers its whole day, so
// rows timestamped on the end date are kept. Reference tables are kept
// whole.
func (d *Dataset) Between(start, end time.Time) dataset.Tabular {
	if start.IsZero() && end.IsZero() {
		return d
	}
	end = dataset.EndOfDay(end)
	out := &Dataset{
		Suppliers: d.Suppliers,
		Items:     d.Items,
		Contracts: d.Contracts,
		Budgets:   d.Budgets,
	}
	for _, po := range d.PurchaseOrders {
		if dataset.InRange(po.OrderDate, start, end) {
			out.PurchaseOrders = append(out.PurchaseOrders, po)
		}
	}
	for _, del := range d.Deliveries {
		if dataset.InRange(del.DeliveryDate, start, end) {
			out.Deliveries = append(out.Deliveries, del)
		}
	}
	for _, inv := range d.Invoices {
		if dataset.InRange(inv.InvoiceDate, start, end) {
			out.Invoices = append(out.Invoices, inv)
		}
	}
	for _, r := range d.RFQs {
		if dataset.InRange(r.IssueDate, start, end) {
			out.RFQs = append(out.RFQs, r)
		}
	}
	return out
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() dataset.Tabular {
	return &Dataset{
		Suppliers:      append([]Supplier(nil), d.Suppliers...),
		Items:          append([]Item(nil), d.Items...),
		PurchaseOrders: append([]PurchaseOrder(nil), d.PurchaseOrders...),
		Contracts:      append([]Contract(nil), d.Contracts...),
		Deliveries:     append([]Delivery(nil), d.Deliveries...),
		Invoices:       append([]Invoice(nil), d.Invoices...),
		Budgets:        append([]Budget(nil), d.Budgets...),
		RFQs:           append([]RFQ(nil), d.RFQs...),
	}
}

// TotalRows returns the row count across all tables
func (d *Dataset) TotalRows() int {
	return len(d.Suppliers) + len(d.Items) + len(d.PurchaseOrders) + len(d.Contracts) +
		len(d.Deliveries) + len(d.Invoices) + len(d.Budgets) + len(d.RFQs)
}

// Empty reports whether no table has any rows
func (d *Dataset) Empty() bool {
	return d.TotalRows() == 0
}

func invalidRecord(table string, err error) error {
	return dataset.ErrInvalidRecord(table, err)
}

var _ dataset.Tabular = (*Dataset)(nil)
