package sales

import (
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// Dataset holds the in-memory tables of one sales workspace
type Dataset struct {
	Customers     []Customer    `json:"customers"`
	Products      []Product     `json:"products"`
	SalesOrders   []SalesOrder  `json:"sales_orders"`
	SalesReps     []SalesRep    `json:"sales_reps"`
	Leads         []Lead        `json:"leads"`
	Opportunities []Opportunity `json:"opportunities"`
	Activities    []Activity    `json:"activities"`
	Targets       []Target      `json:"targets"`
}

// NewDataset returns an empty sales dataset
func NewDataset() *Dataset {
	return &Dataset{}
}

// FromRecords decodes raw workbook rows into a dataset. Sheet presence is
// validated by the caller against Schema; unknown sheets are ignored.
func FromRecords(sheets map[string][]map[string]any) (*Dataset, error) {
	d := NewDataset()
	var err error
	if d.Customers, err = dataset.DecodeTable[Customer](TableCustomers, sheets[TableCustomers]); err != nil {
		return nil, err
	}
	if d.Products, err = dataset.DecodeTable[Product](TableProducts, sheets[TableProducts]); err != nil {
		return nil, err
	}
	if d.SalesOrders, err = dataset.DecodeTable[SalesOrder](TableSalesOrders, sheets[TableSalesOrders]); err != nil {
		return nil, err
	}
	if d.SalesReps, err = dataset.DecodeTable[SalesRep](TableSalesReps, sheets[TableSalesReps]); err != nil {
		return nil, err
	}
	if d.Leads, err = dataset.DecodeTable[Lead](TableLeads, sheets[TableLeads]); err != nil {
		return nil, err
	}
	if d.Opportunities, err = dataset.DecodeTable[Opportunity](TableOpportunities, sheets[TableOpportunities]); err != nil {
		return nil, err
	}
	if d.Activities, err = dataset.DecodeTable[Activity](TableActivities, sheets[TableActivities]); err != nil {
		return nil, err
	}
	if d.Targets, err = dataset.DecodeTable[Target](TableTargets, sheets[TableTargets]); err != nil {
		return nil, err
	}
	return d, nil
}

// Department returns the owning department key
func (d *Dataset) Department() string { return Domain }

// Schema returns the workbook layout of the sales module
func (d *Dataset) Schema() dataset.Schema { return Schema() }

// TableNames returns the table names in canonical order
func (d *Dataset) TableNames() []string {
	return Schema().SheetNames()
}

// View renders the named table
func (d *Dataset) View(table string) (dataset.View, error) {
	switch table {
	case TableCustomers:
		view := dataset.View{Name: table, Columns: customerColumns}
		for _, c := range d.Customers {
			view.Rows = append(view.Rows, []any{
				c.CustomerID, c.CustomerName, c.Company, c.Industry, c.Region, c.Country,
				c.CustomerSegment, dataset.FormatDate(c.AcquisitionDate), c.Status,
			})
		}
		return view, nil
	case TableProducts:
		view := dataset.View{Name: table, Columns: productColumns}
		for _, p := range d.Products {
			view.Rows = append(view.Rows, []any{
				p.ProductID, p.ProductName, p.Category, p.Subcategory,
				p.UnitPrice.InexactFloat64(), p.CostPrice.InexactFloat64(),
				dataset.FormatDate(p.LaunchDate), p.Status,
			})
		}
		return view, nil
	case TableSalesOrders:
		view := dataset.View{Name: table, Columns: orderColumns}
		for _, o := range d.SalesOrders {
			view.Rows = append(view.Rows, []any{
				o.OrderID, o.CustomerID, dataset.FormatDate(o.OrderDate), o.ProductID,
				o.Quantity, o.UnitPrice.InexactFloat64(), o.TotalAmount.InexactFloat64(),
				o.SalesRepID, o.Region, o.Channel,
			})
		}
		return view, nil
	case TableSalesReps:
		view := dataset.View{Name: table, Columns: repColumns}
		for _, r := range d.SalesReps {
			view.Rows = append(view.Rows, []any{
				r.SalesRepID, r.FirstName, r.LastName, r.Region, r.Team,
				dataset.FormatDate(r.HireDate), r.QuotaAnnual.InexactFloat64(), r.BaseSalary.InexactFloat64(),
			})
		}
		return view, nil
	case TableLeads:
		view := dataset.View{Name: table, Columns: leadColumns}
		for _, l := range d.Leads {
			view.Rows = append(view.Rows, []any{
				l.LeadID, l.Source, dataset.FormatDate(l.CreatedDate), l.Status, l.EstimatedValue.InexactFloat64(),
			})
		}
		return view, nil
	case TableOpportunities:
		view := dataset.View{Name: table, Columns: opportunityColumns}
		for _, o := range d.Opportunities {
			view.Rows = append(view.Rows, []any{
				o.OpportunityID, o.LeadID, o.CustomerID, o.Stage, o.Amount.InexactFloat64(),
				dataset.FormatDate(o.CreatedDate), dataset.FormatDate(o.CloseDate), o.Probability,
			})
		}
		return view, nil
	case TableActivities:
		view := dataset.View{Name: table, Columns: activityColumns}
		for _, a := range d.Activities {
			view.Rows = append(view.Rows, []any{
				a.ActivityID, a.SalesRepID, a.Type, dataset.FormatDateTime(a.OccurredAt), a.DurationMinutes, a.Outcome,
			})
		}
		return view, nil
	case TableTargets:
		view := dataset.View{Name: table, Columns: targetColumns}
		for _, t := range d.Targets {
			view.Rows = append(view.Rows, []any{
				t.TargetID, t.SalesRepID, t.Period, t.RevenueTarget.InexactFloat64(), t.DealsTarget,
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
	case TableCustomers:
		var row Customer
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Customers = append(d.Customers, row)
	case TableProducts:
		var row Product
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Products = append(d.Products, row)
	case TableSalesOrders:
		var row SalesOrder
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.SalesOrders = append(d.SalesOrders, row)
	case TableSalesReps:
		var row SalesRep
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.SalesReps = append(d.SalesReps, row)
	case TableLeads:
		var row Lead
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Leads = append(d.Leads, row)
	case TableOpportunities:
		var row Opportunity
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Opportunities = append(d.Opportunities, row)
	case TableActivities:
		var row Activity
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Activities = append(d.Activities, row)
	case TableTargets:
		var row Target
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Targets = append(d.Targets, row)
	default:
		return dataset.ErrUnknownTable(table)
	}
	return nil
}

// Clear empties the named table
func (d *Dataset) Clear(table string) error {
	switch table {
	case TableCustomers:
		d.Customers = nil
	case TableProducts:
		d.Products = nil
	case TableSalesOrders:
		d.SalesOrders = nil
	case TableSalesReps:
		d.SalesReps = nil
	case TableLeads:
		d.Leads = nil
	case TableOpportunities:
		d.Opportunities = nil
	case TableActivities:
		d.Activities = nil
	case TableTargets:
		d.Targets = nil
	default:
		return dataset.ErrUnknownTable(table)
	}
	return nil
}

// Reset empties every table
func (d *Dataset) Reset() {
	*d = Dataset{}
}

// Between returns a copy restricted to orders, leads, opportunities and
// activities dated within [start, end]. The end bound covers its whole day,
// so rows timestamped on the end date are kept. Reference tables are kept
// whole.
func (d *Dataset) Between(start, end time.Time) dataset.Tabular {
	if start.IsZero() && end.IsZero() {
		return d
	}
	end = dataset.EndOfDay(end)
	out := &Dataset{
		Customers: d.Customers,
		Products:  d.Products,
		SalesReps: d.SalesReps,
		Targets:   d.Targets,
	}
	for _, o := range d.SalesOrders {
		if dataset.InRange(o.OrderDate, start, end) {
			out.SalesOrders = append(out.SalesOrders, o)
		}
	}
	for _, l := range d.Leads {
		if dataset.InRange(l.CreatedDate, start, end) {
			out.Leads = append(out.Leads, l)
		}
	}
	for _, o := range d.Opportunities {
		if dataset.InRange(o.CreatedDate, start, end) {
			out.Opportunities = append(out.Opportunities, o)
		}
	}
	for _, a := range d.Activities {
		if dataset.InRange(a.OccurredAt, start, end) {
			out.Activities = append(out.Activities, a)
		}
	}
	return out
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() dataset.Tabular {
	return &Dataset{
		Customers:     append([]Customer(nil), d.Customers...),
		Products:      append([]Product(nil), d.Products...),
		SalesOrders:   append([]SalesOrder(nil), d.SalesOrders...),
		SalesReps:     append([]SalesRep(nil), d.SalesReps...),
		Leads:         append([]Lead(nil), d.Leads...),
		Opportunities: append([]Opportunity(nil), d.Opportunities...),
		Activities:    append([]Activity(nil), d.Activities...),
		Targets:       append([]Target(nil), d.Targets...),
	}
}

// TotalRows returns the row count across all tables
func (d *Dataset) TotalRows() int {
	return len(d.Customers) + len(d.Products) + len(d.SalesOrders) + len(d.SalesReps) +
		len(d.Leads) + len(d.Opportunities) + len(d.Activities) + len(d.Targets)
}

// Empty reports whether no table has any rows
func (d *Dataset) Empty() bool {
	return d.TotalRows() == 0
}

var _ dataset.Tabular = (*Dataset)(nil)
