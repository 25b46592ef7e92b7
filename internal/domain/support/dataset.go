package support

import (
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
)

// Dataset holds the in-memory tables of one customer service workspace
type Dataset struct {
	Customers    []Customer    `json:"customers"`
	Tickets      []Ticket      `json:"tickets"`
	Agents       []Agent       `json:"agents"`
	Interactions []Interaction `json:"interactions"`
	Feedback     []Feedback    `json:"feedback"`
	SLAs         []SLATarget   `json:"slas"`
	Articles     []Article     `json:"articles"`
	Trainings    []Training    `json:"trainings"`
}

// NewDataset returns an empty customer service dataset
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
	if d.Tickets, err = dataset.DecodeTable[Ticket](TableTickets, sheets[TableTickets]); err != nil {
		return nil, err
	}
	if d.Agents, err = dataset.DecodeTable[Agent](TableAgents, sheets[TableAgents]); err != nil {
		return nil, err
	}
	if d.Interactions, err = dataset.DecodeTable[Interaction](TableInteractions, sheets[TableInteractions]); err != nil {
		return nil, err
	}
	if d.Feedback, err = dataset.DecodeTable[Feedback](TableFeedback, sheets[TableFeedback]); err != nil {
		return nil, err
	}
	if d.SLAs, err = dataset.DecodeTable[SLATarget](TableSLA, sheets[TableSLA]); err != nil {
		return nil, err
	}
	if d.Articles, err = dataset.DecodeTable[Article](TableKnowledgeBase, sheets[TableKnowledgeBase]); err != nil {
		return nil, err
	}
	if d.Trainings, err = dataset.DecodeTable[Training](TableTraining, sheets[TableTraining]); err != nil {
		return nil, err
	}
	return d, nil
}

// Department returns the owning department key
func (d *Dataset) Department() string { return Domain }

// Schema returns the workbook layout of the customer service module
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
				c.CustomerID, c.Name, c.Email, c.Segment, c.Region,
				dataset.FormatDate(c.SignupDate), c.Status, c.MonthlySpend.InexactFloat64(), c.ReferralCount,
			})
		}
		return view, nil
	case TableTickets:
		view := dataset.View{Name: table, Columns: ticketColumns}
		for _, t := range d.Tickets {
			view.Rows = append(view.Rows, []any{
				t.TicketID, t.CustomerID, t.AgentID, t.Channel, t.Category, t.Priority, t.Status,
				dataset.FormatDateTime(t.CreatedAt), t.FirstResponseMinutes, t.ResolutionMinutes,
				t.Escalated, t.Reopened, t.ResolutionCost.InexactFloat64(), t.Abandoned, t.QueueWaitMinutes,
			})
		}
		return view, nil
	case TableAgents:
		view := dataset.View{Name: table, Columns: agentColumns}
		for _, a := range d.Agents {
			view.Rows = append(view.Rows, []any{
				a.AgentID, a.Name, a.Team, dataset.FormatDate(a.HireDate), dataset.FormatDate(a.TerminationDate),
				a.SalaryMonthly.InexactFloat64(), a.ActiveHoursPerDay, a.QualityScore,
			})
		}
		return view, nil
	case TableInteractions:
		view := dataset.View{Name: table, Columns: interactionColumns}
		for _, in := range d.Interactions {
			view.Rows = append(view.Rows, []any{
				in.InteractionID, in.TicketID, in.CustomerID, in.AgentID, in.Channel,
				dataset.FormatDateTime(in.OccurredAt), in.DurationMinutes, in.Sentiment, in.ContactReason,
				in.Device, in.IsProactive, in.IsChatbot, in.CrossSellSuccess,
				in.RevenueRecovered.InexactFloat64(), in.RefundAmount.InexactFloat64(),
			})
		}
		return view, nil
	case TableFeedback:
		view := dataset.View{Name: table, Columns: feedbackColumns}
		for _, f := range d.Feedback {
			view.Rows = append(view.Rows, []any{
				f.FeedbackID, f.TicketID, f.CustomerID, f.Score, f.NPSScore, f.EffortScore,
				f.Sentiment, f.Channel, dataset.FormatDateTime(f.SubmittedAt), f.WouldRecommend,
			})
		}
		return view, nil
	case TableSLA:
		view := dataset.View{Name: table, Columns: slaColumns}
		for _, s := range d.SLAs {
			view.Rows = append(view.Rows, []any{s.SLAID, s.Priority, s.TargetFirstResponseMinutes, s.TargetResolutionMinutes})
		}
		return view, nil
	case TableKnowledgeBase:
		view := dataset.View{Name: table, Columns: articleColumns}
		for _, a := range d.Articles {
			view.Rows = append(view.Rows, []any{
				a.ArticleID, a.Title, a.Category, a.Views, a.HelpfulVotes, a.UnhelpfulVotes,
				dataset.FormatDate(a.CreatedAt), dataset.FormatDate(a.LastUpdated),
			})
		}
		return view, nil
	case TableTraining:
		view := dataset.View{Name: table, Columns: trainingColumns}
		for _, tr := range d.Trainings {
			view.Rows = append(view.Rows, []any{
				tr.TrainingID, tr.AgentID, tr.Course, dataset.FormatDate(tr.CompletedAt),
				tr.ScoreBefore, tr.ScoreAfter, tr.Hours,
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
	case TableTickets:
		var row Ticket
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Tickets = append(d.Tickets, row)
	case TableAgents:
		var row Agent
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Agents = append(d.Agents, row)
	case TableInteractions:
		var row Interaction
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Interactions = append(d.Interactions, row)
	case TableFeedback:
		var row Feedback
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Feedback = append(d.Feedback, row)
	case TableSLA:
		var row SLATarget
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.SLAs = append(d.SLAs, row)
	case TableKnowledgeBase:
		var row Article
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Articles = append(d.Articles, row)
	case TableTraining:
		var row Training
		if err := dataset.DecodeRecord(record, &row); err != nil {
			return dataset.ErrInvalidRecord(table, err)
		}
		d.Trainings = append(d.Trainings, row)
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
	case TableTickets:
		d.Tickets = nil
	case TableAgents:
		d.Agents = nil
	case TableInteractions:
		d.Interactions = nil
	case TableFeedback:
		d.Feedback = nil
	case TableSLA:
		d.SLAs = nil
	case TableKnowledgeBase:
		d.Articles = nil
	case TableTraining:
		d.Trainings = nil
	default:
		return dataset.ErrUnknownTable(table)
	}
	return nil
}

// Reset empties every table
func (d *Dataset) Reset() {
	*d = Dataset{}
}

// Between returns a copy restricted to tickets, interactions and feedback
// dated within [start, end]. The end bound covers its whole day, so rows
// timestamped on the end date are kept. Reference tables are kept whole.
func (d *Dataset) Between(start, end time.Time) dataset.Tabular {
	if start.IsZero() && end.IsZero() {
		return d
	}
	end = dataset.EndOfDay(end)
	out := &Dataset{
		Customers: d.Customers,
		Agents:    d.Agents,
		SLAs:      d.SLAs,
		Articles:  d.Articles,
		Trainings: d.Trainings,
	}
	for _, t := range d.Tickets {
		if dataset.InRange(t.CreatedAt, start, end) {
			out.Tickets = append(out.Tickets, t)
		}
	}
	for _, in := range d.Interactions {
		if dataset.InRange(in.OccurredAt, start, end) {
			out.Interactions = append(out.Interactions, in)
		}
	}
	for _, f := range d.Feedback {
		if dataset.InRange(f.SubmittedAt, start, end) {
			out.Feedback = append(out.Feedback, f)
		}
	}
	return out
}

// Clone returns a deep copy of the dataset
func (d *Dataset) Clone() dataset.Tabular {
	return &Dataset{
		Customers:    append([]Customer(nil), d.Customers...),
		Tickets:      append([]Ticket(nil), d.Tickets...),
		Agents:       append([]Agent(nil), d.Agents...),
		Interactions: append([]Interaction(nil), d.Interactions...),
		Feedback:     append([]Feedback(nil), d.Feedback...),
		SLAs:         append([]SLATarget(nil), d.SLAs...),
		Articles:     append([]Article(nil), d.Articles...),
		Trainings:    append([]Training(nil), d.Trainings...),
	}
}

// TotalRows returns the row count across all tables
func (d *Dataset) TotalRows() int {
	return len(d.Customers) + len(d.Tickets) + len(d.Agents) + len(d.Interactions) +
		len(d.Feedback) + len(d.SLAs) + len(d.Articles) + len(d.Trainings)
}

// Empty reports whether no table has any rows
func (d *Dataset) Empty() bool {
	return d.TotalRows() == 0
}

var _ dataset.Tabular = (*Dataset)(nil)
