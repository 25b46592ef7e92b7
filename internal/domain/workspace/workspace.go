package workspace

import (
	"fmt"
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/shared"
)

// Source describes how the current dataset got into the workspace.
const (
	SourceNone   = ""
	SourceUpload = "upload"
	SourceSample = "sample"
)

// Workspace is the aggregate root for one analytics session: a department
// domain plus the dataset loaded for it. The aggregate version is bumped on
// every dataset mutation and doubles as the cache key component for metric
// results, so reads that only extend the expiry must not touch it.
type Workspace struct {
	shared.BaseAggregateRoot
	Domain    string          `json:"domain"`
	Source    string          `json:"source"`
	ExpiresAt time.Time       `json:"expires_at"`
	Dataset   dataset.Tabular `json:"-"`
}

// New creates a workspace for the given domain with an empty dataset.
// The dataset's tables are filled later by upload, sample load or manual
// entry; ttl controls the initial expiry.
func New(domain string, ds dataset.Tabular, ttl time.Duration) (*Workspace, error) {
	if domain == "" {
		return nil, shared.NewDomainError("INVALID_DOMAIN", "Domain cannot be empty")
	}
	if ds == nil {
		return nil, shared.NewDomainError("INVALID_DATASET", "Dataset cannot be nil")
	}
	if ds.Department() != domain {
		return nil, shared.NewDomainError("INVALID_DATASET", fmt.Sprintf("Dataset belongs to domain %s, not %s", ds.Department(), domain))
	}
	if ttl <= 0 {
		return nil, shared.NewDomainError("INVALID_TTL", "Workspace TTL must be positive")
	}

	ws := &Workspace{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Domain:            domain,
		Source:            SourceNone,
		ExpiresAt:         time.Now().Add(ttl),
		Dataset:           ds,
	}
	ws.AddDomainEvent(NewCreatedEvent(ws, ttl))

	return ws, nil
}

// ImportDataset replaces the workspace tables wholesale with a dataset
// decoded from an uploaded workbook
func (w *Workspace) ImportDataset(ds dataset.Tabular, fileName string, validRows, errorRows int) error {
	if err := w.ensureSameDomain(ds); err != nil {
		return err
	}

	w.Dataset = ds
	w.Source = SourceUpload
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewDatasetImportedEvent(w, fileName, validRows, errorRows))

	return nil
}

// LoadSample replaces the workspace tables wholesale with a generated
// sample dataset
func (w *Workspace) LoadSample(ds dataset.Tabular, seed int64) error {
	if err := w.ensureSameDomain(ds); err != nil {
		return err
	}

	w.Dataset = ds
	w.Source = SourceSample
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewSampleLoadedEvent(w, seed))

	return nil
}

// AppendRow adds one manually entered record to the named table
func (w *Workspace) AppendRow(table string, record map[string]any) error {
	if err := w.Dataset.Append(table, record); err != nil {
		return err
	}

	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewRowAppendedEvent(w, table))

	return nil
}

// ClearTable empties the named table, keeping the rest of the dataset
func (w *Workspace) ClearTable(table string) error {
	if err := w.Dataset.Clear(table); err != nil {
		return err
	}

	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewTableClearedEvent(w, table))

	return nil
}

// ResetTables empties every table in the dataset
func (w *Workspace) ResetTables() {
	w.Dataset.Reset()
	w.Source = SourceNone
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	w.AddDomainEvent(NewTablesResetEvent(w))
}

// MarkDeleted records the deletion event before the workspace is removed
// from its store
func (w *Workspace) MarkDeleted() {
	w.AddDomainEvent(NewDeletedEvent(w))
}

// Touch extends the expiry window from now. It deliberately does not bump
// the version: cached metric results stay valid across reads.
func (w *Workspace) Touch(ttl time.Duration) {
	w.ExpiresAt = time.Now().Add(ttl)
	w.UpdatedAt = time.Now()
}

// Expired reports whether the workspace has passed its expiry at the given
// instant
func (w *Workspace) Expired(now time.Time) bool {
	return now.After(w.ExpiresAt)
}

// Clone returns a deep copy with no pending events. Stores hand clones to
// requests so concurrent requests never share a mutable dataset.
func (w *Workspace) Clone() *Workspace {
	cp := *w
	cp.ClearDomainEvents()
	if w.Dataset != nil {
		cp.Dataset = w.Dataset.Clone()
	}
	return &cp
}

// HasData reports whether any table currently holds rows
func (w *Workspace) HasData() bool {
	return w.Dataset != nil && !w.Dataset.Empty()
}

func (w *Workspace) ensureSameDomain(ds dataset.Tabular) error {
	if ds == nil {
		return shared.NewDomainError("INVALID_DATASET", "Dataset cannot be nil")
	}
	if ds.Department() != w.Domain {
		return shared.NewDomainError("INVALID_DATASET", fmt.Sprintf("Dataset belongs to domain %s, not %s", ds.Department(), w.Domain))
	}
	return nil
}
