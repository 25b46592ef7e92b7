package workspace

import (
	"time"

	"github.com/kpihub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeWorkspace = "Workspace"

// Event type constants
const (
	EventTypeWorkspaceCreated = "WorkspaceCreated"
	EventTypeDatasetImported  = "DatasetImported"
	EventTypeSampleLoaded     = "SampleLoaded"
	EventTypeRowAppended      = "RowAppended"
	EventTypeTableCleared     = "TableCleared"
	EventTypeTablesReset      = "TablesReset"
	EventTypeWorkspaceDeleted = "WorkspaceDeleted"
)

// CreatedEvent is raised when a workspace session starts
type CreatedEvent struct {
	shared.BaseDomainEvent
	Domain     string `json:"domain"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// NewCreatedEvent creates a new CreatedEvent
func NewCreatedEvent(ws *Workspace, ttl time.Duration) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkspaceCreated, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		TTLSeconds:      int64(ttl.Seconds()),
	}
}

// EventType returns the event type name
func (e *CreatedEvent) EventType() string {
	return EventTypeWorkspaceCreated
}

// DatasetImportedEvent is raised when an uploaded workbook replaces the
// workspace tables
type DatasetImportedEvent struct {
	shared.BaseDomainEvent
	Domain    string `json:"domain"`
	FileName  string `json:"file_name"`
	ValidRows int    `json:"valid_rows"`
	ErrorRows int    `json:"error_rows"`
	Version   int    `json:"version"`
}

// NewDatasetImportedEvent creates a new DatasetImportedEvent
func NewDatasetImportedEvent(ws *Workspace, fileName string, validRows, errorRows int) *DatasetImportedEvent {
	return &DatasetImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDatasetImported, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		FileName:        fileName,
		ValidRows:       validRows,
		ErrorRows:       errorRows,
		Version:         ws.Version,
	}
}

// EventType returns the event type name
func (e *DatasetImportedEvent) EventType() string {
	return EventTypeDatasetImported
}

// SampleLoadedEvent is raised when generated sample data replaces the
// workspace tables
type SampleLoadedEvent struct {
	shared.BaseDomainEvent
	Domain  string `json:"domain"`
	Seed    int64  `json:"seed"`
	Rows    int    `json:"rows"`
	Version int    `json:"version"`
}

// NewSampleLoadedEvent creates a new SampleLoadedEvent
func NewSampleLoadedEvent(ws *Workspace, seed int64) *SampleLoadedEvent {
	return &SampleLoadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSampleLoaded, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		Seed:            seed,
		Rows:            ws.Dataset.TotalRows(),
		Version:         ws.Version,
	}
}

// EventType returns the event type name
func (e *SampleLoadedEvent) EventType() string {
	return EventTypeSampleLoaded
}

// RowAppendedEvent is raised when a record is manually added to a table
type RowAppendedEvent struct {
	shared.BaseDomainEvent
	Domain  string `json:"domain"`
	Table   string `json:"table"`
	Version int    `json:"version"`
}

// NewRowAppendedEvent creates a new RowAppendedEvent
func NewRowAppendedEvent(ws *Workspace, table string) *RowAppendedEvent {
	return &RowAppendedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRowAppended, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		Table:           table,
		Version:         ws.Version,
	}
}

// EventType returns the event type name
func (e *RowAppendedEvent) EventType() string {
	return EventTypeRowAppended
}

// TableClearedEvent is raised when one table is emptied
type TableClearedEvent struct {
	shared.BaseDomainEvent
	Domain  string `json:"domain"`
	Table   string `json:"table"`
	Version int    `json:"version"`
}

// NewTableClearedEvent creates a new TableClearedEvent
func NewTableClearedEvent(ws *Workspace, table string) *TableClearedEvent {
	return &TableClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTableCleared, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		Table:           table,
		Version:         ws.Version,
	}
}

// EventType returns the event type name
func (e *TableClearedEvent) EventType() string {
	return EventTypeTableCleared
}

// TablesResetEvent is raised when every table is emptied at once
type TablesResetEvent struct {
	shared.BaseDomainEvent
	Domain  string `json:"domain"`
	Version int    `json:"version"`
}

// NewTablesResetEvent creates a new TablesResetEvent
func NewTablesResetEvent(ws *Workspace) *TablesResetEvent {
	return &TablesResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTablesReset, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
		Version:         ws.Version,
	}
}

// EventType returns the event type name
func (e *TablesResetEvent) EventType() string {
	return EventTypeTablesReset
}

// DeletedEvent is raised when a workspace is discarded, either explicitly
// or by the expiry janitor
type DeletedEvent struct {
	shared.BaseDomainEvent
	Domain string `json:"domain"`
}

// NewDeletedEvent creates a new DeletedEvent
func NewDeletedEvent(ws *Workspace) *DeletedEvent {
	return &DeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkspaceDeleted, AggregateTypeWorkspace, ws.ID, ws.ID),
		Domain:          ws.Domain,
	}
}

// EventType returns the event type name
func (e *DeletedEvent) EventType() string {
	return EventTypeWorkspaceDeleted
}
