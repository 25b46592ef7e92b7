package workspace

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/department"
	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/workbook"
)

const (
	// DefaultTTL is the workspace lifetime when the client does not ask
	// for one
	DefaultTTL = 30 * time.Minute

	// MaxTTL caps client-requested lifetimes
	MaxTTL = 4 * time.Hour

	// DefaultSampleSeed feeds the sample generators when no seed is given,
	// so two demo workspaces show the same numbers
	DefaultSampleSeed = 42

	// DefaultImportErrorCap limits how many row errors an upload response
	// carries
	DefaultImportErrorCap = 100
)

// Service handles the workspace lifecycle: creation, dataset ingestion
// through workbook upload or sample generation, manual table edits and
// export. All dataset state lives in the workspace store.
type Service struct {
	store          workspace.Store
	departments    *department.Registry
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
	defaultTTL     time.Duration
	maxTTL         time.Duration
	importErrorCap int
}

// NewService creates a new workspace Service with default TTL policy
func NewService(store workspace.Store, departments *department.Registry, logger *zap.Logger) *Service {
	return &Service{
		store:          store,
		departments:    departments,
		logger:         logger,
		defaultTTL:     DefaultTTL,
		maxTTL:         MaxTTL,
		importErrorCap: DefaultImportErrorCap,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTTLPolicy overrides the default and maximum workspace lifetimes.
// Non-positive values keep the current policy.
func (s *Service) SetTTLPolicy(defaultTTL, maxTTL time.Duration) {
	if defaultTTL > 0 {
		s.defaultTTL = defaultTTL
	}
	if maxTTL > 0 {
		s.maxTTL = maxTTL
	}
}

// SetImportErrorCap overrides how many row errors an upload response carries
func (s *Service) SetImportErrorCap(n int) {
	if n > 0 {
		s.importErrorCap = n
	}
}

// Create opens a workspace for one department domain with an empty dataset
func (s *Service) Create(ctx context.Context, req CreateWorkspaceRequest) (*WorkspaceResponse, error) {
	dept, err := s.departments.GetAvailable(req.Domain)
	if err != nil {
		return nil, err
	}

	ttl := s.defaultTTL
	if req.TTLMinutes > 0 {
		ttl = time.Duration(req.TTLMinutes) * time.Minute
		if ttl > s.maxTTL {
			ttl = s.maxTTL
		}
	}

	ws, err := workspace.New(dept.Key, dept.NewDataset(), ttl)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	s.logger.Info("Workspace created",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("domain", ws.Domain),
		zap.Duration("ttl", ttl))

	response := ToWorkspaceResponse(ws)
	return &response, nil
}

// Get returns the workspace state
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*WorkspaceResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWorkspaceResponse(ws)
	return &response, nil
}

// Delete discards a workspace. Expired workspaces can still be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ws, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	ws.MarkDeleted()
	s.publishDomainEvents(ctx, ws)

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Workspace deleted",
		zap.String("workspace_id", id.String()),
		zap.String("domain", ws.Domain))
	return nil
}

// ImportWorkbook replaces the workspace dataset with the contents of an
// uploaded xlsx file. The upload is rejected wholesale when a required sheet
// is missing; rows that fail to bind are collected as errors while the
// remaining rows are imported.
func (s *Service) ImportWorkbook(ctx context.Context, id uuid.UUID, fileName string, file io.Reader) (*ImportResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetAvailable(ws.Domain)
	if err != nil {
		return nil, err
	}

	reader, err := workbook.OpenReader(file)
	if err != nil {
		if errors.Is(err, workbook.ErrEmptyWorkbook) {
			missing := &workbook.MissingSheetsError{Sheets: dept.Schema.SheetNames()}
			return nil, shared.NewDomainError("MISSING_SHEETS", missing.Error())
		}
		return nil, shared.NewDomainError("INVALID_FILE", "File is not a valid Excel workbook")
	}
	defer reader.Close()

	if err := reader.ValidateSheets(dept.Schema); err != nil {
		var missing *workbook.MissingSheetsError
		if errors.As(err, &missing) {
			return nil, shared.NewDomainError("MISSING_SHEETS", missing.Error())
		}
		return nil, err
	}

	ds, err := s.departments.EmptyDataset(ws.Domain)
	if err != nil {
		return nil, err
	}

	result := workbook.NewValidationResult()
	collection := workbook.NewErrorCollection(s.importErrorCap)
	for _, sheet := range dept.Schema.Sheets {
		missingCols, err := reader.MissingColumns(sheet)
		if err != nil {
			return nil, err
		}
		if len(missingCols) > 0 {
			collection.AddMissingColumns(sheet.Name, missingCols)
		}

		records, err := reader.Records(sheet.Name)
		if err != nil {
			return nil, err
		}
		for i, record := range records {
			result.TotalRows++
			if err := ds.Append(sheet.Name, record); err != nil {
				collection.AddBindingError(sheet.Name, i+2, err)
				result.ErrorRows++
				continue
			}
			result.ValidRows++
			result.AddPreview(record)
		}
	}
	result.SetErrors(collection)

	if err := ws.ImportDataset(ds, fileName, result.ValidRows, result.ErrorRows); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	s.logger.Info("Workbook imported",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("domain", ws.Domain),
		zap.String("file_name", fileName),
		zap.Int("valid_rows", result.ValidRows),
		zap.Int("error_rows", result.ErrorRows))

	return &ImportResponse{
		FileName:    fileName,
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidRows,
		ErrorRows:   result.ErrorRows,
		Errors:      result.Errors,
		Preview:     result.Preview,
		IsTruncated: result.IsTruncated,
		TotalErrors: result.TotalErrors,
		Workspace:   ToWorkspaceResponse(ws),
	}, nil
}

// ExportWorkbook renders the current dataset as an xlsx download, one sheet
// per table
func (s *Service) ExportWorkbook(ctx context.Context, id uuid.UUID) (*WorkbookFile, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ws.HasData() {
		return nil, shared.ErrNoDataset
	}

	names := ws.Dataset.TableNames()
	views := make([]dataset.View, 0, len(names))
	for _, name := range names {
		view, err := ws.Dataset.View(name)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	f, err := workbook.FromViews(views)
	if err != nil {
		return nil, err
	}
	data, err := workbook.Bytes(f)
	if err != nil {
		return nil, err
	}

	return &WorkbookFile{
		FileName: workbookFileName(ws.Domain, "export"),
		Data:     data,
	}, nil
}

// Template renders a headers-only xlsx for one department, ready to be
// filled in and uploaded
func (s *Service) Template(domain string) (*WorkbookFile, error) {
	dept, err := s.departments.GetAvailable(domain)
	if err != nil {
		return nil, err
	}

	f, err := workbook.Template(dept.Schema)
	if err != nil {
		return nil, err
	}
	data, err := workbook.Bytes(f)
	if err != nil {
		return nil, err
	}

	return &WorkbookFile{
		FileName: workbookFileName(dept.Key, "template"),
		Data:     data,
	}, nil
}

// LoadSample replaces the workspace dataset with a deterministically
// generated sample
func (s *Service) LoadSample(ctx context.Context, id uuid.UUID, seed int64) (*SampleResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.GetAvailable(ws.Domain)
	if err != nil {
		return nil, err
	}

	ds := dept.Sample(time.Now(), seed)
	if err := ws.LoadSample(ds, seed); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	tables, err := ToTableSummaries(ws.Dataset)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sample dataset loaded",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("domain", ws.Domain),
		zap.Int64("seed", seed),
		zap.Int("total_rows", ws.Dataset.TotalRows()))

	return &SampleResponse{
		Seed:      seed,
		Tables:    tables,
		Workspace: ToWorkspaceResponse(ws),
	}, nil
}

// Tables lists every table of the workspace dataset with its shape
func (s *Service) Tables(ctx context.Context, id uuid.UUID) (*TablesResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	tables, err := ToTableSummaries(ws.Dataset)
	if err != nil {
		return nil, err
	}
	return &TablesResponse{
		Domain:    ws.Domain,
		Source:    ws.Source,
		Version:   ws.Version,
		TotalRows: ws.Dataset.TotalRows(),
		Tables:    tables,
	}, nil
}

// TableRows returns one page of a table's rows
func (s *Service) TableRows(ctx context.Context, id uuid.UUID, table string, filter TableRowsFilter) (*TableRowsResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := ws.Dataset.View(table)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total := len(view.Rows)
	totalPages := total / pageSize
	if total%pageSize > 0 {
		totalPages++
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &TableRowsResponse{
		Table:      view.Name,
		Columns:    view.Columns,
		Rows:       view.Rows[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// AppendRow adds one manually entered record to a table
func (s *Service) AppendRow(ctx context.Context, id uuid.UUID, table string, req AppendRowRequest) (*TableActionResponse, error) {
	if len(req.Record) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Record cannot be empty")
	}

	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ws.AppendRow(table, req.Record); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	view, err := ws.Dataset.View(table)
	if err != nil {
		return nil, err
	}
	return &TableActionResponse{
		Table:   view.Name,
		Rows:    len(view.Rows),
		Version: ws.Version,
	}, nil
}

// ClearTable empties one table, keeping the rest of the dataset
func (s *Service) ClearTable(ctx context.Context, id uuid.UUID, table string) (*TableActionResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ws.ClearTable(table); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	return &TableActionResponse{
		Table:   table,
		Rows:    0,
		Version: ws.Version,
	}, nil
}

// ResetTables empties every table of the workspace dataset
func (s *Service) ResetTables(ctx context.Context, id uuid.UUID) (*WorkspaceResponse, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ws.ResetTables()
	if err := s.store.Save(ctx, ws); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, ws)

	response := ToWorkspaceResponse(ws)
	return &response, nil
}

// Quality computes the data-quality report for the workspace dataset
func (s *Service) Quality(ctx context.Context, id uuid.UUID) (*dataset.QualityReport, error) {
	ws, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	report, err := dataset.Quality(ws.Dataset)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// load fetches a workspace and enforces expiry: an expired workspace is
// removed on sight and reported as WORKSPACE_EXPIRED, matching the token
// lifetime handed out at creation.
func (s *Service) load(ctx context.Context, id uuid.UUID) (*workspace.Workspace, error) {
	ws, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws.Expired(time.Now()) {
		_ = s.store.Delete(ctx, id)
		return nil, shared.ErrWorkspaceExpired
	}
	return ws, nil
}

// publishDomainEvents publishes all domain events from the workspace
func (s *Service) publishDomainEvents(ctx context.Context, ws *workspace.Workspace) {
	if s.eventPublisher == nil {
		return
	}
	events := ws.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	ws.ClearDomainEvents()
}

// workbookFileName builds the download name for a domain's workbook, e.g.
// sales_data_export.xlsx
func workbookFileName(domain, kind string) string {
	return strings.ReplaceAll(domain, "-", "_") + "_data_" + kind + ".xlsx"
}
