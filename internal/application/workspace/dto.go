package workspace

import (
	"time"

	"github.com/google/uuid"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/workspace"
	"github.com/kpihub/backend/internal/infrastructure/workbook"
)

// CreateWorkspaceRequest represents a request to open an analytics workspace
type CreateWorkspaceRequest struct {
	Domain     string `json:"domain" binding:"required"`
	TTLMinutes int    `json:"ttl_minutes" binding:"omitempty,min=1"`
}

// AppendRowRequest represents a manually entered record for one table
type AppendRowRequest struct {
	Record map[string]any `json:"record" binding:"required"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID        uuid.UUID `json:"id"`
	Domain    string    `json:"domain"`
	Source    string    `json:"source"`
	Version   int       `json:"version"`
	TotalRows int       `json:"total_rows"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ImportResponse represents the outcome of a workbook upload
type ImportResponse struct {
	FileName    string              `json:"file_name"`
	TotalRows   int                 `json:"total_rows"`
	ValidRows   int                 `json:"valid_rows"`
	ErrorRows   int                 `json:"error_rows"`
	Errors      []workbook.RowError `json:"errors,omitempty"`
	Preview     []map[string]any    `json:"preview,omitempty"`
	IsTruncated bool                `json:"is_truncated,omitempty"`
	TotalErrors int                 `json:"total_errors,omitempty"`
	Workspace   WorkspaceResponse   `json:"workspace"`
}

// SampleResponse represents the outcome of loading a sample dataset
type SampleResponse struct {
	Seed      int64             `json:"seed"`
	Tables    []TableSummary    `json:"tables"`
	Workspace WorkspaceResponse `json:"workspace"`
}

// TableSummary represents one table's shape
type TableSummary struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// TablesResponse lists every table of the workspace dataset
type TablesResponse struct {
	Domain    string         `json:"domain"`
	Source    string         `json:"source"`
	Version   int            `json:"version"`
	TotalRows int            `json:"total_rows"`
	Tables    []TableSummary `json:"tables"`
}

// TableRowsFilter represents pagination options for reading table rows
type TableRowsFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TableRowsResponse represents one page of a table
type TableRowsResponse struct {
	Table      string   `json:"table"`
	Columns    []string `json:"columns"`
	Rows       [][]any  `json:"rows"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
}

// TableActionResponse represents the state of one table after a mutation
type TableActionResponse struct {
	Table   string `json:"table"`
	Rows    int    `json:"rows"`
	Version int    `json:"version"`
}

// WorkbookFile is a generated xlsx payload ready to be served as a download
type WorkbookFile struct {
	FileName string
	Data     []byte
}

// ToWorkspaceResponse converts a workspace aggregate to its response DTO
func ToWorkspaceResponse(ws *workspace.Workspace) WorkspaceResponse {
	totalRows := 0
	if ws.Dataset != nil {
		totalRows = ws.Dataset.TotalRows()
	}
	return WorkspaceResponse{
		ID:        ws.ID,
		Domain:    ws.Domain,
		Source:    ws.Source,
		Version:   ws.Version,
		TotalRows: totalRows,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
		ExpiresAt: ws.ExpiresAt,
	}
}

// ToTableSummaries renders the shape of every table in the dataset
func ToTableSummaries(ds dataset.Tabular) ([]TableSummary, error) {
	summaries := make([]TableSummary, 0, len(ds.TableNames()))
	for _, name := range ds.TableNames() {
		view, err := ds.View(name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, TableSummary{
			Name:    view.Name,
			Rows:    len(view.Rows),
			Columns: view.Columns,
		})
	}
	return summaries, nil
}
