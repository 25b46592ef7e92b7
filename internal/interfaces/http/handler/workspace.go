package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kpihub/backend/internal/application/workspace"
	"github.com/kpihub/backend/internal/infrastructure/auth"
	"github.com/kpihub/backend/internal/interfaces/http/dto"
	"github.com/kpihub/backend/internal/interfaces/http/middleware"
)

// WorkspaceHandler handles the workspace session lifecycle: creation with
// token minting, dataset ingestion via workbook upload or sample load,
// table reads and manual edits, export and the quality report.
type WorkspaceHandler struct {
	BaseHandler
	workspaceService *workspace.Service
	jwtService       *auth.JWTService
	tokenBlacklist   auth.TokenBlacklist
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *workspace.Service, jwtService *auth.JWTService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
		jwtService:       jwtService,
	}
}

// SetTokenBlacklist enables early token revocation on workspace delete.
// Without it a deleted workspace's token simply dangles until expiry; every
// request through it fails with NOT_FOUND, so revocation is an optimization,
// not a security boundary.
func (h *WorkspaceHandler) SetTokenBlacklist(blacklist auth.TokenBlacklist) {
	h.tokenBlacklist = blacklist
}

// CreateWorkspaceResponse carries the new workspace and its access token
// @Description Workspace session with its bearer token
type CreateWorkspaceResponse struct {
	Workspace workspace.WorkspaceResponse `json:"workspace"`
	Token     auth.Token                  `json:"token"`
}

// SampleRequest selects the seed for deterministic sample generation
// @Description Request body for loading a sample dataset
type SampleRequest struct {
	Seed int64 `json:"seed" binding:"omitempty,min=0" example:"42"`
}

// Create godoc
// @ID           createWorkspace
// @Summary      Create a workspace
// @Description  Opens an analytics workspace for one department domain and mints its access token. The token lifetime equals the workspace TTL.
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        request body workspace.CreateWorkspaceRequest true "Workspace creation request"
// @Success      201 {object} APIResponse[CreateWorkspaceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req workspace.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ws, err := h.workspaceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	token, err := h.jwtService.IssueToken(ws.ID, ws.Domain, time.Until(ws.ExpiresAt))
	if err != nil {
		// The session exists but cannot be reached without a token; drop it
		_ = h.workspaceService.Delete(c.Request.Context(), ws.ID)
		h.InternalError(c, "Failed to issue workspace token")
		return
	}

	h.Created(c, CreateWorkspaceResponse{Workspace: *ws, Token: *token})
}

// Get godoc
// @ID           getWorkspace
// @Summary      Get the current workspace
// @Description  Returns the state of the workspace identified by the bearer token
// @Tags         workspaces
// @Produce      json
// @Success      200 {object} APIResponse[workspace.WorkspaceResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me [get]
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	ws, err := h.workspaceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ws)
}

// Delete godoc
// @ID           deleteWorkspace
// @Summary      Discard the current workspace
// @Description  Deletes the workspace and revokes its token. All loaded tables are lost.
// @Tags         workspaces
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me [delete]
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	if err := h.workspaceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	// Revoke the session token for its remaining lifetime
	if h.tokenBlacklist != nil {
		if claims := middleware.GetJWTClaims(c); claims != nil && claims.ID != "" {
			_ = h.tokenBlacklist.AddToBlacklist(c.Request.Context(), claims.ID, claims.GetRemainingTTL())
		}
	}

	h.NoContent(c)
}

// ImportWorkbook godoc
// @ID           importWorkbook
// @Summary      Upload a workbook
// @Description  Replaces the workspace tables wholesale with an uploaded xlsx workbook. The upload is rejected when any required sheet is missing; rows that fail to bind are collected as errors while valid rows are imported.
// @Tags         workspaces
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Excel workbook (.xlsx)"
// @Success      200 {object} APIResponse[workspace.ImportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/workbook [post]
func (h *WorkspaceHandler) ImportWorkbook(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, 400, dto.ErrCodeBadRequest, "Missing workbook file: expected multipart field 'file'")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeInvalidFile, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.workspaceService.ImportWorkbook(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ExportWorkbook godoc
// @ID           exportWorkbook
// @Summary      Download the current dataset
// @Description  Regenerates an xlsx workbook from the in-memory tables, one sheet per table
// @Tags         workspaces
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200 {file} binary
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/workbook [get]
func (h *WorkspaceHandler) ExportWorkbook(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	file, err := h.workspaceService.ExportWorkbook(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveWorkbook(c, file)
}

// LoadSample godoc
// @ID           loadSample
// @Summary      Load a sample dataset
// @Description  Replaces the workspace tables with a deterministically generated sample. The same seed always produces the same dataset.
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        request body SampleRequest false "Sample options"
// @Success      200 {object} APIResponse[workspace.SampleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/sample [post]
func (h *WorkspaceHandler) LoadSample(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}

	req := SampleRequest{Seed: workspace.DefaultSampleSeed}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
		if req.Seed == 0 {
			req.Seed = workspace.DefaultSampleSeed
		}
	}

	result, err := h.workspaceService.LoadSample(c.Request.Context(), id, req.Seed)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Tables godoc
// @ID           listTables
// @Summary      List workspace tables
// @Description  Returns every table of the workspace dataset with its row count and columns
// @Tags         workspaces
// @Produce      json
// @Success      200 {object} APIResponse[workspace.TablesResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/tables [get]
func (h *WorkspaceHandler) Tables(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	tables, err := h.workspaceService.Tables(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tables)
}

// TableRows godoc
// @ID           getTableRows
// @Summary      Read table rows
// @Description  Returns one page of the named table's rows in column order
// @Tags         workspaces
// @Produce      json
// @Param        table     path  string true  "Table name" example(Purchase_Orders)
// @Param        page      query int    false "Page number (default 1)"
// @Param        page_size query int    false "Rows per page (default 20, max 100)"
// @Success      200 {object} APIResponse[workspace.TableRowsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/tables/{table} [get]
func (h *WorkspaceHandler) TableRows(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}

	var filter workspace.TableRowsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	rows, err := h.workspaceService.TableRows(c.Request.Context(), id, c.Param("table"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows, int64(rows.Total), rows.Page, rows.PageSize)
}

// AppendRow godoc
// @ID           appendTableRow
// @Summary      Append a row
// @Description  Adds one manually entered record to the named table. Fields follow the table's column names; unknown fields are rejected.
// @Tags         workspaces
// @Accept       json
// @Produce      json
// @Param        table   path string                      true "Table name" example(Tickets)
// @Param        request body workspace.AppendRowRequest true "Record to append"
// @Success      200 {object} APIResponse[workspace.TableActionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/tables/{table}/rows [post]
func (h *WorkspaceHandler) AppendRow(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}

	var req workspace.AppendRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.workspaceService.AppendRow(c.Request.Context(), id, c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ClearTable godoc
// @ID           clearTable
// @Summary      Clear one table
// @Description  Empties the named table, keeping the rest of the dataset
// @Tags         workspaces
// @Produce      json
// @Param        table path string true "Table name" example(Feedback)
// @Success      200 {object} APIResponse[workspace.TableActionResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/tables/{table} [delete]
func (h *WorkspaceHandler) ClearTable(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	result, err := h.workspaceService.ClearTable(c.Request.Context(), id, c.Param("table"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ResetTables godoc
// @ID           resetTables
// @Summary      Reset all tables
// @Description  Empties every table of the workspace dataset
// @Tags         workspaces
// @Produce      json
// @Success      200 {object} APIResponse[workspace.WorkspaceResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/tables [delete]
func (h *WorkspaceHandler) ResetTables(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	ws, err := h.workspaceService.ResetTables(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ws)
}

// Quality godoc
// @ID           getQualityReport
// @Summary      Data quality report
// @Description  Summarizes completeness per table: missing cells, duplicate rows. Anomalies are surfaced, never rejected.
// @Tags         workspaces
// @Produce      json
// @Success      200 {object} APIResponse[dataset.QualityReport]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /workspaces/me/quality [get]
func (h *WorkspaceHandler) Quality(c *gin.Context) {
	id, err := getWorkspaceID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid workspace token")
		return
	}
	report, err := h.workspaceService.Quality(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
