package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpihub/backend/internal/application/workspace"
	"github.com/kpihub/backend/internal/domain/department"
)

// DepartmentHandler serves the department catalog and domain workbook
// templates. All routes are public: the catalog is what a client shows
// before any workspace exists.
type DepartmentHandler struct {
	BaseHandler
	departments      *department.Registry
	workspaceService *workspace.Service
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(departments *department.Registry, workspaceService *workspace.Service) *DepartmentHandler {
	return &DepartmentHandler{
		departments:      departments,
		workspaceService: workspaceService,
	}
}

// DepartmentResponse represents one department catalog entry
// @Description Department catalog entry
type DepartmentResponse struct {
	Key         string   `json:"key" example:"procurement"`
	Name        string   `json:"name" example:"Procurement & Supply Chain"`
	Icon        string   `json:"icon" example:"📦"`
	Description string   `json:"description" example:"Supplier management, cost optimization, risk assessment"`
	Color       string   `json:"color" example:"#667eea"`
	Status      string   `json:"status" example:"active"`
	Sheets      []string `json:"sheets,omitempty"`
	Metrics     int      `json:"metrics,omitempty"`
}

// DepartmentListResponse lists the full department catalog
// @Description Department catalog
type DepartmentListResponse struct {
	Total       int                  `json:"total" example:"8"`
	Departments []DepartmentResponse `json:"departments"`
}

func toDepartmentResponse(d department.Department) DepartmentResponse {
	resp := DepartmentResponse{
		Key:         d.Key,
		Name:        d.Name,
		Icon:        d.Icon,
		Description: d.Description,
		Color:       d.Color,
		Status:      d.Status(),
	}
	if d.Available {
		resp.Sheets = d.Schema.SheetNames()
		resp.Metrics = d.Metrics.Len()
	}
	return resp
}

// List godoc
// @ID           listDepartments
// @Summary      List departments
// @Description  Returns the department catalog: the analytics modules that accept workspaces plus the planned ones
// @Tags         departments
// @Produce      json
// @Success      200 {object} APIResponse[DepartmentListResponse]
// @Router       /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	all := h.departments.All()
	out := make([]DepartmentResponse, 0, len(all))
	for _, d := range all {
		out = append(out, toDepartmentResponse(d))
	}
	h.Success(c, DepartmentListResponse{Total: len(out), Departments: out})
}

// Get godoc
// @ID           getDepartment
// @Summary      Get one department
// @Description  Returns a single department catalog entry by its key
// @Tags         departments
// @Produce      json
// @Param        code path string true "Department key" example(procurement)
// @Success      200 {object} APIResponse[DepartmentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /departments/{code} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	d, err := h.departments.Get(c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDepartmentResponse(d))
}

// Template godoc
// @ID           getDepartmentTemplate
// @Summary      Download workbook template
// @Description  Returns a headers-only xlsx workbook with every required sheet of the department, ready to be filled in and uploaded
// @Tags         departments
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        code path string true "Department key" example(sales)
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /departments/{code}/template [get]
func (h *DepartmentHandler) Template(c *gin.Context) {
	file, err := h.workspaceService.Template(c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	serveWorkbook(c, file)
}

// serveWorkbook writes an xlsx payload as a file download
func serveWorkbook(c *gin.Context, file *workspace.WorkbookFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.Data)
}
