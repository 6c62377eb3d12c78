package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/application"
	"github.com/hanco-rental/service-booking/internal/response"
)

// BranchHandler handles branch directory HTTP endpoints.
type BranchHandler struct {
	branches *application.BranchService
	logger   *zap.Logger
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(branches *application.BranchService, logger *zap.Logger) *BranchHandler {
	return &BranchHandler{branches: branches, logger: logger}
}

// RegisterRoutes registers branch routes on the given group.
func (h *BranchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	branches := rg.Group("/branches")
	{
		branches.GET("", h.List)
		branches.GET("/:id", h.Get)
	}
}

// List handles GET /branches with an optional city filter.
func (h *BranchHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.branches.ListBranches(c.Request.Context(), c.Query("city"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /branches/:id.
func (h *BranchHandler) Get(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid branch ID")
		return
	}

	branch, err := h.branches.GetBranch(c.Request.Context(), branchID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, branch)
}
