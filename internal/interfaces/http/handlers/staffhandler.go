package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/directory/usecases"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/interfaces/http/handlers/common"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type ListStaffExecutor interface {
	Execute(ctx context.Context, query usecases.ListStaffQuery) (*usecases.ListStaffResult, error)
}

type CreateStaffExecutor interface {
	Execute(ctx context.Context, cmd usecases.CreateStaffCommand) (*usecases.CreateStaffResult, error)
}

type CreateStaffRequest struct {
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	JobTitle     string `json:"jobTitle" binding:"max=100"`
	DepartmentID *uint  `json:"departmentId"`
	Role         string `json:"role"`
}

func (r CreateStaffRequest) ToCommand(principal *permission.Principal) usecases.CreateStaffCommand {
	return usecases.CreateStaffCommand{
		Principal:    principal,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		JobTitle:     r.JobTitle,
		DepartmentID: r.DepartmentID,
		Role:         r.Role,
	}
}

type StaffHandler struct {
	listStaffUC   ListStaffExecutor
	createStaffUC CreateStaffExecutor
	logger        logger.Interface
}

func NewStaffHandler(listStaffUC ListStaffExecutor, createStaffUC CreateStaffExecutor, log logger.Interface) *StaffHandler {
	return &StaffHandler{
		listStaffUC:   listStaffUC,
		createStaffUC: createStaffUC,
		logger:        log,
	}
}

// ListStaff handles GET /api/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	result, err := h.listStaffUC.Execute(c.Request.Context(), usecases.ListStaffQuery{
		Principal: common.Principal(c),
		Role:      c.Query("role"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// CreateStaff handles POST /api/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create staff", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", utils.ValidationDetails(err)))
		return
	}

	result, err := h.createStaffUC.Execute(c.Request.Context(), req.ToCommand(common.Principal(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}
