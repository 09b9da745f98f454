package problem

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/interfaces/http/handlers/common"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

// Handler serves the problem JSON API.
type Handler struct {
	createProblemUC usecases.CreateProblemExecutor
	changeStatusUC  usecases.ChangeStatusExecutor
	assignProblemUC usecases.AssignProblemExecutor
	deleteProblemUC usecases.DeleteProblemExecutor
	getProblemUC    usecases.GetProblemExecutor
	listProblemsUC  usecases.ListProblemsExecutor
	logger          logger.Interface
}

func NewHandler(
	createProblemUC usecases.CreateProblemExecutor,
	changeStatusUC usecases.ChangeStatusExecutor,
	assignProblemUC usecases.AssignProblemExecutor,
	deleteProblemUC usecases.DeleteProblemExecutor,
	getProblemUC usecases.GetProblemExecutor,
	listProblemsUC usecases.ListProblemsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createProblemUC: createProblemUC,
		changeStatusUC:  changeStatusUC,
		assignProblemUC: assignProblemUC,
		deleteProblemUC: deleteProblemUC,
		getProblemUC:    getProblemUC,
		listProblemsUC:  listProblemsUC,
		logger:          logger,
	}
}

// ListProblems handles GET /api/problems
func (h *Handler) ListProblems(c *gin.Context) {
	query := parseListProblemsQuery(c, common.Principal(c))

	result, err := h.listProblemsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// CreateProblem handles POST /api/problems
func (h *Handler) CreateProblem(c *gin.Context) {
	var req CreateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create problem", "error", err)
		utils.ErrorResponseWithError(c, bindingError(err))
		return
	}

	result, err := h.createProblemUC.Execute(c.Request.Context(), req.ToCommand(common.Principal(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"problem": toCreatedProblemResponse(result)})
}

// GetProblem handles GET /api/problems/:id
func (h *Handler) GetProblem(c *gin.Context) {
	problemID, err := parseProblemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getProblemUC.Execute(c.Request.Context(), usecases.GetProblemQuery{
		Principal: common.Principal(c),
		ProblemID: problemID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{"problem": result})
}

// ChangeStatus handles PATCH /api/problems/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	problemID, err := parseProblemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, bindingError(err))
		return
	}

	_, err = h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		Principal: common.Principal(c),
		ProblemID: problemID,
		NewStatus: req.Status,
		Reason:    req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ActionSuccessResponse(c)
}

// AssignProblem handles POST /api/problems/:id/assign
func (h *Handler) AssignProblem(c *gin.Context) {
	problemID, err := parseProblemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, bindingError(err))
		return
	}

	_, err = h.assignProblemUC.Execute(c.Request.Context(), usecases.AssignProblemCommand{
		Principal:    common.Principal(c),
		ProblemID:    problemID,
		SpecialistID: req.SpecialistID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ActionSuccessResponse(c)
}

// DeleteProblem handles DELETE /api/problems/:id
func (h *Handler) DeleteProblem(c *gin.Context) {
	problemID, err := parseProblemID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	_, err = h.deleteProblemUC.Execute(c.Request.Context(), usecases.DeleteProblemCommand{
		Principal: common.Principal(c),
		ProblemID: problemID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ActionSuccessResponse(c)
}
