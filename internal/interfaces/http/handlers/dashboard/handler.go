// Package dashboard serves the server-rendered pages and their form actions.
package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	directoryusecases "helpdesk/internal/application/directory/usecases"
	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/domain/permission"
	vo "helpdesk/internal/domain/problem/valueobjects"
	"helpdesk/internal/interfaces/http/handlers/common"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type Handler struct {
	statsUC           usecases.GetDashboardStatsExecutor
	listProblemsUC    usecases.ListProblemsExecutor
	getProblemUC      usecases.GetProblemExecutor
	createProblemUC   usecases.CreateProblemExecutor
	changeStatusUC    usecases.ChangeStatusExecutor
	assignProblemUC   usecases.AssignProblemExecutor
	deleteProblemUC   usecases.DeleteProblemExecutor
	listSpecialistsUC ListSpecialistsExecutor
	listEquipmentUC   ListEquipmentExecutor
	listTypesUC       ListProblemTypesExecutor
	permissions       PermissionChecker
	logger            logger.Interface
}

// UseCases groups the executors the pages depend on.
type UseCases struct {
	Stats           usecases.GetDashboardStatsExecutor
	ListProblems    usecases.ListProblemsExecutor
	GetProblem      usecases.GetProblemExecutor
	CreateProblem   usecases.CreateProblemExecutor
	ChangeStatus    usecases.ChangeStatusExecutor
	AssignProblem   usecases.AssignProblemExecutor
	DeleteProblem   usecases.DeleteProblemExecutor
	ListSpecialists ListSpecialistsExecutor
	ListEquipment   ListEquipmentExecutor
	ListTypes       ListProblemTypesExecutor
}

func NewHandler(ucs UseCases, permissions PermissionChecker, logger logger.Interface) *Handler {
	return &Handler{
		statsUC:           ucs.Stats,
		listProblemsUC:    ucs.ListProblems,
		getProblemUC:      ucs.GetProblem,
		createProblemUC:   ucs.CreateProblem,
		changeStatusUC:    ucs.ChangeStatus,
		assignProblemUC:   ucs.AssignProblem,
		deleteProblemUC:   ucs.DeleteProblem,
		listSpecialistsUC: ucs.ListSpecialists,
		listEquipmentUC:   ucs.ListEquipment,
		listTypesUC:       ucs.ListTypes,
		permissions:       permissions,
		logger:            logger,
	}
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context(), usecases.GetDashboardStatsQuery{
		Principal: common.Principal(c),
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	common.Render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Dashboard",
		"Stats": stats,
	})
}

// ListProblems handles GET /dashboard/problems
func (h *Handler) ListProblems(c *gin.Context) {
	status := c.Query("status")
	result, err := h.listProblemsUC.Execute(c.Request.Context(), usecases.ListProblemsQuery{
		Principal: common.Principal(c),
		Status:    status,
		Limit:     utils.ParseLimit(c, constants.DefaultProblemListLimit, constants.MaxProblemListLimit),
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	common.Render(c, http.StatusOK, "problems.html", gin.H{
		"Title":    "Problems",
		"Problems": result.Problems,
		"Count":    result.Count,
		"Status":   status,
		"Statuses": statusNames(),
	})
}

// NewProblem handles GET /dashboard/problems/new
func (h *Handler) NewProblem(c *gin.Context) {
	principal := common.Principal(c)

	types, err := h.listTypesUC.Execute(c.Request.Context(), directoryusecases.ListProblemTypesQuery{Principal: principal})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	equipment, err := h.listEquipmentUC.Execute(c.Request.Context(), directoryusecases.ListEquipmentQuery{Principal: principal})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	common.Render(c, http.StatusOK, "problem_new.html", gin.H{
		"Title":        "Report a problem",
		"ProblemTypes": types,
		"Equipment":    equipment,
		"Priorities":   priorityNames(),
	})
}

// ShowProblem handles GET /dashboard/problems/:id
func (h *Handler) ShowProblem(c *gin.Context) {
	problemID, err := utils.ParseIDParam(c, "id", "problem")
	if err != nil {
		common.RenderError(c, errors.NewNotFoundError("Problem not found"))
		return
	}

	ctx := c.Request.Context()
	principal := common.Principal(c)
	problem, err := h.getProblemUC.Execute(ctx, usecases.GetProblemQuery{
		Principal: principal,
		ProblemID: problemID,
	})
	if err != nil {
		common.RenderError(c, err)
		return
	}

	live := problem.DeletedAt == nil
	canAssign := live && h.permissions.Can(ctx, principal, permission.ResourceProblem, permission.ActionAssign)
	var specialists any
	if canAssign {
		list, err := h.listSpecialistsUC.Execute(ctx, directoryusecases.ListSpecialistsQuery{Principal: principal})
		if err != nil {
			h.logger.Warnw("failed to load specialists for problem page", "problem_id", problemID, "error", err)
		} else {
			specialists = list
		}
	}

	common.Render(c, http.StatusOK, "problem_detail.html", gin.H{
		"Title":       problem.Number,
		"Problem":     problem,
		"Specialists": specialists,
		"CanUpdate":   live && h.permissions.Can(ctx, principal, permission.ResourceProblem, permission.ActionUpdate),
		"CanAssign":   canAssign,
		"CanDelete":   live && h.permissions.Can(ctx, principal, permission.ResourceProblem, permission.ActionDelete),
	})
}

func problemPath(id uint) string {
	return fmt.Sprintf(constants.PathProblemFmt, id)
}

func statusNames() []string {
	all := vo.AllStatuses()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return names
}

func priorityNames() []string {
	all := vo.AllPriorities()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.String()
	}
	return names
}
