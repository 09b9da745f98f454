package dashboard

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/interfaces/http/handlers/common"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/utils"
)

// Each form action stores an ActionResult flash and redirects.

// CreateProblem handles POST /dashboard/problems
func (h *Handler) CreateProblem(c *gin.Context) {
	cmd := usecases.CreateProblemCommand{
		Principal:   common.Principal(c),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Priority:    c.PostForm("priority"),
	}

	if raw := strings.TrimSpace(c.PostForm("problemTypeId")); raw != "" {
		id, err := utils.ParseID(raw, "problem type")
		if err != nil {
			h.fail(c, constants.PathNewProblem, err)
			return
		}
		cmd.ProblemTypeID = id
	}
	if raw := strings.TrimSpace(c.PostForm("equipmentId")); raw != "" {
		id, err := utils.ParseID(raw, "equipment")
		if err != nil {
			h.fail(c, constants.PathNewProblem, err)
			return
		}
		cmd.EquipmentID = &id
	}

	result, err := h.createProblemUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, constants.PathNewProblem, err)
		return
	}

	h.succeed(c, problemPath(result.ProblemID))
}

// ChangeStatus handles POST /dashboard/problems/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	problemID, err := utils.ParseIDParam(c, "id", "problem")
	if err != nil {
		h.fail(c, constants.PathProblemsList, err)
		return
	}

	_, err = h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		Principal: common.Principal(c),
		ProblemID: problemID,
		NewStatus: c.PostForm("status"),
		Reason:    c.PostForm("reason"),
	})
	if err != nil {
		h.fail(c, problemPath(problemID), err)
		return
	}

	h.succeed(c, problemPath(problemID))
}

// AssignProblem handles POST /dashboard/problems/:id/assign
func (h *Handler) AssignProblem(c *gin.Context) {
	problemID, err := utils.ParseIDParam(c, "id", "problem")
	if err != nil {
		h.fail(c, constants.PathProblemsList, err)
		return
	}

	specialistID, err := utils.ParseID(c.PostForm("specialistId"), "specialist")
	if err != nil {
		h.fail(c, problemPath(problemID), err)
		return
	}

	_, err = h.assignProblemUC.Execute(c.Request.Context(), usecases.AssignProblemCommand{
		Principal:    common.Principal(c),
		ProblemID:    problemID,
		SpecialistID: specialistID,
	})
	if err != nil {
		h.fail(c, problemPath(problemID), err)
		return
	}

	h.succeed(c, problemPath(problemID))
}

// DeleteProblem handles POST /dashboard/problems/:id/delete
func (h *Handler) DeleteProblem(c *gin.Context) {
	problemID, err := utils.ParseIDParam(c, "id", "problem")
	if err != nil {
		h.fail(c, constants.PathProblemsList, err)
		return
	}

	_, err = h.deleteProblemUC.Execute(c.Request.Context(), usecases.DeleteProblemCommand{
		Principal: common.Principal(c),
		ProblemID: problemID,
	})
	if err != nil {
		h.fail(c, problemPath(problemID), err)
		return
	}

	h.succeed(c, constants.PathProblemsList)
}

func (h *Handler) succeed(c *gin.Context, redirect string) {
	common.SetFlash(c, utils.ActionResult{Success: true})
	c.Redirect(http.StatusSeeOther, redirect)
}

func (h *Handler) fail(c *gin.Context, redirect string, err error) {
	result := utils.ActionResultFromError(err)
	h.logger.Debugw("form action failed", "path", c.Request.URL.Path, "error", result.Error)
	common.SetFlash(c, result)
	c.Redirect(http.StatusSeeOther, redirect)
}
