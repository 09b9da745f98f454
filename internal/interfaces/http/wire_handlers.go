package http

import (
	"helpdesk/internal/interfaces/http/handlers"
	dashboardHandlers "helpdesk/internal/interfaces/http/handlers/dashboard"
	problemHandlers "helpdesk/internal/interfaces/http/handlers/problem"
)

// allHandlers holds all HTTP handler instances created during container initialization.
type allHandlers struct {
	authHandler      *handlers.AuthHandler
	staffHandler     *handlers.StaffHandler
	problemHandler   *problemHandlers.Handler
	dashboardHandler *dashboardHandlers.Handler
}

func (c *Container) newHandlers() *allHandlers {
	u := c.ucs
	log := c.log

	return &allHandlers{
		authHandler:  handlers.NewAuthHandler(u.loginUC, u.logoutUC, c.cfg.Auth.Cookie, log),
		staffHandler: handlers.NewStaffHandler(u.listStaffUC, u.createStaffUC, log),
		problemHandler: problemHandlers.NewHandler(
			u.createProblemUC,
			u.changeStatusUC,
			u.assignProblemUC,
			u.deleteProblemUC,
			u.getProblemUC,
			u.listProblemsUC,
			log,
		),
		dashboardHandler: dashboardHandlers.NewHandler(dashboardHandlers.UseCases{
			Stats:           u.getDashboardStatsUC,
			ListProblems:    u.listProblemsUC,
			GetProblem:      u.getProblemUC,
			CreateProblem:   u.createProblemUC,
			ChangeStatus:    u.changeStatusUC,
			AssignProblem:   u.assignProblemUC,
			DeleteProblem:   u.deleteProblemUC,
			ListSpecialists: u.listSpecialistsUC,
			ListEquipment:   u.listEquipmentUC,
			ListTypes:       u.listProblemTypesUC,
		}, c.permissionSvc, log),
	}
}
