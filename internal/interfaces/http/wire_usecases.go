package http

import (
	authUsecases "helpdesk/internal/application/auth/usecases"
	directoryUsecases "helpdesk/internal/application/directory/usecases"
	problemUsecases "helpdesk/internal/application/problem/usecases"
)

// allUseCases holds all use case instances created during container initialization.
type allUseCases struct {
	// Problem lifecycle
	createProblemUC     *problemUsecases.CreateProblemUseCase
	changeStatusUC      *problemUsecases.ChangeStatusUseCase
	assignProblemUC     *problemUsecases.AssignProblemUseCase
	deleteProblemUC     *problemUsecases.DeleteProblemUseCase
	getProblemUC        *problemUsecases.GetProblemUseCase
	listProblemsUC      *problemUsecases.ListProblemsUseCase
	getDashboardStatsUC *problemUsecases.GetDashboardStatsUseCase
	markSLABreachesUC   *problemUsecases.MarkSLABreachesUseCase

	// Auth
	loginUC  *authUsecases.LoginUseCase
	logoutUC *authUsecases.LogoutUseCase

	// Directory
	listStaffUC        *directoryUsecases.ListStaffUseCase
	createStaffUC      *directoryUsecases.CreateStaffUseCase
	listSpecialistsUC  *directoryUsecases.ListSpecialistsUseCase
	listEquipmentUC    *directoryUsecases.ListEquipmentUseCase
	listProblemTypesUC *directoryUsecases.ListProblemTypesUseCase
}

func (c *Container) newUseCases() *allUseCases {
	r := c.repos
	log := c.log
	authz := c.permissionSvc

	return &allUseCases{
		createProblemUC: problemUsecases.NewCreateProblemUseCase(
			authz, c.txManager, r.problemRepo, r.historyRepo, r.auditRepo,
			r.problemTypeRepo, r.equipmentRepo, r.userRepo, r.numberGenerator,
			c.viewCache, c.metrics, log,
		),
		changeStatusUC: problemUsecases.NewChangeStatusUseCase(
			authz, c.txManager, r.problemRepo, r.historyRepo, r.auditRepo,
			c.viewCache, c.metrics, log,
		),
		assignProblemUC: problemUsecases.NewAssignProblemUseCase(
			authz, c.txManager, r.problemRepo, r.historyRepo, r.auditRepo,
			r.userRepo, c.viewCache, c.metrics, log,
		),
		deleteProblemUC: problemUsecases.NewDeleteProblemUseCase(
			authz, c.txManager, r.problemRepo, r.auditRepo,
			c.viewCache, c.metrics, log,
		),
		getProblemUC: problemUsecases.NewGetProblemUseCase(
			authz, r.problemRepo, r.historyRepo, r.userRepo,
			r.equipmentRepo, r.problemTypeRepo, c.renderer, log,
		),
		listProblemsUC: problemUsecases.NewListProblemsUseCase(
			authz, r.problemRepo, r.userRepo, r.problemTypeRepo, c.viewCache, log,
		),
		getDashboardStatsUC: problemUsecases.NewGetDashboardStatsUseCase(
			authz, r.problemRepo, r.userRepo, r.problemTypeRepo, c.viewCache, log,
		),
		markSLABreachesUC: problemUsecases.NewMarkSLABreachesUseCase(
			c.txManager, r.problemRepo, r.auditRepo, c.viewCache, c.metrics, log,
		),

		loginUC:  authUsecases.NewLoginUseCase(r.userRepo, r.roleRepo, c.hasher, c.jwtSvc, log),
		logoutUC: authUsecases.NewLogoutUseCase(log),

		listStaffUC:        directoryUsecases.NewListStaffUseCase(authz, r.userRepo, log),
		listSpecialistsUC:  directoryUsecases.NewListSpecialistsUseCase(authz, r.userRepo, log),
		listEquipmentUC:    directoryUsecases.NewListEquipmentUseCase(authz, r.equipmentRepo, log),
		listProblemTypesUC: directoryUsecases.NewListProblemTypesUseCase(authz, r.problemTypeRepo, log),

		createStaffUC: directoryUsecases.NewCreateStaffUseCase(
			authz, c.txManager, r.userRepo, r.departmentRepo, r.roleRepo, r.auditRepo, log,
		),
	}
}
