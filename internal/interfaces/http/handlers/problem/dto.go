package problem

import (
	"time"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/utils"
)

type CreateProblemRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description"`
	Priority      string `json:"priority" binding:"required"`
	ProblemTypeID uint   `json:"problemTypeId" binding:"required"`
	EquipmentID   *uint  `json:"equipmentId"`
	ReporterID    uint   `json:"reporterId"`
}

func (r *CreateProblemRequest) ToCommand(principal *permission.Principal) usecases.CreateProblemCommand {
	return usecases.CreateProblemCommand{
		Principal:     principal,
		Title:         r.Title,
		Description:   r.Description,
		Priority:      r.Priority,
		ProblemTypeID: r.ProblemTypeID,
		EquipmentID:   r.EquipmentID,
		ReporterID:    r.ReporterID,
	}
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=500"`
}

type AssignProblemRequest struct {
	SpecialistID uint `json:"specialistId" binding:"required"`
}

// CreatedProblemResponse is the "problem" object returned by create.
type CreatedProblemResponse struct {
	ID        uint      `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCreatedProblemResponse(result *usecases.CreateProblemResult) CreatedProblemResponse {
	return CreatedProblemResponse{
		ID:        result.ProblemID,
		Number:    result.Number,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
	}
}

func parseProblemID(c *gin.Context) (uint, error) {
	return utils.ParseIDParam(c, "id", "problem")
}

func parseListProblemsQuery(c *gin.Context, principal *permission.Principal) usecases.ListProblemsQuery {
	return usecases.ListProblemsQuery{
		Principal: principal,
		Status:    c.Query("status"),
		Limit:     utils.ParseLimit(c, constants.DefaultProblemListLimit, constants.MaxProblemListLimit),
	}
}

func bindingError(err error) error {
	return errors.NewValidationError("Invalid request body", utils.ValidationDetails(err))
}
