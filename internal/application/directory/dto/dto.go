package dto

import (
	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
)

type StaffDTO struct {
	ID         uint     `json:"id"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	JobTitle   string   `json:"jobTitle,omitempty"`
	Department string   `json:"department,omitempty"`
	Roles      []string `json:"roles"`
}

type EquipmentDTO struct {
	ID             uint   `json:"id"`
	Label          string `json:"label"`
	SerialNumber   string `json:"serialNumber"`
	AssetTag       string `json:"assetTag,omitempty"`
	EquipmentType  string `json:"equipmentType"`
	Status         string `json:"status"`
	AssignedUserID *uint  `json:"assignedUserId,omitempty"`
}

type ProblemTypeDTO struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	ParentID             *uint  `json:"parentId,omitempty"`
	SLAResponseMinutes   *int   `json:"slaResponseMinutes,omitempty"`
	SLAResolutionMinutes *int   `json:"slaResolutionMinutes,omitempty"`
}

func ToStaffDTO(u *user.User) StaffDTO {
	return StaffDTO{
		ID:         u.ID(),
		FirstName:  u.FirstName(),
		LastName:   u.LastName(),
		Name:       u.FullName(),
		Email:      u.Email(),
		JobTitle:   u.JobTitle(),
		Department: u.DepartmentName(),
		Roles:      u.Roles(),
	}
}

func ToStaffDTOs(users []*user.User) []StaffDTO {
	out := make([]StaffDTO, len(users))
	for i, u := range users {
		out[i] = ToStaffDTO(u)
	}
	return out
}

func ToEquipmentDTOs(items []*equipment.Equipment) []EquipmentDTO {
	out := make([]EquipmentDTO, len(items))
	for i, e := range items {
		out[i] = EquipmentDTO{
			ID:             e.ID(),
			Label:          e.Label(),
			SerialNumber:   e.SerialNumber(),
			AssetTag:       e.AssetTag(),
			EquipmentType:  e.EquipmentType(),
			Status:         string(e.Status()),
			AssignedUserID: e.AssignedUserID(),
		}
	}
	return out
}

func ToProblemTypeDTOs(types []*problemtype.ProblemType) []ProblemTypeDTO {
	out := make([]ProblemTypeDTO, len(types))
	for i, pt := range types {
		out[i] = ProblemTypeDTO{
			ID:                   pt.ID(),
			Name:                 pt.Name(),
			Description:          pt.Description(),
			ParentID:             pt.ParentID(),
			SLAResponseMinutes:   pt.SLAResponseMinutes(),
			SLAResolutionMinutes: pt.SLAResolutionMinutes(),
		}
	}
	return out
}
