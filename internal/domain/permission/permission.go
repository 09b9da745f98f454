package permission

import (
	"fmt"
	"strings"
)

// Resources and actions guarded by the helpdesk.
const (
	ResourceProblem   = "problem"
	ResourceUser      = "user"
	ResourceEquipment = "equipment"
	ResourceSystem    = "system"
	ResourceReports   = "reports"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionAssign = "assign"
	ActionAdmin  = "admin"
	ActionView   = "view"
)

// Permission is a resource/action pair named "resource:action".
type Permission struct {
	id          uint
	resource    string
	action      string
	description string
}

func NewPermission(resource, action, description string) (*Permission, error) {
	if resource == "" {
		return nil, fmt.Errorf("resource is required")
	}
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}
	return &Permission{resource: resource, action: action, description: description}, nil
}

// ParsePermission splits a "resource:action" name.
func ParsePermission(name string) (*Permission, error) {
	resource, action, ok := strings.Cut(name, ":")
	if !ok {
		return nil, fmt.Errorf("invalid permission name %q", name)
	}
	return NewPermission(resource, action, "")
}

func ReconstructPermission(id uint, resource, action, description string) *Permission {
	return &Permission{id: id, resource: resource, action: action, description: description}
}

func (p *Permission) ID() uint            { return p.id }
func (p *Permission) Resource() string    { return p.resource }
func (p *Permission) Action() string      { return p.action }
func (p *Permission) Description() string { return p.description }

func (p *Permission) Name() string {
	return Name(p.resource, p.action)
}

func (p *Permission) SetID(id uint) {
	p.id = id
}

// Name joins a resource and action into a permission name.
func Name(resource, action string) string {
	return resource + ":" + action
}
