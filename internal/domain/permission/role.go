package permission

import (
	"fmt"
)

type Role struct {
	id          uint
	name        string
	slug        string
	description string
	isSystem    bool
}

func NewRole(name, slug, description string, isSystem bool) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("role slug is required")
	}
	if len(name) > 50 || len(slug) > 50 {
		return nil, fmt.Errorf("role name and slug are limited to 50 characters")
	}
	return &Role{name: name, slug: slug, description: description, isSystem: isSystem}, nil
}

func ReconstructRole(id uint, name, slug, description string, isSystem bool) *Role {
	return &Role{id: id, name: name, slug: slug, description: description, isSystem: isSystem}
}

func (r *Role) ID() uint            { return r.id }
func (r *Role) Name() string        { return r.name }
func (r *Role) Slug() string        { return r.slug }
func (r *Role) Description() string { return r.description }
func (r *Role) IsSystem() bool      { return r.isSystem }

func (r *Role) SetID(id uint) {
	r.id = id
}
