package permission

import "context"

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetBySlug(ctx context.Context, slug string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	AssignPermissions(ctx context.Context, roleID uint, permissionIDs []uint) error
	AssignToUser(ctx context.Context, userID uint, roleIDs []uint) error
	GetUserRoles(ctx context.Context, userID uint) ([]*Role, error)
	// GetUserPermissions returns the union of permission names over the user's roles.
	GetUserPermissions(ctx context.Context, userID uint) ([]string, error)
	// ListRolePermissions returns (role slug, resource, action) triples for policy sync.
	ListRolePermissions(ctx context.Context) ([][3]string, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByName(ctx context.Context, resource, action string) (*Permission, error)
	List(ctx context.Context) ([]*Permission, error)
}
