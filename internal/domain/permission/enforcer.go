package permission

import "context"

// PermissionEnforcer evaluates role policies. Subjects are role slugs.
type PermissionEnforcer interface {
	Enforce(role, resource, action string) (bool, error)
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	GetPolicies() ([][]string, error)
	LoadPolicy() error
}

// Authorizer decides whether a principal may perform action on resource.
// It returns an unauthorized error for a nil principal and a forbidden
// error when no role grants the permission.
type Authorizer interface {
	Authorize(ctx context.Context, principal *Principal, resource, action string) error
}
