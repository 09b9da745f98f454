package permission

import "slices"

// Principal is the authenticated actor behind a request.
type Principal struct {
	UserID         uint
	Email          string
	Name           string
	Roles          []string
	// Permissions is the login-time snapshot shown to API clients. Access
	// checks go through an Authorizer.
	Permissions    []string
	DepartmentID   *uint
	DepartmentName string
}

func (p *Principal) HasRole(slug string) bool {
	return p != nil && slices.Contains(p.Roles, slug)
}
