package user

import "context"

// Repository defines the interface for user data operations
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a non-deleted user with roles loaded
	GetByID(ctx context.Context, id uint) (*User, error)

	// GetByIDs retrieves multiple users; unknown IDs are skipped
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)

	// GetByEmail retrieves a non-deleted user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// ListActive returns active users ordered by last name, optionally limited to a role
	ListActive(ctx context.Context, filter ListFilter) ([]*User, error)

	// CountActive counts active, non-deleted users
	CountActive(ctx context.Context) (int64, error)
}

// ListFilter narrows ListActive
type ListFilter struct {
	Role         string
	DepartmentID *uint
}

// Department is an organisational unit users belong to.
type Department struct {
	ID       uint
	Name     string
	Location string
	IsActive bool
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept *Department) error
	GetByID(ctx context.Context, id uint) (*Department, error)
	GetByName(ctx context.Context, name string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
