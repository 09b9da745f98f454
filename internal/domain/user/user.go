package user

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"helpdesk/internal/shared/constants"
)

// User is a member of staff: a reporter, operator, specialist or administrator
// depending on the roles attached.
type User struct {
	id             uint
	firstName      string
	lastName       string
	email          string
	passwordHash   *string
	jobTitle       string
	departmentID   *uint
	departmentName string
	isActive       bool
	roles          []string
	createdAt      time.Time
	updatedAt      time.Time
	deletedAt      *time.Time
}

func NewUser(firstName, lastName, email, jobTitle string, departmentID *uint) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, NewDomainError("first and last name are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewDomainError("invalid email address", email)
	}

	now := time.Now().UTC()
	return &User{
		firstName:    firstName,
		lastName:     lastName,
		email:        email,
		jobTitle:     jobTitle,
		departmentID: departmentID,
		isActive:     true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructUser(
	id uint,
	firstName, lastName, email string,
	passwordHash *string,
	jobTitle string,
	departmentID *uint,
	departmentName string,
	isActive bool,
	roles []string,
	createdAt, updatedAt time.Time,
	deletedAt *time.Time,
) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:             id,
		firstName:      firstName,
		lastName:       lastName,
		email:          email,
		passwordHash:   passwordHash,
		jobTitle:       jobTitle,
		departmentID:   departmentID,
		departmentName: departmentName,
		isActive:       isActive,
		roles:          roles,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		deletedAt:      deletedAt,
	}, nil
}

func (u *User) ID() uint               { return u.id }
func (u *User) FirstName() string      { return u.firstName }
func (u *User) LastName() string       { return u.lastName }
func (u *User) Email() string          { return u.email }
func (u *User) PasswordHash() *string  { return u.passwordHash }
func (u *User) JobTitle() string       { return u.jobTitle }
func (u *User) DepartmentID() *uint    { return u.departmentID }
func (u *User) DepartmentName() string { return u.departmentName }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
func (u *User) DeletedAt() *time.Time  { return u.deletedAt }

func (u *User) FullName() string {
	return u.firstName + " " + u.lastName
}

// Roles returns the role slugs loaded with the user.
func (u *User) Roles() []string {
	return slices.Clone(u.roles)
}

func (u *User) HasRole(slug string) bool {
	return slices.Contains(u.roles, slug)
}

// IsAssignableSpecialist reports whether problems may be handed to this user.
func (u *User) IsAssignableSpecialist() bool {
	return u.isActive && u.deletedAt == nil && u.HasRole(constants.RoleSpecialist)
}

// CanLogin reports whether password login is possible at all.
func (u *User) CanLogin() bool {
	return u.isActive && u.deletedAt == nil && u.passwordHash != nil && *u.passwordHash != ""
}

func (u *User) SetID(id uint) {
	u.id = id
}

func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = &hash
	u.updatedAt = time.Now().UTC()
}

func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now().UTC()
}
