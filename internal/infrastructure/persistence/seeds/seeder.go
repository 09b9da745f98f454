// Package seeds loads the reference data a fresh installation needs: roles,
// permissions, departments, demo staff, problem types and equipment.
package seeds

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"helpdesk/internal/domain/equipment"
	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/problemtype"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/logger"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type Fixtures struct {
	Permissions  []PermissionFixture  `yaml:"permissions"`
	Roles        []RoleFixture        `yaml:"roles"`
	Departments  []DepartmentFixture  `yaml:"departments"`
	Users        []UserFixture        `yaml:"users"`
	ProblemTypes []ProblemTypeFixture `yaml:"problem_types"`
	Equipment    []EquipmentFixture   `yaml:"equipment"`
}

type PermissionFixture struct {
	Resource    string `yaml:"resource"`
	Action      string `yaml:"action"`
	Description string `yaml:"description"`
}

type RoleFixture struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	System      bool     `yaml:"system"`
	Permissions []string `yaml:"permissions"`
}

type DepartmentFixture struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

type UserFixture struct {
	FirstName  string   `yaml:"first_name"`
	LastName   string   `yaml:"last_name"`
	Email      string   `yaml:"email"`
	JobTitle   string   `yaml:"job_title"`
	Department string   `yaml:"department"`
	Roles      []string `yaml:"roles"`
}

type ProblemTypeFixture struct {
	Name              string `yaml:"name"`
	Parent            string `yaml:"parent"`
	Description       string `yaml:"description"`
	ResponseMinutes   *int   `yaml:"response_minutes"`
	ResolutionMinutes *int   `yaml:"resolution_minutes"`
}

type EquipmentFixture struct {
	SerialNumber string `yaml:"serial_number"`
	AssetTag     string `yaml:"asset_tag"`
	Make         string `yaml:"make"`
	Model        string `yaml:"model"`
	Type         string `yaml:"type"`
	AssignedTo   string `yaml:"assigned_to"`
}

// DefaultFixtures parses the fixture file compiled into the binary.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixtures: %w", err)
	}
	return &f, nil
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type PolicySyncer interface {
	SyncToCasbin(ctx context.Context) error
}

type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Seeder inserts fixtures that are not present yet; running it twice is a no-op.
type Seeder struct {
	txRunner        TxRunner
	roleRepo        permission.RoleRepository
	permissionRepo  permission.PermissionRepository
	departmentRepo  user.DepartmentRepository
	userRepo        user.Repository
	problemTypeRepo problemtype.Repository
	equipmentRepo   equipment.Repository
	hasher          PasswordHasher
	syncer          PolicySyncer
	logger          logger.Interface
}

func NewSeeder(
	txRunner TxRunner,
	roleRepo permission.RoleRepository,
	permissionRepo permission.PermissionRepository,
	departmentRepo user.DepartmentRepository,
	userRepo user.Repository,
	problemTypeRepo problemtype.Repository,
	equipmentRepo equipment.Repository,
	hasher PasswordHasher,
	syncer PolicySyncer,
	logger logger.Interface,
) *Seeder {
	return &Seeder{
		txRunner:        txRunner,
		roleRepo:        roleRepo,
		permissionRepo:  permissionRepo,
		departmentRepo:  departmentRepo,
		userRepo:        userRepo,
		problemTypeRepo: problemTypeRepo,
		equipmentRepo:   equipmentRepo,
		hasher:          hasher,
		syncer:          syncer,
		logger:          logger,
	}
}

// Seed writes fixtures in one transaction, then mirrors role grants into casbin.
// Demo users get defaultPassword.
func (s *Seeder) Seed(ctx context.Context, f *Fixtures, defaultPassword string) error {
	if defaultPassword == "" {
		return fmt.Errorf("seed password is required")
	}
	passwordHash, err := s.hasher.Hash(defaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		permIDs, err := s.seedPermissions(ctx, f.Permissions)
		if err != nil {
			return err
		}
		roleIDs, err := s.seedRoles(ctx, f.Roles, permIDs)
		if err != nil {
			return err
		}
		deptIDs, err := s.seedDepartments(ctx, f.Departments)
		if err != nil {
			return err
		}
		userIDs, err := s.seedUsers(ctx, f.Users, roleIDs, deptIDs, passwordHash)
		if err != nil {
			return err
		}
		if err := s.seedProblemTypes(ctx, f.ProblemTypes); err != nil {
			return err
		}
		return s.seedEquipment(ctx, f.Equipment, userIDs)
	})
	if err != nil {
		s.logger.Errorw("seeding failed", "error", err)
		return err
	}

	if err := s.syncer.SyncToCasbin(ctx); err != nil {
		return fmt.Errorf("failed to sync policies after seeding: %w", err)
	}

	s.logger.Infow("seed data loaded",
		"permissions", len(f.Permissions),
		"roles", len(f.Roles),
		"users", len(f.Users),
		"problem_types", len(f.ProblemTypes),
		"equipment", len(f.Equipment),
	)
	return nil
}

func (s *Seeder) seedPermissions(ctx context.Context, fixtures []PermissionFixture) (map[string]uint, error) {
	ids := make(map[string]uint, len(fixtures))
	for _, pf := range fixtures {
		existing, err := s.permissionRepo.GetByName(ctx, pf.Resource, pf.Action)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			p, err := permission.NewPermission(pf.Resource, pf.Action, pf.Description)
			if err != nil {
				return nil, err
			}
			if err := s.permissionRepo.Create(ctx, p); err != nil {
				return nil, fmt.Errorf("failed to create permission %s: %w", p.Name(), err)
			}
			existing = p
		}
		ids[existing.Name()] = existing.ID()
	}
	return ids, nil
}

func (s *Seeder) seedRoles(ctx context.Context, fixtures []RoleFixture, permIDs map[string]uint) (map[string]uint, error) {
	ids := make(map[string]uint, len(fixtures))
	for _, rf := range fixtures {
		role, err := s.roleRepo.GetBySlug(ctx, rf.Slug)
		if err != nil {
			return nil, err
		}
		if role == nil {
			role, err = permission.NewRole(rf.Name, rf.Slug, rf.Description, rf.System)
			if err != nil {
				return nil, err
			}
			if err := s.roleRepo.Create(ctx, role); err != nil {
				return nil, fmt.Errorf("failed to create role %s: %w", rf.Slug, err)
			}
		}
		ids[rf.Slug] = role.ID()

		grants := make([]uint, 0, len(rf.Permissions))
		for _, name := range rf.Permissions {
			id, ok := permIDs[name]
			if !ok {
				return nil, fmt.Errorf("role %s references unknown permission %s", rf.Slug, name)
			}
			grants = append(grants, id)
		}
		if err := s.roleRepo.AssignPermissions(ctx, role.ID(), grants); err != nil {
			return nil, fmt.Errorf("failed to grant permissions to %s: %w", rf.Slug, err)
		}
	}
	return ids, nil
}

func (s *Seeder) seedDepartments(ctx context.Context, fixtures []DepartmentFixture) (map[string]uint, error) {
	ids := make(map[string]uint, len(fixtures))
	for _, df := range fixtures {
		dept, err := s.departmentRepo.GetByName(ctx, df.Name)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			dept = &user.Department{Name: df.Name, Location: df.Location, IsActive: true}
			if err := s.departmentRepo.Create(ctx, dept); err != nil {
				return nil, fmt.Errorf("failed to create department %s: %w", df.Name, err)
			}
		}
		ids[df.Name] = dept.ID
	}
	return ids, nil
}

func (s *Seeder) seedUsers(ctx context.Context, fixtures []UserFixture, roleIDs, deptIDs map[string]uint, passwordHash string) (map[string]uint, error) {
	ids := make(map[string]uint, len(fixtures))
	for _, uf := range fixtures {
		email := strings.ToLower(uf.Email)
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ids[email] = existing.ID()
			continue
		}

		var deptID *uint
		if uf.Department != "" {
			id, ok := deptIDs[uf.Department]
			if !ok {
				return nil, fmt.Errorf("user %s references unknown department %s", email, uf.Department)
			}
			deptID = &id
		}

		u, err := user.NewUser(uf.FirstName, uf.LastName, email, uf.JobTitle, deptID)
		if err != nil {
			return nil, err
		}
		u.SetPasswordHash(passwordHash)
		if err := s.userRepo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", email, err)
		}

		userRoles := make([]uint, 0, len(uf.Roles))
		for _, slug := range uf.Roles {
			id, ok := roleIDs[slug]
			if !ok {
				return nil, fmt.Errorf("user %s references unknown role %s", email, slug)
			}
			userRoles = append(userRoles, id)
		}
		if err := s.roleRepo.AssignToUser(ctx, u.ID(), userRoles); err != nil {
			return nil, fmt.Errorf("failed to assign roles to %s: %w", email, err)
		}
		ids[email] = u.ID()
	}
	return ids, nil
}

// seedProblemTypes expects parents to be listed before their children.
func (s *Seeder) seedProblemTypes(ctx context.Context, fixtures []ProblemTypeFixture) error {
	ids := make(map[string]uint, len(fixtures))
	for _, pf := range fixtures {
		existing, err := s.problemTypeRepo.GetByName(ctx, pf.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			ids[pf.Name] = existing.ID()
			continue
		}

		var parentID *uint
		if pf.Parent != "" {
			id, ok := ids[pf.Parent]
			if !ok {
				return fmt.Errorf("problem type %s references unknown parent %s", pf.Name, pf.Parent)
			}
			parentID = &id
		}

		pt, err := problemtype.NewProblemType(pf.Name, pf.Description, parentID, pf.ResponseMinutes, pf.ResolutionMinutes)
		if err != nil {
			return err
		}
		if err := s.problemTypeRepo.Create(ctx, pt); err != nil {
			return fmt.Errorf("failed to create problem type %s: %w", pf.Name, err)
		}
		ids[pf.Name] = pt.ID()
	}
	return nil
}

func (s *Seeder) seedEquipment(ctx context.Context, fixtures []EquipmentFixture, userIDs map[string]uint) error {
	for _, ef := range fixtures {
		existing, err := s.equipmentRepo.GetBySerialNumber(ctx, ef.SerialNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		var assignedUserID *uint
		if ef.AssignedTo != "" {
			id, ok := userIDs[strings.ToLower(ef.AssignedTo)]
			if !ok {
				return fmt.Errorf("equipment %s references unknown user %s", ef.SerialNumber, ef.AssignedTo)
			}
			assignedUserID = &id
		}

		eq, err := equipment.NewEquipment(ef.SerialNumber, ef.AssetTag, ef.Make, ef.Model, ef.Type, assignedUserID)
		if err != nil {
			return err
		}
		if err := s.equipmentRepo.Create(ctx, eq); err != nil {
			return fmt.Errorf("failed to create equipment %s: %w", ef.SerialNumber, err)
		}
	}
	return nil
}
