package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"helpdesk/internal/domain/user"
	"helpdesk/internal/infrastructure/persistence/mappers"
	"helpdesk/internal/infrastructure/persistence/models"
	"helpdesk/internal/shared/constants"
	"helpdesk/internal/shared/db"
	"helpdesk/internal/shared/logger"
)

// UserRepository implements the user.Repository interface
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user", "email", u.Email(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.SetID(model.ID)
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Scopes(db.NotDeleted()).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	users, err := r.hydrate(tx, []models.UserModel{model})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// GetByIDs retrieves users by IDs in one round trip per table
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	var rows []models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Scopes(db.NotDeleted()).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to get users by IDs", "count", len(ids), "error", err)
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return r.hydrate(tx, rows)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Scopes(db.NotDeleted()).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	users, err := r.hydrate(tx, []models.UserModel{model})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.UserModel{ID: model.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", u.ID(), "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// ListActive lists active users, optionally filtered to one role slug
func (r *UserRepository) ListActive(ctx context.Context, filter user.ListFilter) ([]*user.User, error) {
	var rows []models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	query := tx.Table(constants.TableUsers+" AS u").
		Scopes(db.NotDeletedWithAlias("u")).
		Select("u.*").
		Where("u.is_active = ?", true)

	if filter.Role != "" {
		query = query.
			Joins("JOIN "+constants.TableUserRoles+" ur ON ur.user_id = u.id").
			Joins("JOIN "+constants.TableRoles+" r ON r.id = ur.role_id").
			Where("r.slug = ?", filter.Role)
	}
	if filter.DepartmentID != nil {
		query = query.Where("u.department_id = ?", *filter.DepartmentID)
	}

	if err := query.Order("u.last_name ASC").Order("u.first_name ASC").Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list users", "role", filter.Role, "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return r.hydrate(tx, rows)
}

// CountActive counts active users
func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Model(&models.UserModel{}).
		Scopes(db.NotDeleted()).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

type userRoleRow struct {
	UserID uint
	Slug   string
}

// hydrate loads role slugs and department names for rows, preserving order.
func (r *UserRepository) hydrate(tx *gorm.DB, rows []models.UserModel) ([]*user.User, error) {
	if len(rows) == 0 {
		return []*user.User{}, nil
	}

	userIDs := make([]uint, 0, len(rows))
	deptIDs := make([]uint, 0)
	for _, row := range rows {
		userIDs = append(userIDs, row.ID)
		if row.DepartmentID != nil {
			deptIDs = append(deptIDs, *row.DepartmentID)
		}
	}

	var roleRows []userRoleRow
	err := tx.Table(constants.TableUserRoles+" ur").
		Select("ur.user_id, r.slug").
		Joins("JOIN "+constants.TableRoles+" r ON r.id = ur.role_id").
		Where("ur.user_id IN ?", userIDs).
		Order("r.slug ASC").
		Scan(&roleRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	roles := make(map[uint][]string, len(rows))
	for _, rr := range roleRows {
		roles[rr.UserID] = append(roles[rr.UserID], rr.Slug)
	}

	deptNames := make(map[uint]string)
	if len(deptIDs) > 0 {
		var depts []models.DepartmentModel
		if err := tx.Where("id IN ?", deptIDs).Find(&depts).Error; err != nil {
			return nil, fmt.Errorf("failed to load departments: %w", err)
		}
		for _, d := range depts {
			deptNames[d.ID] = d.Name
		}
	}

	users := make([]*user.User, 0, len(rows))
	for i := range rows {
		deptName := ""
		if rows[i].DepartmentID != nil {
			deptName = deptNames[*rows[i].DepartmentID]
		}
		u, err := r.mapper.ToDomain(&rows[i], roles[rows[i].ID], deptName)
		if err != nil {
			r.logger.Errorw("failed to map user model to entity", "user_id", rows[i].ID, "error", err)
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// DepartmentRepository stores departments
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) user.DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, dept *user.Department) error {
	model := &models.DepartmentModel{
		Name:     dept.Name,
		Location: dept.Location,
		IsActive: dept.IsActive,
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	dept.ID = model.ID
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id uint) (*user.Department, error) {
	var model models.DepartmentModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return departmentToDomain(&model), nil
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*user.Department, error) {
	var model models.DepartmentModel
	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return departmentToDomain(&model), nil
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*user.Department, error) {
	var rows []models.DepartmentModel
	if err := db.GetTxFromContext(ctx, r.db).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	out := make([]*user.Department, len(rows))
	for i := range rows {
		out[i] = departmentToDomain(&rows[i])
	}
	return out, nil
}

func departmentToDomain(m *models.DepartmentModel) *user.Department {
	return &user.Department{ID: m.ID, Name: m.Name, Location: m.Location, IsActive: m.IsActive}
}
