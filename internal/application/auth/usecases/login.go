package usecases

import (
	"context"
	"strings"
	"time"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/domain/user"
	"helpdesk/internal/shared/errors"
	"helpdesk/internal/shared/logger"
)

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	Principal *permission.Principal
	Token     string
	ExpiresAt time.Time
}

// LoginUseCase checks a password and issues a session token. Every failure
// that depends on the submitted credentials returns the same error.
type LoginUseCase struct {
	userRepo user.Repository
	roleRepo permission.RoleRepository
	hasher   PasswordVerifier
	tokens   SessionTokenIssuer
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	roleRepo permission.RoleRepository,
	hasher PasswordVerifier,
	tokens SessionTokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	u, err := uc.authenticate(ctx, email, cmd.Password)
	if err != nil {
		return nil, err
	}

	permissions, err := uc.roleRepo.GetUserPermissions(ctx, u.ID())
	if err != nil {
		uc.logger.Errorw("failed to load user permissions", "user_id", u.ID(), "error", err)
		return nil, errors.NewPersistenceError("Failed to sign in. Please try again.")
	}

	principal := &permission.Principal{
		UserID:         u.ID(),
		Email:          u.Email(),
		Name:           u.FullName(),
		Roles:          u.Roles(),
		Permissions:    permissions,
		DepartmentID:   u.DepartmentID(),
		DepartmentName: u.DepartmentName(),
	}

	token, expiresAt, err := uc.tokens.Generate(principal)
	if err != nil {
		uc.logger.Errorw("failed to issue session token", "user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("Failed to sign in. Please try again.")
	}

	uc.logger.Infow("user logged in successfully", "user_id", u.ID(), "roles", principal.Roles)

	return &LoginResult{
		Principal: principal,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (uc *LoginUseCase) authenticate(ctx context.Context, email, password string) (*user.User, error) {
	if email == "" || password == "" {
		_ = uc.hasher.VerifyDummy(password)
		return nil, errors.NewInvalidCredentialsError()
	}

	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, errors.NewPersistenceError("Failed to sign in. Please try again.")
	}

	// Return generic error if user not found (don't reveal if email exists)
	if u == nil || !u.CanLogin() {
		_ = uc.hasher.VerifyDummy(password)
		uc.logger.Warnw("login rejected", "email", email, "reason", "unknown or disabled account")
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := uc.hasher.Verify(password, *u.PasswordHash()); err != nil {
		uc.logger.Warnw("login rejected", "user_id", u.ID(), "reason", "password mismatch")
		return nil, errors.NewInvalidCredentialsError()
	}

	return u, nil
}
