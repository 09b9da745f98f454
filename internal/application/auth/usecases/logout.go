package usecases

import (
	"context"

	"helpdesk/internal/domain/permission"
	"helpdesk/internal/shared/logger"
)

type LogoutCommand struct {
	// Principal is nil when the session had already expired.
	Principal *permission.Principal
}

// LogoutUseCase records the end of a session. Tokens are stateless, so the
// caller drops the cookie.
type LogoutUseCase struct {
	logger logger.Interface
}

func NewLogoutUseCase(logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{logger: logger}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) error {
	if cmd.Principal == nil {
		uc.logger.Debugw("logout without an active session")
		return nil
	}

	uc.logger.Infow("user logged out successfully", "user_id", cmd.Principal.UserID)
	return nil
}
