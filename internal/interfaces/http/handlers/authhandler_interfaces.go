package handlers

import (
	"context"

	"helpdesk/internal/application/auth/usecases"
)

type LoginExecutor interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

type LogoutExecutor interface {
	Execute(ctx context.Context, cmd usecases.LogoutCommand) error
}
